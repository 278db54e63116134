package listeners

import (
	"context"

	"go.uber.org/zap"

	"office-docflow/internal/authz"
	"office-docflow/internal/entities"
	"office-docflow/internal/events"
	"office-docflow/pkg/eventbus"
	"office-docflow/pkg/websocket"
)

// Broadcaster - websocket.Hub.
type Broadcaster interface {
	SendToBranches(ctx context.Context, branches []string, env websocket.Envelope) error
}

// RecordPayload - то, что уходит в браузер: достаточно, чтобы перечитать нужный список.
type RecordPayload struct {
	Collection       string `json:"collection"`
	ID               uint64 `json:"id"`
	BranchID         string `json:"branch_id"`
	ParentCollection string `json:"parent_collection,omitempty"`
	ParentID         uint64 `json:"parent_id,omitempty"`
}

// Кто видит коллекцию. Входящие предложения видят и получатели.
var audienceActions = map[string][]string{
	"letters":      {authz.LettersView},
	"inquiries":    {authz.InquiriesView},
	"proposals":    {authz.ProposalsView, authz.ProposalsInbox},
	"procurements": {authz.ProcurementsView},
	"invoices":     {authz.InvoicesView},
	"controls":     {authz.ControlsView},
	"assets":       {authz.AssetsView},
}

// LiveListener пересылает RecordCreated подключённым по WebSocket подразделениям.
type LiveListener struct {
	hub    Broadcaster
	logger *zap.Logger
}

func NewLiveListener(hub Broadcaster, logger *zap.Logger) *LiveListener {
	return &LiveListener{hub: hub, logger: logger}
}

func (l *LiveListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.RecordCreated, l.handle)
	l.logger.Info("LiveListener подписан на событие", zap.String("event", events.RecordCreated))
}

func (l *LiveListener) handle(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.RecordCreatedEvent)
	if !ok {
		return nil
	}
	payload := RecordPayload{
		Collection:       e.Collection,
		ID:               e.ID,
		BranchID:         e.BranchID,
		ParentCollection: e.ParentCollection,
		ParentID:         e.ParentID,
	}
	return l.hub.SendToBranches(ctx, audience(e.Collection), websocket.NewEnvelope(events.RecordCreated, payload))
}

func audience(collection string) []string {
	actions := audienceActions[collection]
	var out []string
	for _, b := range entities.AllBranches {
		for _, action := range actions {
			if authz.Can(b, action) {
				out = append(out, b.String())
				break
			}
		}
	}
	return out
}
