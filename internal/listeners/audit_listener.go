package listeners

import (
	"context"

	"go.uber.org/zap"

	"office-docflow/internal/events"
	"office-docflow/pkg/eventbus"
)

// AuditListener пишет по одной строке журнала на каждое созданное событие.
type AuditListener struct {
	logger *zap.Logger
}

func NewAuditListener(logger *zap.Logger) *AuditListener {
	return &AuditListener{logger: logger.Named("audit")}
}

func (l *AuditListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.RecordCreated, l.handle)
}

func (l *AuditListener) handle(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.RecordCreatedEvent)
	if !ok {
		return nil
	}
	fields := []zap.Field{
		zap.String("event_id", e.EventID),
		zap.String("collection", e.Collection),
		zap.Uint64("id", e.ID),
		zap.String("branch_id", e.BranchID),
		zap.String("user_id", e.UserID),
		zap.Time("at", e.At),
	}
	if e.ParentCollection != "" {
		fields = append(fields, zap.String("parent_collection", e.ParentCollection), zap.Uint64("parent_id", e.ParentID))
	}
	l.logger.Info("Запись создана", fields...)
	return nil
}
