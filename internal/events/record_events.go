package events

import (
	"time"

	"github.com/google/uuid"
)

const RecordCreated = "record.created"

// RecordCreatedEvent публикуется после коммита транзакции, в которой создана запись.
// ParentCollection/ParentID заполнены, если создание сдвинуло состояние родителя.
type RecordCreatedEvent struct {
	EventID          string
	Collection       string
	ID               uint64
	BranchID         string
	UserID           string
	ParentCollection string
	ParentID         uint64
	At               time.Time
}

func NewRecordCreated(collection string, id uint64, branchID, userID string) RecordCreatedEvent {
	return RecordCreatedEvent{
		EventID:    uuid.NewString(),
		Collection: collection,
		ID:         id,
		BranchID:   branchID,
		UserID:     userID,
		At:         time.Now().UTC(),
	}
}

// WithParent - для переходов жизненного цикла.
func (e RecordCreatedEvent) WithParent(collection string, id uint64) RecordCreatedEvent {
	e.ParentCollection = collection
	e.ParentID = id
	return e
}

// Name - реализуем интерфейс eventbus.Event
func (e RecordCreatedEvent) Name() string {
	return RecordCreated
}
