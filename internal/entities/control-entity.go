package entities

import (
	"time"

	"office-docflow/pkg/types"
)

// Control - запись журнала решений контроля. Только добавление.
type Control struct {
	ID              uint64        `json:"id"`
	InvoiceID       uint64        `json:"invoice_id"`
	Status          ControlStatus `json:"status"`
	RejectionReason *string       `json:"rejection_reason"`

	types.Provenance
	CreatedAt time.Time `json:"created_at"`
}
