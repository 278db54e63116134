package entities

import (
	"time"

	"office-docflow/pkg/types"
)

// Asset - форма М-7, конечная точка цепочки.
type Asset struct {
	ID           uint64  `json:"id"`
	InvoiceID    uint64  `json:"invoice_id"`
	FormM7Number string  `json:"form_m7_number"`
	ReportScan   *string `json:"report_scan"`

	types.Provenance
	CreatedAt time.Time `json:"created_at"`
}
