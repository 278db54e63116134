package entities

import "office-docflow/pkg/types"

// Procurement - результат работы отдела закупок по предложению.
// HasInvoice - единственное поле, которое меняется после создания.
type Procurement struct {
	ID            uint64  `json:"id"`
	ProposalID    uint64  `json:"proposal_id"`
	PricingNumber string  `json:"pricing_number"`
	IsQuoted      bool    `json:"is_quoted"`
	IsContracted  bool    `json:"is_contracted"`
	CompanyName   string  `json:"company_name"`
	GrossAmount   float64 `json:"gross_amount"`
	HasInvoice    bool    `json:"has_invoice"`

	types.Provenance
	types.BaseEntity
}
