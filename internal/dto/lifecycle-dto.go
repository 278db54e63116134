package dto

import (
	"encoding/json"

	"github.com/aarondl/null/v8"
)

// CreateProposalDTO - предложение от администрации. estimated_price принимается
// и как JSON-число, и как числовая строка.
type CreateProposalDTO struct {
	Number           string      `json:"number" validate:"required,notblank,max=100"`
	Date             string      `json:"date" validate:"required,date_only"`
	OrderNumber      null.String `json:"order_number" validate:"omitempty,max=100"`
	OrderDate        null.String `json:"order_date" validate:"omitempty,date_only"`
	Subject          string      `json:"subject" validate:"required,notblank"`
	EstimatedPrice   json.Number `json:"estimated_price" validate:"required,nonneg_number"`
	RequestingBranch string      `json:"requesting_branch" validate:"required,notblank,max=255"`
	TargetBranch     string      `json:"target_branch" validate:"required,notblank,max=50"`
}

type CreateProcurementDTO struct {
	PricingNumber string      `json:"pricing_number" validate:"required,notblank,max=100"`
	IsQuoted      bool        `json:"is_quoted"`
	IsContracted  bool        `json:"is_contracted"`
	CompanyName   string      `json:"company_name" validate:"required,notblank,max=255"`
	GrossAmount   json.Number `json:"gross_amount" validate:"required,nonneg_number"`
}

type CreateInvoiceDTO struct {
	Area                    string `json:"area" validate:"required,notblank,max=255"`
	RegistrationNumber      string `json:"registration_number" validate:"required,notblank,max=100"`
	IsAreaApproved          bool   `json:"is_area_approved"`
	IsReferredToProcurement bool   `json:"is_referred_to_procurement"`
}

// ControlDecisionDTO - решение контроля. Причина обязательна только для rejected,
// это проверяется в сервисе.
type ControlDecisionDTO struct {
	Status          string      `json:"status" validate:"required,oneof=controlled rejected"`
	RejectionReason null.String `json:"rejection_reason" validate:"omitempty"`
}

type CreateAssetDTO struct {
	FormM7Number string      `json:"form_m7_number" validate:"required,notblank,max=100"`
	ReportScan   null.String `json:"report_scan" validate:"omitempty,max=2048"`
}
