package entities

import "office-docflow/pkg/types"

type ControlStatus string

const (
	ControlPending    ControlStatus = "pending"
	ControlControlled ControlStatus = "controlled"
	ControlRejected   ControlStatus = "rejected"
)

func (s ControlStatus) IsDecision() bool {
	return s == ControlControlled || s == ControlRejected
}

type Invoice struct {
	ID                      uint64        `json:"id"`
	ProcurementID           uint64        `json:"procurement_id"`
	Area                    string        `json:"area"`
	RegistrationNumber      string        `json:"registration_number"`
	IsAreaApproved          bool          `json:"is_area_approved"`
	IsReferredToProcurement bool          `json:"is_referred_to_procurement"`
	ControlStatus           ControlStatus `json:"control_status"`
	AssetIssued             bool          `json:"asset_issued"`

	types.Provenance
	types.BaseEntity
}
