package entities

import (
	"time"

	"office-docflow/pkg/types"
)

type ProposalStatus string

const (
	ProposalSubmitted ProposalStatus = "submitted"
	ProposalProcured  ProposalStatus = "procured"
)

type Proposal struct {
	ID               uint64         `json:"id"`
	Number           string         `json:"number"`
	Date             time.Time      `json:"date"`
	OrderNumber      *string        `json:"order_number"`
	OrderDate        *time.Time     `json:"order_date"`
	Subject          string         `json:"subject"`
	EstimatedPrice   float64        `json:"estimated_price"`
	RequestingBranch string         `json:"requesting_branch"`
	TargetBranch     Branch         `json:"target_branch"`
	Status           ProposalStatus `json:"status"`

	types.Provenance
	types.BaseEntity
}
