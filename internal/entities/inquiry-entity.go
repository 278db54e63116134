package entities

import (
	"time"

	"office-docflow/pkg/types"
)

type Inquiry struct {
	ID         uint64  `json:"id"`
	Number     string  `json:"number"`
	Subject    string  `json:"subject"`
	IsAnswered bool    `json:"is_answered"`
	Actions    *string `json:"actions"`

	types.Provenance
	CreatedAt time.Time `json:"created_at"`
}
