package entities

import (
	"time"

	"office-docflow/pkg/types"
)

// Letter - входящее или исходящее письмо (мактуб). Только добавление, без изменений.
type Letter struct {
	ID        uint64    `json:"id"`
	Number    string    `json:"number"`
	IssueDate time.Time `json:"issue_date"`
	Sender    string    `json:"sender"`
	Recipient string    `json:"recipient"`
	Subject   string    `json:"subject"`
	Actions   *string   `json:"actions"`

	types.Provenance
	CreatedAt time.Time `json:"created_at"`
}
