package dto

import "github.com/aarondl/null/v8"

type CreateLetterDTO struct {
	Number    string      `json:"number" validate:"required,notblank,max=100"`
	IssueDate string      `json:"issue_date" validate:"required,date_only"`
	Sender    string      `json:"sender" validate:"required,notblank,max=255"`
	Recipient string      `json:"recipient" validate:"required,notblank,max=255"`
	Subject   string      `json:"subject" validate:"required,notblank"`
	Actions   null.String `json:"actions" validate:"omitempty"`
}

type CreateInquiryDTO struct {
	Number     string      `json:"number" validate:"required,notblank,max=100"`
	Subject    string      `json:"subject" validate:"required,notblank"`
	IsAnswered bool        `json:"is_answered"`
	Actions    null.String `json:"actions" validate:"omitempty"`
}
