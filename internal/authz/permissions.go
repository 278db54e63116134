// internal/authz/permissions.go
package authz

// --- СПИСОК ВСЕХ ДЕЙСТВИЙ В СИСТЕМЕ ---

const (
	// Канцелярия
	LettersCreate   = "letters:create"
	LettersView     = "letters:view"
	InquiriesCreate = "inquiries:create"
	InquiriesView   = "inquiries:view"

	// Жизненный цикл документов
	ProposalsCreate    = "proposals:create"
	ProposalsView      = "proposals:view"
	ProposalsInbox     = "proposals:inbox"
	ProcurementsCreate = "procurements:create"
	ProcurementsView   = "procurements:view"
	InvoicesCreate     = "invoices:create"
	InvoicesView       = "invoices:view"
	ControlsCreate     = "controls:create"
	ControlsView       = "controls:view"
	AssetsCreate       = "assets:create"
	AssetsView         = "assets:view"

	// Общие
	DashboardView = "dashboard:view"
	BranchesView  = "branches:view"
	ReportsExport = "reports:export"
)
