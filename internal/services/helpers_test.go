package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/jackc/pgx/v5"

	"office-docflow/internal/authz"
	"office-docflow/internal/dto"
	"office-docflow/internal/entities"
	"office-docflow/internal/repositories"
	"office-docflow/pkg/eventbus"
)

func session(branch entities.Branch) authz.Session {
	return authz.Session{UserID: "user-" + string(branch), Branch: branch}
}

var (
	admin       = session(entities.BranchAdmin)
	procurement = session(entities.BranchProcurement)
	invoicing   = session(entities.BranchInvoice)
	control     = session(entities.BranchControl)
	assets      = session(entities.BranchAssets)
	finance     = session(entities.BranchFinance)
	superAdmin  = session(entities.BranchSuperAdmin)
)

// recordingBus запоминает опубликованные события синхронно.
type recordingBus struct {
	mu     sync.Mutex
	events []eventbus.Event
}

func (b *recordingBus) Publish(ctx context.Context, event eventbus.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *recordingBus) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.events)
}

func validProposal(target string) dto.CreateProposalDTO {
	return dto.CreateProposalDTO{
		Number:           "P-001",
		Date:             "2024-03-01",
		Subject:          "Канцелярские товары",
		EstimatedPrice:   json.Number("1500.50"),
		RequestingBranch: "admin",
		TargetBranch:     target,
	}
}

func validProcurement(contracted bool) dto.CreateProcurementDTO {
	return dto.CreateProcurementDTO{
		PricingNumber: "PR-7",
		IsQuoted:      true,
		IsContracted:  contracted,
		CompanyName:   "ООО Ромашка",
		GrossAmount:   json.Number("1400"),
	}
}

func validInvoice() dto.CreateInvoiceDTO {
	return dto.CreateInvoiceDTO{Area: "Склад 1", RegistrationNumber: "INV-9", IsAreaApproved: true}
}

// failingProcurements ломается на отметке о выставленном счёте,
// то есть уже после вставки счёта в той же транзакции.
type failingProcurements struct {
	repositories.ProcurementRepositoryInterface
	err error
}

func (f failingProcurements) MarkInvoiced(ctx context.Context, tx pgx.Tx, id uint64) error {
	return f.err
}
