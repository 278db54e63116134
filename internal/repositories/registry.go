package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Registry - все хранилища приложения. Собирается либо поверх PostgreSQL,
// либо поверх memstore (STORE_DRIVER=memory).
type Registry struct {
	Tx           TxManagerInterface
	Branches     BranchRepositoryInterface
	Letters      LetterRepositoryInterface
	Inquiries    InquiryRepositoryInterface
	Proposals    ProposalRepositoryInterface
	Procurements ProcurementRepositoryInterface
	Invoices     InvoiceRepositoryInterface
	Controls     ControlRepositoryInterface
	Assets       AssetRepositoryInterface
}

func NewPostgresRegistry(pool *pgxpool.Pool, logger *zap.Logger) *Registry {
	return &Registry{
		Tx:           NewTxManager(pool),
		Branches:     NewBranchRepository(pool, logger),
		Letters:      NewLetterRepository(pool, logger),
		Inquiries:    NewInquiryRepository(pool, logger),
		Proposals:    NewProposalRepository(pool, logger),
		Procurements: NewProcurementRepository(pool, logger),
		Invoices:     NewInvoiceRepository(pool, logger),
		Controls:     NewControlRepository(pool, logger),
		Assets:       NewAssetRepository(pool, logger),
	}
}
