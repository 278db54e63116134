package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"office-docflow/internal/entities"
	"office-docflow/pkg/types"
)

const procurementTable = "procurements"

var procurementMap = map[string]string{
	"id":             "pr.id",
	"proposal_id":    "pr.proposal_id",
	"pricing_number": "pr.pricing_number",
	"is_quoted":      "pr.is_quoted",
	"is_contracted":  "pr.is_contracted",
	"company_name":   "pr.company_name",
	"has_invoice":    "pr.has_invoice",
	"branch_id":      "pr.branch_id",
	"user_id":        "pr.user_id",
	"created_at":     "pr.created_at",
}

var procurementColumns = []string{
	"pr.id", "pr.proposal_id", "pr.pricing_number", "pr.is_quoted", "pr.is_contracted", "pr.company_name",
	"pr.gross_amount", "pr.has_invoice", "pr.branch_id", "pr.user_id", "pr.created_at", "pr.updated_at",
}

type ProcurementRepositoryInterface interface {
	Create(ctx context.Context, tx pgx.Tx, procurement *entities.Procurement) error
	FindByID(ctx context.Context, tx pgx.Tx, id uint64, forUpdate bool) (*entities.Procurement, error)
	GetAll(ctx context.Context, filter types.Filter) ([]entities.Procurement, uint64, error)
	MarkInvoiced(ctx context.Context, tx pgx.Tx, id uint64) error
	Count(ctx context.Context) (int64, error)
}

type ProcurementRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewProcurementRepository(storage *pgxpool.Pool, logger *zap.Logger) ProcurementRepositoryInterface {
	return &ProcurementRepository{storage: storage, logger: logger}
}

func scanProcurement(row pgx.Row) (*entities.Procurement, error) {
	var p entities.Procurement
	err := row.Scan(
		&p.ID, &p.ProposalID, &p.PricingNumber, &p.IsQuoted, &p.IsContracted, &p.CompanyName,
		&p.GrossAmount, &p.HasInvoice, &p.BranchID, &p.UserID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, scanErr("procurement", err)
	}
	return &p, nil
}

func (r *ProcurementRepository) Create(ctx context.Context, tx pgx.Tx, procurement *entities.Procurement) error {
	query, args, err := psql.Insert(procurementTable).
		Columns("proposal_id", "pricing_number", "is_quoted", "is_contracted", "company_name", "gross_amount",
			"has_invoice", "branch_id", "user_id").
		Values(procurement.ProposalID, procurement.PricingNumber, procurement.IsQuoted, procurement.IsContracted,
			procurement.CompanyName, procurement.GrossAmount, procurement.HasInvoice, procurement.BranchID, procurement.UserID).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("сборка INSERT procurement: %w", err)
	}
	if err := pick(r.storage, tx).QueryRow(ctx, query, args...).Scan(&procurement.ID, &procurement.CreatedAt); err != nil {
		return fmt.Errorf("INSERT procurement: %w", err)
	}
	return nil
}

func (r *ProcurementRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64, forUpdate bool) (*entities.Procurement, error) {
	query, args, err := psql.Select(procurementColumns...).
		From(procurementTable + " AS pr").
		Where("pr.id = ?", id).
		Suffix(lockClause(forUpdate)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("сборка SELECT procurement: %w", err)
	}
	return scanProcurement(pick(r.storage, tx).QueryRow(ctx, strings.TrimSpace(query), args...))
}

func (r *ProcurementRepository) GetAll(ctx context.Context, filter types.Filter) ([]entities.Procurement, uint64, error) {
	return selectList(ctx, r.storage, listQuery{
		table:    procurementTable + " AS pr",
		countCol: "pr.id",
		columns:  procurementColumns,
		allowed:  procurementMap,
		search:   []string{"pr.pricing_number", "pr.company_name"},
	}, filter, scanProcurement)
}

// MarkInvoiced выставляет has_invoice. Вызывается в той же транзакции, что и создание счёта.
func (r *ProcurementRepository) MarkInvoiced(ctx context.Context, tx pgx.Tx, id uint64) error {
	tag, err := pick(r.storage, tx).Exec(ctx,
		"UPDATE procurements SET has_invoice = TRUE, updated_at = $1 WHERE id = $2",
		time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("UPDATE procurement has_invoice: %w", err)
	}
	return expectOne("procurement", tag.RowsAffected())
}

func (r *ProcurementRepository) Count(ctx context.Context) (int64, error) {
	return countAll(ctx, r.storage, procurementTable)
}
