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

const invoiceTable = "invoices"

var invoiceMap = map[string]string{
	"id":                         "i.id",
	"procurement_id":             "i.procurement_id",
	"area":                       "i.area",
	"registration_number":        "i.registration_number",
	"is_area_approved":           "i.is_area_approved",
	"is_referred_to_procurement": "i.is_referred_to_procurement",
	"control_status":             "i.control_status",
	"asset_issued":               "i.asset_issued",
	"branch_id":                  "i.branch_id",
	"user_id":                    "i.user_id",
	"created_at":                 "i.created_at",
}

var invoiceColumns = []string{
	"i.id", "i.procurement_id", "i.area", "i.registration_number", "i.is_area_approved", "i.is_referred_to_procurement",
	"i.control_status", "i.asset_issued", "i.branch_id", "i.user_id", "i.created_at", "i.updated_at",
}

type InvoiceRepositoryInterface interface {
	Create(ctx context.Context, tx pgx.Tx, invoice *entities.Invoice) error
	FindByID(ctx context.Context, tx pgx.Tx, id uint64, forUpdate bool) (*entities.Invoice, error)
	GetAll(ctx context.Context, filter types.Filter) ([]entities.Invoice, uint64, error)
	UpdateControlStatus(ctx context.Context, tx pgx.Tx, id uint64, status entities.ControlStatus) error
	MarkAssetIssued(ctx context.Context, tx pgx.Tx, id uint64) error
	Count(ctx context.Context) (int64, error)
}

type InvoiceRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewInvoiceRepository(storage *pgxpool.Pool, logger *zap.Logger) InvoiceRepositoryInterface {
	return &InvoiceRepository{storage: storage, logger: logger}
}

func scanInvoice(row pgx.Row) (*entities.Invoice, error) {
	var i entities.Invoice
	var status string
	err := row.Scan(
		&i.ID, &i.ProcurementID, &i.Area, &i.RegistrationNumber, &i.IsAreaApproved, &i.IsReferredToProcurement,
		&status, &i.AssetIssued, &i.BranchID, &i.UserID, &i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		return nil, scanErr("invoice", err)
	}
	i.ControlStatus = entities.ControlStatus(status)
	return &i, nil
}

func (r *InvoiceRepository) Create(ctx context.Context, tx pgx.Tx, invoice *entities.Invoice) error {
	if invoice.ControlStatus == "" {
		invoice.ControlStatus = entities.ControlPending
	}
	query, args, err := psql.Insert(invoiceTable).
		Columns("procurement_id", "area", "registration_number", "is_area_approved", "is_referred_to_procurement",
			"control_status", "asset_issued", "branch_id", "user_id").
		Values(invoice.ProcurementID, invoice.Area, invoice.RegistrationNumber, invoice.IsAreaApproved, invoice.IsReferredToProcurement,
			string(invoice.ControlStatus), invoice.AssetIssued, invoice.BranchID, invoice.UserID).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("сборка INSERT invoice: %w", err)
	}
	if err := pick(r.storage, tx).QueryRow(ctx, query, args...).Scan(&invoice.ID, &invoice.CreatedAt); err != nil {
		return fmt.Errorf("INSERT invoice: %w", err)
	}
	return nil
}

func (r *InvoiceRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64, forUpdate bool) (*entities.Invoice, error) {
	query, args, err := psql.Select(invoiceColumns...).
		From(invoiceTable + " AS i").
		Where("i.id = ?", id).
		Suffix(lockClause(forUpdate)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("сборка SELECT invoice: %w", err)
	}
	return scanInvoice(pick(r.storage, tx).QueryRow(ctx, strings.TrimSpace(query), args...))
}

func (r *InvoiceRepository) GetAll(ctx context.Context, filter types.Filter) ([]entities.Invoice, uint64, error) {
	return selectList(ctx, r.storage, listQuery{
		table:    invoiceTable + " AS i",
		countCol: "i.id",
		columns:  invoiceColumns,
		allowed:  invoiceMap,
		search:   []string{"i.registration_number", "i.area"},
	}, filter, scanInvoice)
}

func (r *InvoiceRepository) UpdateControlStatus(ctx context.Context, tx pgx.Tx, id uint64, status entities.ControlStatus) error {
	tag, err := pick(r.storage, tx).Exec(ctx,
		"UPDATE invoices SET control_status = $1, updated_at = $2 WHERE id = $3",
		string(status), time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("UPDATE invoice control_status: %w", err)
	}
	return expectOne("invoice", tag.RowsAffected())
}

func (r *InvoiceRepository) MarkAssetIssued(ctx context.Context, tx pgx.Tx, id uint64) error {
	tag, err := pick(r.storage, tx).Exec(ctx,
		"UPDATE invoices SET asset_issued = TRUE, updated_at = $1 WHERE id = $2",
		time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("UPDATE invoice asset_issued: %w", err)
	}
	return expectOne("invoice", tag.RowsAffected())
}

func (r *InvoiceRepository) Count(ctx context.Context) (int64, error) {
	return countAll(ctx, r.storage, invoiceTable)
}
