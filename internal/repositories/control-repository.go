package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"office-docflow/internal/entities"
	"office-docflow/pkg/types"
)

const controlTable = "controls"

var controlMap = map[string]string{
	"id":         "c.id",
	"invoice_id": "c.invoice_id",
	"status":     "c.status",
	"branch_id":  "c.branch_id",
	"user_id":    "c.user_id",
	"created_at": "c.created_at",
}

var controlColumns = []string{
	"c.id", "c.invoice_id", "c.status", "c.rejection_reason", "c.branch_id", "c.user_id", "c.created_at",
}

// ControlRepositoryInterface - журнал решений. Записи только добавляются.
type ControlRepositoryInterface interface {
	Create(ctx context.Context, tx pgx.Tx, control *entities.Control) error
	GetAll(ctx context.Context, filter types.Filter) ([]entities.Control, uint64, error)
	Count(ctx context.Context) (int64, error)
}

type ControlRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewControlRepository(storage *pgxpool.Pool, logger *zap.Logger) ControlRepositoryInterface {
	return &ControlRepository{storage: storage, logger: logger}
}

func scanControl(row pgx.Row) (*entities.Control, error) {
	var c entities.Control
	var status string
	err := row.Scan(&c.ID, &c.InvoiceID, &status, &c.RejectionReason, &c.BranchID, &c.UserID, &c.CreatedAt)
	if err != nil {
		return nil, scanErr("control", err)
	}
	c.Status = entities.ControlStatus(status)
	return &c, nil
}

func (r *ControlRepository) Create(ctx context.Context, tx pgx.Tx, control *entities.Control) error {
	query, args, err := psql.Insert(controlTable).
		Columns("invoice_id", "status", "rejection_reason", "branch_id", "user_id").
		Values(control.InvoiceID, string(control.Status), control.RejectionReason, control.BranchID, control.UserID).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("сборка INSERT control: %w", err)
	}
	if err := pick(r.storage, tx).QueryRow(ctx, query, args...).Scan(&control.ID, &control.CreatedAt); err != nil {
		return fmt.Errorf("INSERT control: %w", err)
	}
	return nil
}

func (r *ControlRepository) GetAll(ctx context.Context, filter types.Filter) ([]entities.Control, uint64, error) {
	return selectList(ctx, r.storage, listQuery{
		table:    controlTable + " AS c",
		countCol: "c.id",
		columns:  controlColumns,
		allowed:  controlMap,
		search:   []string{"c.rejection_reason"},
	}, filter, scanControl)
}

func (r *ControlRepository) Count(ctx context.Context) (int64, error) {
	return countAll(ctx, r.storage, controlTable)
}
