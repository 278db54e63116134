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

const inquiryTable = "inquiries"

var inquiryMap = map[string]string{
	"id":          "q.id",
	"number":      "q.number",
	"is_answered": "q.is_answered",
	"branch_id":   "q.branch_id",
	"user_id":     "q.user_id",
	"created_at":  "q.created_at",
}

var inquiryColumns = []string{
	"q.id", "q.number", "q.subject", "q.is_answered", "q.actions",
	"q.branch_id", "q.user_id", "q.created_at",
}

type InquiryRepositoryInterface interface {
	Create(ctx context.Context, tx pgx.Tx, inquiry *entities.Inquiry) error
	GetAll(ctx context.Context, filter types.Filter) ([]entities.Inquiry, uint64, error)
	Count(ctx context.Context) (int64, error)
}

type InquiryRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewInquiryRepository(storage *pgxpool.Pool, logger *zap.Logger) InquiryRepositoryInterface {
	return &InquiryRepository{storage: storage, logger: logger}
}

func scanInquiry(row pgx.Row) (*entities.Inquiry, error) {
	var q entities.Inquiry
	err := row.Scan(&q.ID, &q.Number, &q.Subject, &q.IsAnswered, &q.Actions, &q.BranchID, &q.UserID, &q.CreatedAt)
	if err != nil {
		return nil, scanErr("inquiry", err)
	}
	return &q, nil
}

func (r *InquiryRepository) Create(ctx context.Context, tx pgx.Tx, inquiry *entities.Inquiry) error {
	query, args, err := psql.Insert(inquiryTable).
		Columns("number", "subject", "is_answered", "actions", "branch_id", "user_id").
		Values(inquiry.Number, inquiry.Subject, inquiry.IsAnswered, inquiry.Actions, inquiry.BranchID, inquiry.UserID).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("сборка INSERT inquiry: %w", err)
	}
	if err := pick(r.storage, tx).QueryRow(ctx, query, args...).Scan(&inquiry.ID, &inquiry.CreatedAt); err != nil {
		return fmt.Errorf("INSERT inquiry: %w", err)
	}
	return nil
}

func (r *InquiryRepository) GetAll(ctx context.Context, filter types.Filter) ([]entities.Inquiry, uint64, error) {
	return selectList(ctx, r.storage, listQuery{
		table:    inquiryTable + " AS q",
		countCol: "q.id",
		columns:  inquiryColumns,
		allowed:  inquiryMap,
		search:   []string{"q.number", "q.subject"},
	}, filter, scanInquiry)
}

func (r *InquiryRepository) Count(ctx context.Context) (int64, error) {
	return countAll(ctx, r.storage, inquiryTable)
}
