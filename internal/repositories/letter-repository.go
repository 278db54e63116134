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

const letterTable = "letters"

var letterMap = map[string]string{
	"id":         "l.id",
	"number":     "l.number",
	"issue_date": "l.issue_date",
	"sender":     "l.sender",
	"recipient":  "l.recipient",
	"branch_id":  "l.branch_id",
	"user_id":    "l.user_id",
	"created_at": "l.created_at",
}

var letterColumns = []string{
	"l.id", "l.number", "l.issue_date", "l.sender", "l.recipient", "l.subject", "l.actions",
	"l.branch_id", "l.user_id", "l.created_at",
}

type LetterRepositoryInterface interface {
	Create(ctx context.Context, tx pgx.Tx, letter *entities.Letter) error
	GetAll(ctx context.Context, filter types.Filter) ([]entities.Letter, uint64, error)
	Count(ctx context.Context) (int64, error)
}

type LetterRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewLetterRepository(storage *pgxpool.Pool, logger *zap.Logger) LetterRepositoryInterface {
	return &LetterRepository{storage: storage, logger: logger}
}

func scanLetter(row pgx.Row) (*entities.Letter, error) {
	var l entities.Letter
	err := row.Scan(
		&l.ID, &l.Number, &l.IssueDate, &l.Sender, &l.Recipient, &l.Subject, &l.Actions,
		&l.BranchID, &l.UserID, &l.CreatedAt,
	)
	if err != nil {
		return nil, scanErr("letter", err)
	}
	return &l, nil
}

func (r *LetterRepository) Create(ctx context.Context, tx pgx.Tx, letter *entities.Letter) error {
	query, args, err := psql.Insert(letterTable).
		Columns("number", "issue_date", "sender", "recipient", "subject", "actions", "branch_id", "user_id").
		Values(letter.Number, letter.IssueDate, letter.Sender, letter.Recipient, letter.Subject, letter.Actions, letter.BranchID, letter.UserID).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("сборка INSERT letter: %w", err)
	}
	if err := pick(r.storage, tx).QueryRow(ctx, query, args...).Scan(&letter.ID, &letter.CreatedAt); err != nil {
		return fmt.Errorf("INSERT letter: %w", err)
	}
	return nil
}

func (r *LetterRepository) GetAll(ctx context.Context, filter types.Filter) ([]entities.Letter, uint64, error) {
	return selectList(ctx, r.storage, listQuery{
		table:    letterTable + " AS l",
		countCol: "l.id",
		columns:  letterColumns,
		allowed:  letterMap,
		search:   []string{"l.number", "l.subject", "l.sender", "l.recipient"},
	}, filter, scanLetter)
}

func (r *LetterRepository) Count(ctx context.Context) (int64, error) {
	return countAll(ctx, r.storage, letterTable)
}
