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

const proposalTable = "proposals"

var proposalMap = map[string]string{
	"id":                "p.id",
	"number":            "p.number",
	"date":              "p.date",
	"order_number":      "p.order_number",
	"requesting_branch": "p.requesting_branch",
	"target_branch":     "p.target_branch",
	"status":            "p.status",
	"branch_id":         "p.branch_id",
	"user_id":           "p.user_id",
	"created_at":        "p.created_at",
}

var proposalColumns = []string{
	"p.id", "p.number", "p.date", "p.order_number", "p.order_date", "p.subject", "p.estimated_price",
	"p.requesting_branch", "p.target_branch", "p.status", "p.branch_id", "p.user_id", "p.created_at", "p.updated_at",
}

type ProposalRepositoryInterface interface {
	Create(ctx context.Context, tx pgx.Tx, proposal *entities.Proposal) error
	FindByID(ctx context.Context, tx pgx.Tx, id uint64, forUpdate bool) (*entities.Proposal, error)
	GetAll(ctx context.Context, filter types.Filter) ([]entities.Proposal, uint64, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uint64, status entities.ProposalStatus) error
	Count(ctx context.Context) (int64, error)
}

type ProposalRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewProposalRepository(storage *pgxpool.Pool, logger *zap.Logger) ProposalRepositoryInterface {
	return &ProposalRepository{storage: storage, logger: logger}
}

func scanProposal(row pgx.Row) (*entities.Proposal, error) {
	var p entities.Proposal
	var target, status string
	err := row.Scan(
		&p.ID, &p.Number, &p.Date, &p.OrderNumber, &p.OrderDate, &p.Subject, &p.EstimatedPrice,
		&p.RequestingBranch, &target, &status, &p.BranchID, &p.UserID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, scanErr("proposal", err)
	}
	p.TargetBranch = entities.Branch(target)
	p.Status = entities.ProposalStatus(status)
	return &p, nil
}

func (r *ProposalRepository) Create(ctx context.Context, tx pgx.Tx, proposal *entities.Proposal) error {
	if proposal.Status == "" {
		proposal.Status = entities.ProposalSubmitted
	}
	query, args, err := psql.Insert(proposalTable).
		Columns("number", "date", "order_number", "order_date", "subject", "estimated_price",
			"requesting_branch", "target_branch", "status", "branch_id", "user_id").
		Values(proposal.Number, proposal.Date, proposal.OrderNumber, proposal.OrderDate, proposal.Subject, proposal.EstimatedPrice,
			proposal.RequestingBranch, string(proposal.TargetBranch), string(proposal.Status), proposal.BranchID, proposal.UserID).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("сборка INSERT proposal: %w", err)
	}
	if err := pick(r.storage, tx).QueryRow(ctx, query, args...).Scan(&proposal.ID, &proposal.CreatedAt); err != nil {
		return fmt.Errorf("INSERT proposal: %w", err)
	}
	return nil
}

// FindByID с forUpdate=true блокирует строку до конца транзакции.
func (r *ProposalRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64, forUpdate bool) (*entities.Proposal, error) {
	query, args, err := psql.Select(proposalColumns...).
		From(proposalTable + " AS p").
		Where("p.id = ?", id).
		Suffix(lockClause(forUpdate)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("сборка SELECT proposal: %w", err)
	}
	return scanProposal(pick(r.storage, tx).QueryRow(ctx, strings.TrimSpace(query), args...))
}

func (r *ProposalRepository) GetAll(ctx context.Context, filter types.Filter) ([]entities.Proposal, uint64, error) {
	return selectList(ctx, r.storage, listQuery{
		table:    proposalTable + " AS p",
		countCol: "p.id",
		columns:  proposalColumns,
		allowed:  proposalMap,
		search:   []string{"p.number", "p.subject", "p.order_number"},
	}, filter, scanProposal)
}

func (r *ProposalRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, id uint64, status entities.ProposalStatus) error {
	tag, err := pick(r.storage, tx).Exec(ctx,
		"UPDATE proposals SET status = $1, updated_at = $2 WHERE id = $3",
		string(status), time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("UPDATE proposal status: %w", err)
	}
	return expectOne("proposal", tag.RowsAffected())
}

func (r *ProposalRepository) Count(ctx context.Context) (int64, error) {
	return countAll(ctx, r.storage, proposalTable)
}
