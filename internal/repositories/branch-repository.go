package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"office-docflow/internal/entities"
)

// BranchRepositoryInterface - справочник подразделений, только для отображения.
type BranchRepositoryInterface interface {
	GetAll(ctx context.Context) ([]entities.BranchInfo, error)
	Upsert(ctx context.Context, tx pgx.Tx, branch entities.BranchInfo) error
}

type BranchRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewBranchRepository(storage *pgxpool.Pool, logger *zap.Logger) BranchRepositoryInterface {
	return &BranchRepository{storage: storage, logger: logger}
}

func (r *BranchRepository) GetAll(ctx context.Context) ([]entities.BranchInfo, error) {
	rows, err := r.storage.Query(ctx, "SELECT code, name, created_at FROM branches ORDER BY code")
	if err != nil {
		return nil, fmt.Errorf("SELECT branches: %w", err)
	}
	defer rows.Close()

	out := make([]entities.BranchInfo, 0, len(entities.AllBranches))
	for rows.Next() {
		var b entities.BranchInfo
		var code string
		if err := rows.Scan(&code, &b.Name, &b.CreatedAt); err != nil {
			return nil, scanErr("branch", err)
		}
		b.Code = entities.Branch(code)
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *BranchRepository) Upsert(ctx context.Context, tx pgx.Tx, branch entities.BranchInfo) error {
	_, err := pick(r.storage, tx).Exec(ctx,
		`INSERT INTO branches (code, name) VALUES ($1, $2)
		 ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name`,
		string(branch.Code), branch.Name,
	)
	if err != nil {
		return fmt.Errorf("UPSERT branch %s: %w", branch.Code, err)
	}
	return nil
}
