package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	bd "office-docflow/internal/infrastructure/bd"
	apperrors "office-docflow/pkg/errors"
	"office-docflow/pkg/types"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// pick возвращает транзакцию, если она есть, иначе пул.
func pick(pool *pgxpool.Pool, tx pgx.Tx) querier {
	if tx != nil {
		return tx
	}
	return pool
}

type listQuery struct {
	table    string // "proposals AS p"
	countCol string // "p.id"
	columns  []string
	allowed  map[string]string
	search   []string // колонки для ?search=
}

// selectList выполняет COUNT и SELECT с одним и тем же WHERE.
func selectList[T any](ctx context.Context, q querier, lq listQuery, filter types.Filter, scan func(pgx.Row) (*T, error)) ([]T, uint64, error) {
	countBuilder := bd.ApplyFilters(psql.Select("COUNT("+lq.countCol+")").From(lq.table), filter, lq.allowed)
	countBuilder = bd.ApplySearch(countBuilder, filter.Search, lq.search)
	countSQL, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("сборка COUNT для %s: %w", lq.table, err)
	}
	var total uint64
	if err := q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("COUNT для %s: %w", lq.table, err)
	}
	if total == 0 {
		return []T{}, 0, nil
	}

	listBuilder := bd.ApplySearch(psql.Select(lq.columns...).From(lq.table), filter.Search, lq.search)
	listBuilder = bd.ApplyListParams(listBuilder, filter, lq.allowed)
	listSQL, listArgs, err := listBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("сборка SELECT для %s: %w", lq.table, err)
	}

	rows, err := q.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("SELECT для %s: %w", lq.table, err)
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("чтение строк %s: %w", lq.table, err)
	}
	return out, total, nil
}

func countAll(ctx context.Context, q querier, table string) (int64, error) {
	var n int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("COUNT(*) %s: %w", table, err)
	}
	return n, nil
}

// scanErr - pgx.ErrNoRows превращается в apperrors.ErrNotFound.
func scanErr(entity string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	return fmt.Errorf("ошибка сканирования %s: %w", entity, err)
}

// expectOne - UPDATE должен затронуть ровно одну строку.
func expectOne(entity string, affected int64) error {
	if affected == 0 {
		return apperrors.ErrNotFound
	}
	if affected > 1 {
		return fmt.Errorf("%s: обновлено %d строк вместо одной", entity, affected)
	}
	return nil
}

func lockClause(forUpdate bool) string {
	if forUpdate {
		return "FOR UPDATE"
	}
	return ""
}
