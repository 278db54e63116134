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

const assetTable = "assets"

var assetMap = map[string]string{
	"id":             "a.id",
	"invoice_id":     "a.invoice_id",
	"form_m7_number": "a.form_m7_number",
	"branch_id":      "a.branch_id",
	"user_id":        "a.user_id",
	"created_at":     "a.created_at",
}

var assetColumns = []string{
	"a.id", "a.invoice_id", "a.form_m7_number", "a.report_scan", "a.branch_id", "a.user_id", "a.created_at",
}

type AssetRepositoryInterface interface {
	Create(ctx context.Context, tx pgx.Tx, asset *entities.Asset) error
	GetAll(ctx context.Context, filter types.Filter) ([]entities.Asset, uint64, error)
	Count(ctx context.Context) (int64, error)
}

type AssetRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewAssetRepository(storage *pgxpool.Pool, logger *zap.Logger) AssetRepositoryInterface {
	return &AssetRepository{storage: storage, logger: logger}
}

func scanAsset(row pgx.Row) (*entities.Asset, error) {
	var a entities.Asset
	err := row.Scan(&a.ID, &a.InvoiceID, &a.FormM7Number, &a.ReportScan, &a.BranchID, &a.UserID, &a.CreatedAt)
	if err != nil {
		return nil, scanErr("asset", err)
	}
	return &a, nil
}

func (r *AssetRepository) Create(ctx context.Context, tx pgx.Tx, asset *entities.Asset) error {
	query, args, err := psql.Insert(assetTable).
		Columns("invoice_id", "form_m7_number", "report_scan", "branch_id", "user_id").
		Values(asset.InvoiceID, asset.FormM7Number, asset.ReportScan, asset.BranchID, asset.UserID).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("сборка INSERT asset: %w", err)
	}
	if err := pick(r.storage, tx).QueryRow(ctx, query, args...).Scan(&asset.ID, &asset.CreatedAt); err != nil {
		return fmt.Errorf("INSERT asset: %w", err)
	}
	return nil
}

func (r *AssetRepository) GetAll(ctx context.Context, filter types.Filter) ([]entities.Asset, uint64, error) {
	return selectList(ctx, r.storage, listQuery{
		table:    assetTable + " AS a",
		countCol: "a.id",
		columns:  assetColumns,
		allowed:  assetMap,
		search:   []string{"a.form_m7_number"},
	}, filter, scanAsset)
}

func (r *AssetRepository) Count(ctx context.Context) (int64, error) {
	return countAll(ctx, r.storage, assetTable)
}
