package repositories

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"office-docflow/internal/entities"
	"office-docflow/migrations"
	"office-docflow/pkg/database/postgresql"
	apperrors "office-docflow/pkg/errors"
	"office-docflow/pkg/types"
)

// Интеграционные тесты идут только при заданном TEST_DATABASE_URL (отдельная пустая БД).
var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		os.Exit(m.Run())
	}

	ctx := context.Background()
	pool, err := postgresql.ConnectDB(ctx, dsn, zap.NewNop())
	if err != nil {
		fmt.Fprintln(os.Stderr, "подключение к тестовой БД:", err)
		os.Exit(1)
	}
	if err := postgresql.Migrate(ctx, pool, migrations.FS); err != nil {
		fmt.Fprintln(os.Stderr, "миграции:", err)
		os.Exit(1)
	}
	testPool = pool
	code := m.Run()
	pool.Close()
	os.Exit(code)
}

func requireDB(t *testing.T) *Registry {
	t.Helper()
	if testPool == nil {
		t.Skip("TEST_DATABASE_URL не задан")
	}
	_, err := testPool.Exec(context.Background(),
		`TRUNCATE letters, inquiries, assets, controls, invoices, procurements, proposals RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return NewPostgresRegistry(testPool, zap.NewNop())
}

func provenanceOf(branch entities.Branch) types.Provenance {
	return types.Provenance{BranchID: branch.String(), UserID: "it-" + branch.String()}
}

func TestPostgres_ProposalRoundTrip(t *testing.T) {
	repos := requireDB(t)
	ctx := context.Background()

	orderNo := "ORD-5"
	p := &entities.Proposal{
		Number:           "P-1",
		Date:             time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		OrderNumber:      &orderNo,
		Subject:          "Мебель",
		EstimatedPrice:   1234.5,
		RequestingBranch: "admin",
		TargetBranch:     entities.BranchProcurement,
		Status:           entities.ProposalSubmitted,
		Provenance:       provenanceOf(entities.BranchAdmin),
	}
	require.NoError(t, repos.Proposals.Create(ctx, nil, p))
	require.NotZero(t, p.ID)
	assert.False(t, p.CreatedAt.IsZero())

	got, err := repos.Proposals.FindByID(ctx, nil, p.ID, false)
	require.NoError(t, err)
	assert.Equal(t, p.Number, got.Number)
	assert.Equal(t, "ORD-5", *got.OrderNumber)
	assert.Nil(t, got.OrderDate)
	assert.InDelta(t, 1234.5, got.EstimatedPrice, 0.001)
	assert.Equal(t, "admin", got.BranchID)

	_, err = repos.Proposals.FindByID(ctx, nil, p.ID+100, false)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestPostgres_FilterAndCount(t *testing.T) {
	repos := requireDB(t)
	ctx := context.Background()

	for i, target := range []entities.Branch{entities.BranchProcurement, entities.BranchFinance, entities.BranchProcurement} {
		require.NoError(t, repos.Proposals.Create(ctx, nil, &entities.Proposal{
			Number: fmt.Sprintf("P-%d", i), Date: time.Now().UTC(), Subject: "s", RequestingBranch: "admin",
			TargetBranch: target, Status: entities.ProposalSubmitted, Provenance: provenanceOf(entities.BranchAdmin),
		}))
	}

	list, total, err := repos.Proposals.GetAll(ctx, types.NewestFirst(map[string]interface{}{"target_branch": "procurement"}))
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, list, 2)
	assert.Greater(t, list[0].ID, list[1].ID)

	n, err := repos.Proposals.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestPostgres_Search(t *testing.T) {
	repos := requireDB(t)
	ctx := context.Background()

	for i, subject := range []string{"Office paper A4", "Toner", "PAPER for plotter"} {
		require.NoError(t, repos.Letters.Create(ctx, nil, &entities.Letter{
			Number: fmt.Sprintf("L-%d", i), IssueDate: time.Now().UTC(), Sender: "a", Recipient: "b",
			Subject: subject, Provenance: provenanceOf(entities.BranchAdmin),
		}))
	}

	filter := types.NewestFirst(nil)
	filter.Search = "paper"
	list, total, err := repos.Letters.GetAll(ctx, filter)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, list, 2)

	filter.Search = "%"
	_, total, err = repos.Letters.GetAll(ctx, filter)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestPostgres_TransactionRollsBack(t *testing.T) {
	repos := requireDB(t)
	ctx := context.Background()

	p := &entities.Proposal{
		Number: "P-1", Date: time.Now().UTC(), Subject: "s", RequestingBranch: "admin",
		TargetBranch: entities.BranchProcurement, Status: entities.ProposalSubmitted, Provenance: provenanceOf(entities.BranchAdmin),
	}
	require.NoError(t, repos.Proposals.Create(ctx, nil, p))

	boom := errors.New("boom")
	err := repos.Tx.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := repos.Proposals.FindByID(ctx, tx, p.ID, true); err != nil {
			return err
		}
		pr := &entities.Procurement{ProposalID: p.ID, PricingNumber: "PR", CompanyName: "c", IsContracted: true, Provenance: provenanceOf(entities.BranchProcurement)}
		if err := repos.Procurements.Create(ctx, tx, pr); err != nil {
			return err
		}
		if err := repos.Proposals.UpdateStatus(ctx, tx, p.ID, entities.ProposalProcured); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	n, err := repos.Procurements.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	got, err := repos.Proposals.FindByID(ctx, nil, p.ID, false)
	require.NoError(t, err)
	assert.Equal(t, entities.ProposalSubmitted, got.Status)
}

func TestPostgres_InvoiceFlags(t *testing.T) {
	repos := requireDB(t)
	ctx := context.Background()

	p := &entities.Proposal{
		Number: "P-1", Date: time.Now().UTC(), Subject: "s", RequestingBranch: "admin",
		TargetBranch: entities.BranchProcurement, Status: entities.ProposalSubmitted, Provenance: provenanceOf(entities.BranchAdmin),
	}
	require.NoError(t, repos.Proposals.Create(ctx, nil, p))
	pr := &entities.Procurement{ProposalID: p.ID, PricingNumber: "PR", CompanyName: "c", IsContracted: true, Provenance: provenanceOf(entities.BranchProcurement)}
	require.NoError(t, repos.Procurements.Create(ctx, nil, pr))
	require.NoError(t, repos.Procurements.MarkInvoiced(ctx, nil, pr.ID))

	inv := &entities.Invoice{ProcurementID: pr.ID, Area: "a", RegistrationNumber: "r", Provenance: provenanceOf(entities.BranchInvoice)}
	require.NoError(t, repos.Invoices.Create(ctx, nil, inv))
	assert.Equal(t, entities.ControlPending, inv.ControlStatus)

	require.NoError(t, repos.Invoices.UpdateControlStatus(ctx, nil, inv.ID, entities.ControlControlled))
	require.NoError(t, repos.Invoices.MarkAssetIssued(ctx, nil, inv.ID))

	got, err := repos.Invoices.FindByID(ctx, nil, inv.ID, false)
	require.NoError(t, err)
	assert.Equal(t, entities.ControlControlled, got.ControlStatus)
	assert.True(t, got.AssetIssued)

	list, _, err := repos.Procurements.GetAll(ctx, types.NewestFirst(map[string]interface{}{"is_contracted": true, "has_invoice": false}))
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestPostgres_BranchUpsert(t *testing.T) {
	repos := requireDB(t)
	ctx := context.Background()

	require.NoError(t, repos.Branches.Upsert(ctx, nil, entities.BranchInfo{Code: entities.BranchFinance, Name: "old"}))
	require.NoError(t, repos.Branches.Upsert(ctx, nil, entities.BranchInfo{Code: entities.BranchFinance, Name: "new"}))

	list, err := repos.Branches.GetAll(ctx)
	require.NoError(t, err)
	for _, b := range list {
		if b.Code == entities.BranchFinance {
			assert.Equal(t, "new", b.Name)
			return
		}
	}
	t.Fatal("finance не найден")
}
