package services

import (
	"context"
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"office-docflow/internal/dto"
	"office-docflow/internal/repositories"
	"office-docflow/internal/repositories/memstore"
	apperrors "office-docflow/pkg/errors"
	"office-docflow/pkg/types"
	"office-docflow/pkg/validation"
)

func seedChain(t *testing.T, repos *repositories.Registry) {
	t.Helper()
	ctx := context.Background()
	svc := NewLifecycleService(repos, testWorkflow(), validation.New(), nil, zap.NewNop())

	p, err := svc.SubmitProposal(ctx, admin, validProposal("procurement"))
	require.NoError(t, err)
	_, err = svc.SubmitProposal(ctx, admin, validProposal("finance"))
	require.NoError(t, err)
	pr, err := svc.CreateProcurement(ctx, procurement, p.ID, validProcurement(true))
	require.NoError(t, err)
	inv, err := svc.IssueInvoice(ctx, invoicing, pr.ID, validInvoice())
	require.NoError(t, err)
	_, err = svc.DecideControl(ctx, control, inv.ID, dto.ControlDecisionDTO{Status: "rejected", RejectionReason: null.StringFrom("Нет подписи")})
	require.NoError(t, err)
}

func TestRegisterService_ListFiltersAndPaginates(t *testing.T) {
	ctx := context.Background()
	repos := memstore.New().Registry()
	seedChain(t, repos)
	svc := NewRegisterService(repos, zap.NewNop())

	filter := types.NewestFirst(map[string]interface{}{"target_branch": "finance"})
	list, total, err := svc.ListProposals(ctx, admin, filter)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, "finance", list[0].TargetBranch.String())

	paged := types.NewestFirst(nil)
	paged.WithPagination = true
	paged.Limit = 1
	list, total, err = svc.ListProposals(ctx, admin, paged)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total, "total считается до пагинации")
	assert.Len(t, list, 1)
}

func TestRegisterService_ViewPermissions(t *testing.T) {
	ctx := context.Background()
	repos := memstore.New().Registry()
	svc := NewRegisterService(repos, zap.NewNop())

	_, _, err := svc.ListLetters(ctx, finance, types.NewestFirst(nil))
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, _, err = svc.ListControls(ctx, assets, types.NewestFirst(nil))
	assert.NoError(t, err)

	_, _, err = svc.ListAssets(ctx, superAdmin, types.NewestFirst(nil))
	assert.NoError(t, err)
}

func TestRegisterService_Export(t *testing.T) {
	ctx := context.Background()
	repos := memstore.New().Registry()
	seedChain(t, repos)
	svc := NewRegisterService(repos, zap.NewNop())

	table, err := svc.Export(ctx, admin, "proposals", types.NewestFirst(nil))
	require.NoError(t, err)
	assert.Equal(t, "proposals", table.Collection)
	require.Len(t, table.Rows, 2)
	for _, row := range table.Rows {
		assert.Len(t, row, len(table.Headers))
	}

	controls, err := svc.Export(ctx, superAdmin, "controls", types.NewestFirst(nil))
	require.NoError(t, err)
	require.Len(t, controls.Rows, 1)
	assert.Equal(t, "rejected", controls.Rows[0][2])
	assert.Equal(t, "Нет подписи", controls.Rows[0][3])

	_, err = svc.Export(ctx, superAdmin, "salaries", types.NewestFirst(nil))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = svc.Export(ctx, invoicing, "invoices", types.NewestFirst(nil))
	assert.ErrorIs(t, err, apperrors.ErrForbidden, "счётам нельзя выгружать отчёты")

	// reports:export не открывает чужие реестры.
	_, err = svc.Export(ctx, procurement, "letters", types.NewestFirst(nil))
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}
