package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"office-docflow/internal/entities"
	apperrors "office-docflow/pkg/errors"
)

func TestResolveSession(t *testing.T) {
	t.Run("known branch", func(t *testing.T) {
		s, err := ResolveSession("user-1", "procurement")
		require.NoError(t, err)
		assert.Equal(t, "user-1", s.UserID)
		assert.Equal(t, entities.BranchProcurement, s.Branch)
		assert.False(t, s.IsSuperAdmin())
	})

	t.Run("missing branch fails closed", func(t *testing.T) {
		_, err := ResolveSession("user-1", "")
		assert.ErrorIs(t, err, apperrors.ErrBranchNotAssigned)
	})

	t.Run("unknown branch fails closed", func(t *testing.T) {
		_, err := ResolveSession("user-1", "warehouse")
		assert.ErrorIs(t, err, apperrors.ErrBranchNotAssigned)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := ResolveSession("  ", "admin")
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})
}

func TestCan(t *testing.T) {
	cases := []struct {
		branch entities.Branch
		action string
		want   bool
	}{
		{entities.BranchAdmin, ProposalsCreate, true},
		{entities.BranchAdmin, LettersCreate, true},
		{entities.BranchAdmin, ProcurementsCreate, false},
		{entities.BranchProcurement, ProcurementsCreate, true},
		{entities.BranchProcurement, InvoicesCreate, false},
		{entities.BranchInvoice, InvoicesCreate, true},
		{entities.BranchControl, ControlsCreate, true},
		{entities.BranchControl, AssetsCreate, false},
		{entities.BranchAssets, AssetsCreate, true},
		{entities.BranchFinance, ProposalsInbox, true},
		{entities.BranchFinance, ProposalsCreate, false},
		{entities.BranchTransport, DashboardView, true},
		{entities.BranchSuperAdmin, AssetsCreate, true},
		{entities.Branch(""), DashboardView, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Can(tc.branch, tc.action), "%s -> %s", tc.branch, tc.action)
	}
}

func TestActions_SuperAdminCoversEveryBranch(t *testing.T) {
	all := Actions(entities.BranchSuperAdmin)
	for _, b := range entities.AllBranches {
		for _, a := range Actions(b) {
			assert.Contains(t, all, a)
		}
	}
}
