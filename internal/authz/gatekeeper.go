package authz

import (
	"office-docflow/internal/entities"
)

var common = []string{DashboardView, BranchesView}

// branchActions - матрица "подразделение -> разрешённые действия".
var branchActions = map[entities.Branch][]string{
	entities.BranchAdmin: {
		LettersCreate, LettersView, InquiriesCreate, InquiriesView,
		ProposalsCreate, ProposalsView, ProposalsInbox, ReportsExport,
	},
	entities.BranchProcurement: {
		ProposalsView, ProposalsInbox, ProcurementsCreate, ProcurementsView, ReportsExport,
	},
	entities.BranchInvoice: {
		ProcurementsView, InvoicesCreate, InvoicesView, ProposalsInbox,
	},
	entities.BranchControl: {
		InvoicesView, ControlsCreate, ControlsView, ProposalsInbox,
	},
	entities.BranchAssets: {
		InvoicesView, ControlsView, AssetsCreate, AssetsView, ProposalsInbox, ReportsExport,
	},
	// Транспорт и финансы пока видят только входящие предложения.
	entities.BranchTransport: {ProposalsInbox},
	entities.BranchFinance:   {ProposalsInbox},
}

var matrix = buildMatrix()

func buildMatrix() map[entities.Branch]map[string]bool {
	m := make(map[entities.Branch]map[string]bool, len(branchActions))
	for branch, actions := range branchActions {
		set := make(map[string]bool, len(actions)+len(common))
		for _, a := range common {
			set[a] = true
		}
		for _, a := range actions {
			set[a] = true
		}
		m[branch] = set
	}
	return m
}

// Can - может ли подразделение выполнить действие. super_admin может всё.
func Can(branch entities.Branch, action string) bool {
	if branch == entities.BranchSuperAdmin {
		return true
	}
	return matrix[branch][action]
}

// Actions возвращает разрешённые действия подразделения (для фронтенда: какие панели показывать).
func Actions(branch entities.Branch) []string {
	if branch == entities.BranchSuperAdmin {
		out := append([]string{}, common...)
		seen := map[string]bool{DashboardView: true, BranchesView: true}
		for _, b := range entities.AllBranches {
			for _, a := range branchActions[b] {
				if !seen[a] {
					seen[a] = true
					out = append(out, a)
				}
			}
		}
		return out
	}
	out := append([]string{}, common...)
	return append(out, branchActions[branch]...)
}
