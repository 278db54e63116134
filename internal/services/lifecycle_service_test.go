package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"office-docflow/internal/dto"
	"office-docflow/internal/entities"
	"office-docflow/internal/events"
	"office-docflow/internal/repositories"
	"office-docflow/internal/repositories/memstore"
	"office-docflow/pkg/config"
	apperrors "office-docflow/pkg/errors"
	"office-docflow/pkg/types"
	"office-docflow/pkg/validation"
)

type LifecycleSuite struct {
	suite.Suite
	ctx      context.Context
	repos    *repositories.Registry
	bus      *recordingBus
	workflow config.WorkflowConfig
	svc      LifecycleServiceInterface
}

func TestLifecycleSuite(t *testing.T) {
	suite.Run(t, new(LifecycleSuite))
}

func (s *LifecycleSuite) SetupTest() {
	s.ctx = context.Background()
	s.repos = memstore.New().Registry()
	s.bus = &recordingBus{}
	s.workflow = config.WorkflowConfig{
		UniqueProcurementPerProposal: false,
		UniqueInvoicePerProcurement:  true,
		UniqueAssetPerInvoice:        true,
		ControlPolicy:                config.ControlPolicyAnyControlled,
	}
	s.rebuild()
}

func (s *LifecycleSuite) rebuild() {
	s.svc = NewLifecycleService(s.repos, s.workflow, validation.New(), s.bus, zap.NewNop())
}

func (s *LifecycleSuite) assertHTTP(err error, code int, sentinel error) {
	s.Require().Error(err)
	var httpErr *apperrors.HttpError
	s.Require().True(errors.As(err, &httpErr), "ожидалась HttpError, получено %v", err)
	s.Equal(code, httpErr.Code)
	if sentinel != nil {
		s.ErrorIs(err, sentinel)
	}
}

func (s *LifecycleSuite) countAll() map[string]int64 {
	counters := map[string]interface {
		Count(ctx context.Context) (int64, error)
	}{
		"proposals":    s.repos.Proposals,
		"procurements": s.repos.Procurements,
		"invoices":     s.repos.Invoices,
		"controls":     s.repos.Controls,
		"assets":       s.repos.Assets,
	}
	out := make(map[string]int64, len(counters))
	for name, repo := range counters {
		n, err := repo.Count(s.ctx)
		s.Require().NoError(err)
		out[name] = n
	}
	return out
}

// contractedInvoice проводит документ до выставленного счёта.
func (s *LifecycleSuite) contractedInvoice() *entities.Invoice {
	p, err := s.svc.SubmitProposal(s.ctx, admin, validProposal("procurement"))
	s.Require().NoError(err)
	pr, err := s.svc.CreateProcurement(s.ctx, procurement, p.ID, validProcurement(true))
	s.Require().NoError(err)
	inv, err := s.svc.IssueInvoice(s.ctx, invoicing, pr.ID, validInvoice())
	s.Require().NoError(err)
	return inv
}

// --- SubmitProposal ---

func (s *LifecycleSuite) TestSubmitProposal_StampsProvenance() {
	p, err := s.svc.SubmitProposal(s.ctx, admin, validProposal("procurement"))
	s.Require().NoError(err)

	s.Equal("admin", p.BranchID)
	s.Equal(admin.UserID, p.UserID)
	s.Equal(entities.ProposalSubmitted, p.Status)
	s.InDelta(1500.50, p.EstimatedPrice, 0.001)
	s.Equal(1, s.bus.count())
	s.Equal(events.RecordCreated, s.bus.events[0].Name())
}

func (s *LifecycleSuite) TestSubmitProposal_RejectsMissingFieldsBeforeWrite() {
	cases := map[string]func(*dto.CreateProposalDTO){
		"number":            func(d *dto.CreateProposalDTO) { d.Number = "" },
		"blank subject":     func(d *dto.CreateProposalDTO) { d.Subject = "   " },
		"date":              func(d *dto.CreateProposalDTO) { d.Date = "" },
		"bad date":          func(d *dto.CreateProposalDTO) { d.Date = "01/03/2024" },
		"requesting_branch": func(d *dto.CreateProposalDTO) { d.RequestingBranch = "" },
		"target_branch":     func(d *dto.CreateProposalDTO) { d.TargetBranch = "" },
		"price missing":     func(d *dto.CreateProposalDTO) { d.EstimatedPrice = "" },
		"price negative":    func(d *dto.CreateProposalDTO) { d.EstimatedPrice = json.Number("-1") },
		"price NaN":         func(d *dto.CreateProposalDTO) { d.EstimatedPrice = json.Number("NaN") },
		"price overflow":    func(d *dto.CreateProposalDTO) { d.EstimatedPrice = json.Number("1e20") },
		"price at limit":    func(d *dto.CreateProposalDTO) { d.EstimatedPrice = json.Number("9999999999999999.999") },
		"order date":        func(d *dto.CreateProposalDTO) { d.OrderDate = null.StringFrom("вчера") },
	}
	for name, mutate := range cases {
		payload := validProposal("procurement")
		mutate(&payload)
		_, err := s.svc.SubmitProposal(s.ctx, admin, payload)
		s.assertHTTP(err, http.StatusBadRequest, apperrors.ErrValidation)
		s.T().Log(name)
	}
	s.Zero(s.countAll()["proposals"])
	s.Zero(s.bus.count())
}

func (s *LifecycleSuite) TestSubmitProposal_RoundsPriceToKopecks() {
	payload := validProposal("procurement")
	payload.EstimatedPrice = json.Number("10.006")

	p, err := s.svc.SubmitProposal(s.ctx, admin, payload)
	s.Require().NoError(err)
	s.Equal(10.01, p.EstimatedPrice)

	stored, err := s.repos.Proposals.FindByID(s.ctx, nil, p.ID, false)
	s.Require().NoError(err)
	s.Equal(10.01, stored.EstimatedPrice)
}

func (s *LifecycleSuite) TestSubmitProposal_AcceptsNumericStringAndZero() {
	payload := validProposal("finance")
	payload.EstimatedPrice = json.Number("0")
	payload.OrderNumber = null.StringFrom(" ORD-1 ")
	payload.OrderDate = null.StringFrom("2024-02-28")

	p, err := s.svc.SubmitProposal(s.ctx, admin, payload)
	s.Require().NoError(err)
	s.Zero(p.EstimatedPrice)
	s.Require().NotNil(p.OrderNumber)
	s.Equal("ORD-1", *p.OrderNumber)
	s.Require().NotNil(p.OrderDate)
	s.Equal(28, p.OrderDate.Day())
}

func (s *LifecycleSuite) TestSubmitProposal_UnknownTargetAcceptedSilently() {
	p, err := s.svc.SubmitProposal(s.ctx, admin, validProposal("warehouse"))
	s.Require().NoError(err)
	s.Equal(entities.Branch("warehouse"), p.TargetBranch)
}

func (s *LifecycleSuite) TestSubmitProposal_ForbiddenForOtherBranches() {
	_, err := s.svc.SubmitProposal(s.ctx, procurement, validProposal("procurement"))
	s.assertHTTP(err, http.StatusForbidden, apperrors.ErrForbidden)

	_, err = s.svc.SubmitProposal(s.ctx, finance, validProposal("procurement"))
	s.assertHTTP(err, http.StatusForbidden, apperrors.ErrForbidden)

	_, err = s.svc.SubmitProposal(s.ctx, superAdmin, validProposal("procurement"))
	s.NoError(err)
}

// --- CreateProcurement ---

func (s *LifecycleSuite) TestCreateProcurement_MarksProposalProcured() {
	p, err := s.svc.SubmitProposal(s.ctx, admin, validProposal("procurement"))
	s.Require().NoError(err)

	pr, err := s.svc.CreateProcurement(s.ctx, procurement, p.ID, validProcurement(false))
	s.Require().NoError(err)
	s.Equal(p.ID, pr.ProposalID)
	s.Equal("procurement", pr.BranchID)
	s.False(pr.HasInvoice)

	got, err := s.repos.Proposals.FindByID(s.ctx, nil, p.ID, false)
	s.Require().NoError(err)
	s.Equal(entities.ProposalProcured, got.Status)
	// Поля, введённые администрацией, не меняются.
	s.Equal("admin", got.BranchID)
	s.Equal(p.Number, got.Number)
}

func (s *LifecycleSuite) TestCreateProcurement_WrongTargetIsEligibilityViolation() {
	p, err := s.svc.SubmitProposal(s.ctx, admin, validProposal("finance"))
	s.Require().NoError(err)

	_, err = s.svc.CreateProcurement(s.ctx, procurement, p.ID, validProcurement(true))
	s.assertHTTP(err, http.StatusConflict, apperrors.ErrNotEligible)
	s.Zero(s.countAll()["procurements"])
}

func (s *LifecycleSuite) TestCreateProcurement_MissingProposal() {
	_, err := s.svc.CreateProcurement(s.ctx, procurement, 404, validProcurement(true))
	s.assertHTTP(err, http.StatusNotFound, apperrors.ErrNotFound)
}

func (s *LifecycleSuite) TestCreateProcurement_UniquenessIsConfigurable() {
	p, err := s.svc.SubmitProposal(s.ctx, admin, validProposal("procurement"))
	s.Require().NoError(err)

	_, err = s.svc.CreateProcurement(s.ctx, procurement, p.ID, validProcurement(true))
	s.Require().NoError(err)
	_, err = s.svc.CreateProcurement(s.ctx, procurement, p.ID, validProcurement(true))
	s.Require().NoError(err, "по умолчанию повторная закупка разрешена")

	s.workflow.UniqueProcurementPerProposal = true
	s.rebuild()
	_, err = s.svc.CreateProcurement(s.ctx, procurement, p.ID, validProcurement(true))
	s.assertHTTP(err, http.StatusConflict, apperrors.ErrAlreadyProcessed)
	s.Equal(int64(2), s.countAll()["procurements"])
}

// --- IssueInvoice ---

func (s *LifecycleSuite) TestIssueInvoice_RejectsUncontractedProcurement() {
	p, err := s.svc.SubmitProposal(s.ctx, admin, validProposal("procurement"))
	s.Require().NoError(err)
	pr, err := s.svc.CreateProcurement(s.ctx, procurement, p.ID, validProcurement(false))
	s.Require().NoError(err)

	_, err = s.svc.IssueInvoice(s.ctx, invoicing, pr.ID, validInvoice())
	s.assertHTTP(err, http.StatusConflict, apperrors.ErrNotEligible)

	got, err := s.repos.Procurements.FindByID(s.ctx, nil, pr.ID, false)
	s.Require().NoError(err)
	s.False(got.HasInvoice)
	s.Zero(s.countAll()["invoices"])
}

func (s *LifecycleSuite) TestIssueInvoice_SetsHasInvoiceAndBlocksSecond() {
	inv := s.contractedInvoice()
	s.Equal(entities.ControlPending, inv.ControlStatus)

	pr, err := s.repos.Procurements.FindByID(s.ctx, nil, inv.ProcurementID, false)
	s.Require().NoError(err)
	s.True(pr.HasInvoice)

	_, err = s.svc.IssueInvoice(s.ctx, invoicing, inv.ProcurementID, validInvoice())
	s.assertHTTP(err, http.StatusConflict, apperrors.ErrAlreadyProcessed)
}

func (s *LifecycleSuite) TestIssueInvoice_StoreFailureLeavesNoPartialState() {
	p, err := s.svc.SubmitProposal(s.ctx, admin, validProposal("procurement"))
	s.Require().NoError(err)
	pr, err := s.svc.CreateProcurement(s.ctx, procurement, p.ID, validProcurement(true))
	s.Require().NoError(err)

	boom := errors.New("диск переполнен")
	procurements := s.repos.Procurements
	s.repos.Procurements = failingProcurements{ProcurementRepositoryInterface: procurements, err: boom}
	s.rebuild()

	_, err = s.svc.IssueInvoice(s.ctx, invoicing, pr.ID, validInvoice())
	s.assertHTTP(err, http.StatusInternalServerError, apperrors.ErrStore)
	s.ErrorIs(err, boom)

	got, err := procurements.FindByID(s.ctx, nil, pr.ID, false)
	s.Require().NoError(err)
	s.False(got.HasInvoice)
	s.Zero(s.countAll()["invoices"], "вставленный счёт откатывается вместе с транзакцией")
	s.Equal(2, s.bus.count(), "событие о счёте не публикуется")
}

// --- DecideControl ---

func (s *LifecycleSuite) TestDecideControl_Validation() {
	inv := s.contractedInvoice()

	_, err := s.svc.DecideControl(s.ctx, control, inv.ID, dto.ControlDecisionDTO{Status: "maybe"})
	s.assertHTTP(err, http.StatusBadRequest, apperrors.ErrValidation)

	_, err = s.svc.DecideControl(s.ctx, control, inv.ID, dto.ControlDecisionDTO{Status: "rejected"})
	s.assertHTTP(err, http.StatusBadRequest, apperrors.ErrValidation)

	_, err = s.svc.DecideControl(s.ctx, control, inv.ID, dto.ControlDecisionDTO{Status: "rejected", RejectionReason: null.StringFrom("  ")})
	s.assertHTTP(err, http.StatusBadRequest, apperrors.ErrValidation)

	s.Zero(s.countAll()["controls"])
}

func (s *LifecycleSuite) TestDecideControl_ControlledDropsReason() {
	inv := s.contractedInvoice()

	c, err := s.svc.DecideControl(s.ctx, control, inv.ID, dto.ControlDecisionDTO{Status: "controlled", RejectionReason: null.StringFrom("лишнее")})
	s.Require().NoError(err)
	s.Nil(c.RejectionReason)
	s.Equal("control", c.BranchID)
}

func (s *LifecycleSuite) TestDecideControl_MissingInvoice() {
	_, err := s.svc.DecideControl(s.ctx, control, 999, dto.ControlDecisionDTO{Status: "controlled"})
	s.assertHTTP(err, http.StatusNotFound, apperrors.ErrNotFound)
}

func (s *LifecycleSuite) TestDecideControl_AnyControlledPolicy() {
	inv := s.contractedInvoice()

	_, err := s.svc.DecideControl(s.ctx, control, inv.ID, dto.ControlDecisionDTO{Status: "controlled"})
	s.Require().NoError(err)
	_, err = s.svc.DecideControl(s.ctx, control, inv.ID, dto.ControlDecisionDTO{Status: "rejected", RejectionReason: null.StringFrom("позже передумали")})
	s.Require().NoError(err)

	got, err := s.repos.Invoices.FindByID(s.ctx, nil, inv.ID, false)
	s.Require().NoError(err)
	s.Equal(entities.ControlControlled, got.ControlStatus)
	s.Equal(int64(2), s.countAll()["controls"], "журнал решений хранит обе записи")
}

func (s *LifecycleSuite) TestDecideControl_LatestPolicy() {
	s.workflow.ControlPolicy = config.ControlPolicyLatest
	s.rebuild()
	inv := s.contractedInvoice()

	_, err := s.svc.DecideControl(s.ctx, control, inv.ID, dto.ControlDecisionDTO{Status: "controlled"})
	s.Require().NoError(err)
	_, err = s.svc.DecideControl(s.ctx, control, inv.ID, dto.ControlDecisionDTO{Status: "rejected", RejectionReason: null.StringFrom("нет печати")})
	s.Require().NoError(err)

	got, err := s.repos.Invoices.FindByID(s.ctx, nil, inv.ID, false)
	s.Require().NoError(err)
	s.Equal(entities.ControlRejected, got.ControlStatus)

	_, err = s.svc.IssueAssetForm(s.ctx, assets, inv.ID, dto.CreateAssetDTO{FormM7Number: "M7-1"})
	s.assertHTTP(err, http.StatusConflict, apperrors.ErrNotEligible)
}

// --- IssueAssetForm ---

func (s *LifecycleSuite) TestIssueAssetForm_RequiresControlledDecision() {
	inv := s.contractedInvoice()

	_, err := s.svc.IssueAssetForm(s.ctx, assets, inv.ID, dto.CreateAssetDTO{FormM7Number: "M7-1"})
	s.assertHTTP(err, http.StatusConflict, apperrors.ErrNotEligible)

	_, err = s.svc.DecideControl(s.ctx, control, inv.ID, dto.ControlDecisionDTO{Status: "rejected", RejectionReason: null.StringFrom("нет накладной")})
	s.Require().NoError(err)
	_, err = s.svc.IssueAssetForm(s.ctx, assets, inv.ID, dto.CreateAssetDTO{FormM7Number: "M7-1"})
	s.assertHTTP(err, http.StatusConflict, apperrors.ErrNotEligible)

	s.Zero(s.countAll()["assets"])
}

func (s *LifecycleSuite) TestIssueAssetForm_Validation() {
	_, err := s.svc.IssueAssetForm(s.ctx, assets, 1, dto.CreateAssetDTO{FormM7Number: " "})
	s.assertHTTP(err, http.StatusBadRequest, apperrors.ErrValidation)
}

// --- Списки кандидатов ---

func (s *LifecycleSuite) TestEligibility_ProcurementListsOnlyProcurementTargets() {
	toProc, err := s.svc.SubmitProposal(s.ctx, admin, validProposal("procurement"))
	s.Require().NoError(err)
	_, err = s.svc.SubmitProposal(s.ctx, admin, validProposal("finance"))
	s.Require().NoError(err)

	list, err := s.svc.EligibleProposals(s.ctx, procurement)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(toProc.ID, list[0].ID)

	_, err = s.svc.EligibleProposals(s.ctx, invoicing)
	s.assertHTTP(err, http.StatusForbidden, apperrors.ErrForbidden)
}

func (s *LifecycleSuite) TestEligibility_InvoiceListsContractedWithoutInvoice() {
	p, err := s.svc.SubmitProposal(s.ctx, admin, validProposal("procurement"))
	s.Require().NoError(err)
	contracted, err := s.svc.CreateProcurement(s.ctx, procurement, p.ID, validProcurement(true))
	s.Require().NoError(err)
	_, err = s.svc.CreateProcurement(s.ctx, procurement, p.ID, validProcurement(false))
	s.Require().NoError(err)

	list, err := s.svc.EligibleProcurements(s.ctx, invoicing)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(contracted.ID, list[0].ID)

	_, err = s.svc.IssueInvoice(s.ctx, invoicing, contracted.ID, validInvoice())
	s.Require().NoError(err)

	list, err = s.svc.EligibleProcurements(s.ctx, invoicing)
	s.Require().NoError(err)
	s.Empty(list)
}

func (s *LifecycleSuite) TestEligibility_AssetsIsIdempotent() {
	first := s.contractedInvoice()
	second := s.contractedInvoice()
	for _, inv := range []*entities.Invoice{first, second} {
		_, err := s.svc.DecideControl(s.ctx, control, inv.ID, dto.ControlDecisionDTO{Status: "controlled"})
		s.Require().NoError(err)
	}

	a, err := s.svc.ComputeEligibility(s.ctx, assets, EligibleForAssets)
	s.Require().NoError(err)
	b, err := s.svc.ComputeEligibility(s.ctx, assets, EligibleForAssets)
	s.Require().NoError(err)
	s.Equal(a, b)

	list := a.([]entities.Invoice)
	s.Require().Len(list, 2)
	s.Equal(second.ID, list[0].ID, "новые сверху")
}

func (s *LifecycleSuite) TestEligibility_ControlQueueListsAllInvoices() {
	s.contractedInvoice()
	s.contractedInvoice()

	list, err := s.svc.ComputeEligibility(s.ctx, control, EligibleForControl)
	s.Require().NoError(err)
	s.Len(list.([]entities.Invoice), 2)

	_, err = s.svc.ComputeEligibility(s.ctx, control, EligibilityKind("unknown"))
	s.assertHTTP(err, http.StatusBadRequest, nil)
}

func (s *LifecycleSuite) TestProposalInbox() {
	_, err := s.svc.SubmitProposal(s.ctx, admin, validProposal("finance"))
	s.Require().NoError(err)
	_, err = s.svc.SubmitProposal(s.ctx, admin, validProposal("transport"))
	s.Require().NoError(err)

	inbox, err := s.svc.ProposalInbox(s.ctx, finance)
	s.Require().NoError(err)
	s.Require().Len(inbox, 1)
	s.Equal(entities.BranchFinance, inbox[0].TargetBranch)

	all, err := s.svc.ProposalInbox(s.ctx, superAdmin)
	s.Require().NoError(err)
	s.Len(all, 2)
}

// --- Сквозные сценарии ---

func (s *LifecycleSuite) TestHappyPath() {
	p, err := s.svc.SubmitProposal(s.ctx, admin, validProposal("procurement"))
	s.Require().NoError(err)

	eligible, err := s.svc.EligibleProposals(s.ctx, procurement)
	s.Require().NoError(err)
	s.Require().Len(eligible, 1)

	pr, err := s.svc.CreateProcurement(s.ctx, procurement, p.ID, validProcurement(true))
	s.Require().NoError(err)

	procs, err := s.svc.EligibleProcurements(s.ctx, invoicing)
	s.Require().NoError(err)
	s.Require().Len(procs, 1)

	inv, err := s.svc.IssueInvoice(s.ctx, invoicing, pr.ID, validInvoice())
	s.Require().NoError(err)

	_, err = s.svc.DecideControl(s.ctx, control, inv.ID, dto.ControlDecisionDTO{Status: "controlled"})
	s.Require().NoError(err)

	queue, err := s.svc.AssetQueue(s.ctx, assets)
	s.Require().NoError(err)
	s.Require().Len(queue, 1)
	s.Equal(inv.ID, queue[0].ID)

	asset, err := s.svc.IssueAssetForm(s.ctx, assets, inv.ID, dto.CreateAssetDTO{FormM7Number: "M7-0001", ReportScan: null.StringFrom("https://files/scan.pdf")})
	s.Require().NoError(err)
	s.Equal("assets", asset.BranchID)
	s.Equal("https://files/scan.pdf", *asset.ReportScan)

	queue, err = s.svc.AssetQueue(s.ctx, assets)
	s.Require().NoError(err)
	s.Empty(queue)

	_, err = s.svc.IssueAssetForm(s.ctx, assets, inv.ID, dto.CreateAssetDTO{FormM7Number: "M7-0002"})
	s.assertHTTP(err, http.StatusConflict, apperrors.ErrAlreadyProcessed)

	counts := s.countAll()
	s.Equal(map[string]int64{"proposals": 1, "procurements": 1, "invoices": 1, "controls": 1, "assets": 1}, counts)
	s.Equal(5, s.bus.count())

	// Происхождение каждой записи - подразделение, которое её создало.
	controls, _, err := s.repos.Controls.GetAll(s.ctx, types.NewestFirst(nil))
	s.Require().NoError(err)
	s.Equal("control", controls[0].BranchID)
}

func (s *LifecycleSuite) TestRejectedControlIsDeadEnd() {
	inv := s.contractedInvoice()

	c, err := s.svc.DecideControl(s.ctx, control, inv.ID, dto.ControlDecisionDTO{Status: "rejected", RejectionReason: null.StringFrom("Сумма не совпадает")})
	s.Require().NoError(err)
	s.Equal("Сумма не совпадает", *c.RejectionReason)

	queue, err := s.svc.AssetQueue(s.ctx, assets)
	s.Require().NoError(err)
	s.Empty(queue)

	_, err = s.svc.IssueAssetForm(s.ctx, assets, inv.ID, dto.CreateAssetDTO{FormM7Number: "M7-1"})
	s.assertHTTP(err, http.StatusConflict, apperrors.ErrNotEligible)
}
