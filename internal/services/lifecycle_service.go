package services

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"office-docflow/internal/authz"
	"office-docflow/internal/dto"
	"office-docflow/internal/entities"
	"office-docflow/internal/events"
	"office-docflow/internal/repositories"
	"office-docflow/pkg/config"
	"office-docflow/pkg/customvalidator"
	apperrors "office-docflow/pkg/errors"
	"office-docflow/pkg/types"
	"office-docflow/pkg/utils"
)

// EligibilityKind - какой переход питает список кандидатов.
type EligibilityKind string

const (
	EligibleForProcurement EligibilityKind = "procurement"
	EligibleForInvoice     EligibilityKind = "invoice"
	EligibleForControl     EligibilityKind = "control"
	EligibleForAssets      EligibilityKind = "assets"
)

const (
	collectionProposals    = "proposals"
	collectionProcurements = "procurements"
	collectionInvoices     = "invoices"
	collectionControls     = "controls"
	collectionAssets       = "assets"
	collectionLetters      = "letters"
	collectionInquiries    = "inquiries"
)

type LifecycleServiceInterface interface {
	SubmitProposal(ctx context.Context, session authz.Session, payload dto.CreateProposalDTO) (*entities.Proposal, error)
	CreateProcurement(ctx context.Context, session authz.Session, proposalID uint64, payload dto.CreateProcurementDTO) (*entities.Procurement, error)
	IssueInvoice(ctx context.Context, session authz.Session, procurementID uint64, payload dto.CreateInvoiceDTO) (*entities.Invoice, error)
	DecideControl(ctx context.Context, session authz.Session, invoiceID uint64, payload dto.ControlDecisionDTO) (*entities.Control, error)
	IssueAssetForm(ctx context.Context, session authz.Session, invoiceID uint64, payload dto.CreateAssetDTO) (*entities.Asset, error)

	ComputeEligibility(ctx context.Context, session authz.Session, kind EligibilityKind) (interface{}, error)
	EligibleProposals(ctx context.Context, session authz.Session) ([]entities.Proposal, error)
	EligibleProcurements(ctx context.Context, session authz.Session) ([]entities.Procurement, error)
	ControlQueue(ctx context.Context, session authz.Session) ([]entities.Invoice, error)
	AssetQueue(ctx context.Context, session authz.Session) ([]entities.Invoice, error)
	ProposalInbox(ctx context.Context, session authz.Session) ([]entities.Proposal, error)
}

// LifecycleService ведёт документ по цепочке
// предложение -> закупка -> счёт -> контроль -> форма М-7.
// Каждый переход создаёт запись и меняет состояние родителя в одной транзакции.
type LifecycleService struct {
	BaseService
	repos    *repositories.Registry
	workflow config.WorkflowConfig
}

func NewLifecycleService(
	repos *repositories.Registry,
	workflow config.WorkflowConfig,
	validator Validator,
	bus Publisher,
	logger *zap.Logger,
) LifecycleServiceInterface {
	return &LifecycleService{
		BaseService: NewBaseService(validator, bus, logger),
		repos:       repos,
		workflow:    workflow,
	}
}

func provenance(session authz.Session) types.Provenance {
	return types.Provenance{BranchID: session.Branch.String(), UserID: session.UserID}
}

func parseAmount(field string, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, apperrors.NewValidationError("Ошибка валидации", map[string]string{field: "nonneg_number"})
	}
	// Оба хранилища получают уже округлённое до копеек значение.
	v = customvalidator.RoundAmount(v)
	if v >= customvalidator.MaxAmount {
		return 0, apperrors.NewValidationError("Ошибка валидации", map[string]string{field: "nonneg_number"})
	}
	return v, nil
}

func (s *LifecycleService) SubmitProposal(ctx context.Context, session authz.Session, payload dto.CreateProposalDTO) (*entities.Proposal, error) {
	if err := s.CheckPermission(session, authz.ProposalsCreate); err != nil {
		return nil, err
	}
	if err := s.validate(&payload); err != nil {
		return nil, err
	}

	date, err := utils.ParseDate(payload.Date)
	if err != nil {
		return nil, apperrors.NewValidationError("Ошибка валидации", map[string]string{"date": "date_only"})
	}
	price, err := parseAmount("estimated_price", payload.EstimatedPrice.String())
	if err != nil {
		return nil, err
	}

	proposal := &entities.Proposal{
		Number:           strings.TrimSpace(payload.Number),
		Date:             date,
		Subject:          strings.TrimSpace(payload.Subject),
		EstimatedPrice:   price,
		RequestingBranch: strings.TrimSpace(payload.RequestingBranch),
		TargetBranch:     entities.Branch(strings.TrimSpace(payload.TargetBranch)),
		Status:           entities.ProposalSubmitted,
		Provenance:       provenance(session),
	}
	if payload.OrderNumber.Valid {
		proposal.OrderNumber = utils.TrimmedPtr(payload.OrderNumber.String)
	}
	if payload.OrderDate.Valid {
		orderDate, err := utils.ParseDate(payload.OrderDate.String)
		if err != nil {
			return nil, apperrors.NewValidationError("Ошибка валидации", map[string]string{"order_date": "date_only"})
		}
		proposal.OrderDate = &orderDate
	}

	// Неизвестное подразделение-получатель не ошибка: предложение просто никому не попадёт во входящие.
	if !proposal.TargetBranch.IsKnown() {
		s.logger.Warn("Предложение адресовано неизвестному подразделению",
			zap.String("target_branch", proposal.TargetBranch.String()),
			zap.String("userID", session.UserID),
		)
	}

	if err := s.repos.Proposals.Create(ctx, nil, proposal); err != nil {
		return nil, storeErr("SubmitProposal", "", err)
	}

	s.logger.Info("Предложение зарегистрировано",
		zap.Uint64("proposalID", proposal.ID),
		zap.String("target_branch", proposal.TargetBranch.String()),
		zap.String("branch", session.Branch.String()),
	)
	s.publish(ctx, events.NewRecordCreated(collectionProposals, proposal.ID, proposal.BranchID, proposal.UserID))
	return proposal, nil
}

func (s *LifecycleService) CreateProcurement(ctx context.Context, session authz.Session, proposalID uint64, payload dto.CreateProcurementDTO) (*entities.Procurement, error) {
	if err := s.CheckPermission(session, authz.ProcurementsCreate); err != nil {
		return nil, err
	}
	if err := s.validate(&payload); err != nil {
		return nil, err
	}
	gross, err := parseAmount("gross_amount", payload.GrossAmount.String())
	if err != nil {
		return nil, err
	}

	procurement := &entities.Procurement{
		ProposalID:    proposalID,
		PricingNumber: strings.TrimSpace(payload.PricingNumber),
		IsQuoted:      payload.IsQuoted,
		IsContracted:  payload.IsContracted,
		CompanyName:   strings.TrimSpace(payload.CompanyName),
		GrossAmount:   gross,
		Provenance:    provenance(session),
	}

	err = s.repos.Tx.RunInTransaction(ctx, func(tx pgx.Tx) error {
		proposal, err := s.repos.Proposals.FindByID(ctx, tx, proposalID, true)
		if err != nil {
			return storeErr("CreateProcurement.FindProposal", fmt.Sprintf("Предложение %d не найдено", proposalID), err)
		}
		if proposal.TargetBranch != entities.BranchProcurement {
			return apperrors.NewEligibilityError(fmt.Sprintf("Предложение %d адресовано подразделению '%s', а не отделу закупок", proposalID, proposal.TargetBranch))
		}
		if s.workflow.UniqueProcurementPerProposal && proposal.Status == entities.ProposalProcured {
			return apperrors.NewConflictError(fmt.Sprintf("По предложению %d закупка уже оформлена", proposalID))
		}

		if err := s.repos.Procurements.Create(ctx, tx, procurement); err != nil {
			return storeErr("CreateProcurement.Insert", "", err)
		}
		if proposal.Status != entities.ProposalProcured {
			if err := s.repos.Proposals.UpdateStatus(ctx, tx, proposalID, entities.ProposalProcured); err != nil {
				return storeErr("CreateProcurement.UpdateProposal", "", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, storeErr("CreateProcurement", "", err)
	}

	s.logger.Info("Закупка оформлена",
		zap.Uint64("procurementID", procurement.ID),
		zap.Uint64("proposalID", proposalID),
		zap.Bool("is_contracted", procurement.IsContracted),
	)
	s.publish(ctx, events.NewRecordCreated(collectionProcurements, procurement.ID, procurement.BranchID, procurement.UserID).
		WithParent(collectionProposals, proposalID))
	return procurement, nil
}

func (s *LifecycleService) IssueInvoice(ctx context.Context, session authz.Session, procurementID uint64, payload dto.CreateInvoiceDTO) (*entities.Invoice, error) {
	if err := s.CheckPermission(session, authz.InvoicesCreate); err != nil {
		return nil, err
	}
	if err := s.validate(&payload); err != nil {
		return nil, err
	}

	invoice := &entities.Invoice{
		ProcurementID:           procurementID,
		Area:                    strings.TrimSpace(payload.Area),
		RegistrationNumber:      strings.TrimSpace(payload.RegistrationNumber),
		IsAreaApproved:          payload.IsAreaApproved,
		IsReferredToProcurement: payload.IsReferredToProcurement,
		ControlStatus:           entities.ControlPending,
		Provenance:              provenance(session),
	}

	err := s.repos.Tx.RunInTransaction(ctx, func(tx pgx.Tx) error {
		procurement, err := s.repos.Procurements.FindByID(ctx, tx, procurementID, true)
		if err != nil {
			return storeErr("IssueInvoice.FindProcurement", fmt.Sprintf("Закупка %d не найдена", procurementID), err)
		}
		if !procurement.IsContracted {
			return apperrors.NewEligibilityError(fmt.Sprintf("Закупка %d не законтрактована, счёт выставить нельзя", procurementID))
		}
		if s.workflow.UniqueInvoicePerProcurement && procurement.HasInvoice {
			return apperrors.NewConflictError(fmt.Sprintf("По закупке %d счёт уже выставлен", procurementID))
		}

		if err := s.repos.Invoices.Create(ctx, tx, invoice); err != nil {
			return storeErr("IssueInvoice.Insert", "", err)
		}
		if !procurement.HasInvoice {
			if err := s.repos.Procurements.MarkInvoiced(ctx, tx, procurementID); err != nil {
				return storeErr("IssueInvoice.MarkInvoiced", "", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, storeErr("IssueInvoice", "", err)
	}

	s.logger.Info("Счёт выставлен",
		zap.Uint64("invoiceID", invoice.ID),
		zap.Uint64("procurementID", procurementID),
	)
	s.publish(ctx, events.NewRecordCreated(collectionInvoices, invoice.ID, invoice.BranchID, invoice.UserID).
		WithParent(collectionProcurements, procurementID))
	return invoice, nil
}

func (s *LifecycleService) DecideControl(ctx context.Context, session authz.Session, invoiceID uint64, payload dto.ControlDecisionDTO) (*entities.Control, error) {
	if err := s.CheckPermission(session, authz.ControlsCreate); err != nil {
		return nil, err
	}
	if err := s.validate(&payload); err != nil {
		return nil, err
	}

	decision := entities.ControlStatus(payload.Status)
	control := &entities.Control{
		InvoiceID:  invoiceID,
		Status:     decision,
		Provenance: provenance(session),
	}
	if decision == entities.ControlRejected {
		reason := utils.TrimmedPtr(payload.RejectionReason.String)
		if !payload.RejectionReason.Valid || reason == nil {
			return nil, apperrors.NewValidationError("Для отказа нужно указать причину", map[string]string{"rejection_reason": "required"})
		}
		control.RejectionReason = reason
	}

	err := s.repos.Tx.RunInTransaction(ctx, func(tx pgx.Tx) error {
		invoice, err := s.repos.Invoices.FindByID(ctx, tx, invoiceID, true)
		if err != nil {
			return storeErr("DecideControl.FindInvoice", fmt.Sprintf("Счёт %d не найден", invoiceID), err)
		}

		if err := s.repos.Controls.Create(ctx, tx, control); err != nil {
			return storeErr("DecideControl.Insert", "", err)
		}

		next := s.nextControlStatus(invoice.ControlStatus, decision)
		if next != invoice.ControlStatus {
			if err := s.repos.Invoices.UpdateControlStatus(ctx, tx, invoiceID, next); err != nil {
				return storeErr("DecideControl.UpdateInvoice", "", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, storeErr("DecideControl", "", err)
	}

	s.logger.Info("Решение контроля записано",
		zap.Uint64("controlID", control.ID),
		zap.Uint64("invoiceID", invoiceID),
		zap.String("status", string(decision)),
	)
	s.publish(ctx, events.NewRecordCreated(collectionControls, control.ID, control.BranchID, control.UserID).
		WithParent(collectionInvoices, invoiceID))
	return control, nil
}

// nextControlStatus: при any_controlled однажды одобренный счёт остаётся одобренным,
// при latest действует последнее решение.
func (s *LifecycleService) nextControlStatus(current, decision entities.ControlStatus) entities.ControlStatus {
	if s.workflow.ControlPolicy == config.ControlPolicyLatest {
		return decision
	}
	if current == entities.ControlControlled {
		return current
	}
	return decision
}

func (s *LifecycleService) IssueAssetForm(ctx context.Context, session authz.Session, invoiceID uint64, payload dto.CreateAssetDTO) (*entities.Asset, error) {
	if err := s.CheckPermission(session, authz.AssetsCreate); err != nil {
		return nil, err
	}
	if err := s.validate(&payload); err != nil {
		return nil, err
	}

	asset := &entities.Asset{
		InvoiceID:    invoiceID,
		FormM7Number: strings.TrimSpace(payload.FormM7Number),
		Provenance:   provenance(session),
	}
	if payload.ReportScan.Valid {
		asset.ReportScan = utils.TrimmedPtr(payload.ReportScan.String)
	}

	err := s.repos.Tx.RunInTransaction(ctx, func(tx pgx.Tx) error {
		invoice, err := s.repos.Invoices.FindByID(ctx, tx, invoiceID, true)
		if err != nil {
			return storeErr("IssueAssetForm.FindInvoice", fmt.Sprintf("Счёт %d не найден", invoiceID), err)
		}
		if invoice.ControlStatus != entities.ControlControlled {
			return apperrors.NewEligibilityError(fmt.Sprintf("Счёт %d не прошёл контроль, форму М-7 оформить нельзя", invoiceID))
		}
		if s.workflow.UniqueAssetPerInvoice && invoice.AssetIssued {
			return apperrors.NewConflictError(fmt.Sprintf("По счёту %d форма М-7 уже оформлена", invoiceID))
		}

		if err := s.repos.Assets.Create(ctx, tx, asset); err != nil {
			return storeErr("IssueAssetForm.Insert", "", err)
		}
		if !invoice.AssetIssued {
			if err := s.repos.Invoices.MarkAssetIssued(ctx, tx, invoiceID); err != nil {
				return storeErr("IssueAssetForm.MarkAssetIssued", "", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, storeErr("IssueAssetForm", "", err)
	}

	s.logger.Info("Форма М-7 оформлена",
		zap.Uint64("assetID", asset.ID),
		zap.Uint64("invoiceID", invoiceID),
	)
	s.publish(ctx, events.NewRecordCreated(collectionAssets, asset.ID, asset.BranchID, asset.UserID).
		WithParent(collectionInvoices, invoiceID))
	return asset, nil
}

// --- Списки кандидатов ---

func (s *LifecycleService) ComputeEligibility(ctx context.Context, session authz.Session, kind EligibilityKind) (interface{}, error) {
	switch kind {
	case EligibleForProcurement:
		return s.EligibleProposals(ctx, session)
	case EligibleForInvoice:
		return s.EligibleProcurements(ctx, session)
	case EligibleForControl:
		return s.ControlQueue(ctx, session)
	case EligibleForAssets:
		return s.AssetQueue(ctx, session)
	}
	return nil, apperrors.NewBadRequestError(fmt.Sprintf("Неизвестный вид списка '%s'", kind))
}

func (s *LifecycleService) EligibleProposals(ctx context.Context, session authz.Session) ([]entities.Proposal, error) {
	if err := s.CheckPermission(session, authz.ProcurementsCreate); err != nil {
		return nil, err
	}
	where := map[string]interface{}{"target_branch": string(entities.BranchProcurement)}
	if s.workflow.UniqueProcurementPerProposal {
		where["status"] = string(entities.ProposalSubmitted)
	}
	list, _, err := s.repos.Proposals.GetAll(ctx, types.NewestFirst(where))
	if err != nil {
		return nil, storeErr("EligibleProposals", "", err)
	}
	return list, nil
}

func (s *LifecycleService) EligibleProcurements(ctx context.Context, session authz.Session) ([]entities.Procurement, error) {
	if err := s.CheckPermission(session, authz.InvoicesCreate); err != nil {
		return nil, err
	}
	where := map[string]interface{}{"is_contracted": true}
	if s.workflow.UniqueInvoicePerProcurement {
		where["has_invoice"] = false
	}
	list, _, err := s.repos.Procurements.GetAll(ctx, types.NewestFirst(where))
	if err != nil {
		return nil, storeErr("EligibleProcurements", "", err)
	}
	return list, nil
}

// ControlQueue - контроль может принять решение по любому счёту.
func (s *LifecycleService) ControlQueue(ctx context.Context, session authz.Session) ([]entities.Invoice, error) {
	if err := s.CheckPermission(session, authz.ControlsCreate); err != nil {
		return nil, err
	}
	list, _, err := s.repos.Invoices.GetAll(ctx, types.NewestFirst(nil))
	if err != nil {
		return nil, storeErr("ControlQueue", "", err)
	}
	return list, nil
}

func (s *LifecycleService) AssetQueue(ctx context.Context, session authz.Session) ([]entities.Invoice, error) {
	if err := s.CheckPermission(session, authz.AssetsCreate); err != nil {
		return nil, err
	}
	where := map[string]interface{}{"control_status": string(entities.ControlControlled)}
	if s.workflow.UniqueAssetPerInvoice {
		where["asset_issued"] = false
	}
	list, _, err := s.repos.Invoices.GetAll(ctx, types.NewestFirst(where))
	if err != nil {
		return nil, storeErr("AssetQueue", "", err)
	}
	return list, nil
}

// ProposalInbox - предложения, адресованные подразделению сессии. super_admin видит все.
func (s *LifecycleService) ProposalInbox(ctx context.Context, session authz.Session) ([]entities.Proposal, error) {
	if err := s.CheckPermission(session, authz.ProposalsInbox); err != nil {
		return nil, err
	}
	var where map[string]interface{}
	if !session.IsSuperAdmin() {
		where = map[string]interface{}{"target_branch": session.Branch.String()}
	}
	list, _, err := s.repos.Proposals.GetAll(ctx, types.NewestFirst(where))
	if err != nil {
		return nil, storeErr("ProposalInbox", "", err)
	}
	return list, nil
}
