package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"office-docflow/internal/dto"
	"office-docflow/internal/services"
	apperrors "office-docflow/pkg/errors"
	"office-docflow/pkg/utils"
)

// LifecycleController - переходы по цепочке документа и списки кандидатов для каждого шага.
type LifecycleController struct {
	lifecycleService services.LifecycleServiceInterface
	logger           *zap.Logger
}

func NewLifecycleController(lifecycleService services.LifecycleServiceInterface, logger *zap.Logger) *LifecycleController {
	return &LifecycleController{lifecycleService: lifecycleService, logger: logger}
}

func (c *LifecycleController) SubmitProposal(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	session, err := utils.GetSessionFromCtx(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.CreateProposalDTO
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Debug("SubmitProposal: не удалось разобрать тело", zap.Error(err))
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Неверный формат запроса"), c.logger)
	}

	res, err := c.lifecycleService.SubmitProposal(reqCtx, session, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Предложение зарегистрировано", http.StatusCreated)
}

func (c *LifecycleController) CreateProcurement(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	session, err := utils.GetSessionFromCtx(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	proposalID, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.CreateProcurementDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Неверный формат запроса"), c.logger)
	}

	res, err := c.lifecycleService.CreateProcurement(reqCtx, session, proposalID, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Закупка оформлена", http.StatusCreated)
}

func (c *LifecycleController) IssueInvoice(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	session, err := utils.GetSessionFromCtx(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	procurementID, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.CreateInvoiceDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Неверный формат запроса"), c.logger)
	}

	res, err := c.lifecycleService.IssueInvoice(reqCtx, session, procurementID, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Счёт выставлен", http.StatusCreated)
}

func (c *LifecycleController) DecideControl(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	session, err := utils.GetSessionFromCtx(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	invoiceID, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.ControlDecisionDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Неверный формат запроса"), c.logger)
	}

	res, err := c.lifecycleService.DecideControl(reqCtx, session, invoiceID, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Решение контроля записано", http.StatusCreated)
}

func (c *LifecycleController) IssueAssetForm(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	session, err := utils.GetSessionFromCtx(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	invoiceID, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.CreateAssetDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Неверный формат запроса"), c.logger)
	}

	res, err := c.lifecycleService.IssueAssetForm(reqCtx, session, invoiceID, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Форма М-7 оформлена", http.StatusCreated)
}

// GetEligible отдаёт кандидатов для шага :kind (procurement, invoice, control, assets).
func (c *LifecycleController) GetEligible(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	session, err := utils.GetSessionFromCtx(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.lifecycleService.ComputeEligibility(reqCtx, session, services.EligibilityKind(ctx.Param("kind")))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Успешно", http.StatusOK)
}

func (c *LifecycleController) GetInbox(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	session, err := utils.GetSessionFromCtx(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.lifecycleService.ProposalInbox(reqCtx, session)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Успешно", http.StatusOK)
}
