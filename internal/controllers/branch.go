package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"office-docflow/internal/services"
	"office-docflow/pkg/utils"
)

type BranchController struct {
	branchService services.BranchServiceInterface
	logger        *zap.Logger
}

func NewBranchController(branchService services.BranchServiceInterface, logger *zap.Logger) *BranchController {
	return &BranchController{branchService: branchService, logger: logger}
}

// Me отдаёт подразделение текущей сессии и список доступных ему действий.
func (c *BranchController) Me(ctx echo.Context) error {
	session, err := utils.GetSessionFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, c.branchService.Me(session), "Успешно", http.StatusOK)
}

func (c *BranchController) GetBranches(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	session, err := utils.GetSessionFromCtx(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.branchService.GetBranches(reqCtx, session)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Успешно", http.StatusOK)
}
