package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"office-docflow/internal/services"
	"office-docflow/pkg/utils"
)

type DashboardController struct {
	dashboardService services.DashboardServiceInterface
	logger           *zap.Logger
}

func NewDashboardController(ds services.DashboardServiceInterface, logger *zap.Logger) *DashboardController {
	return &DashboardController{
		dashboardService: ds,
		logger:           logger,
	}
}

func (ctrl *DashboardController) GetCounts(c echo.Context) error {
	reqCtx := c.Request().Context()
	session, err := utils.GetSessionFromCtx(reqCtx)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	counts, err := ctrl.dashboardService.GetCounts(reqCtx, session)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, counts, "Счётчики получены", http.StatusOK)
}
