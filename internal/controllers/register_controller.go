package controllers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"office-docflow/internal/authz"
	"office-docflow/internal/services"
	"office-docflow/pkg/types"
	"office-docflow/pkg/utils"
)

// RegisterController - реестры (списки) всех коллекций.
type RegisterController struct {
	registerService services.RegisterServiceInterface
	logger          *zap.Logger
}

func NewRegisterController(registerService services.RegisterServiceInterface, logger *zap.Logger) *RegisterController {
	return &RegisterController{registerService: registerService, logger: logger}
}

// listHandler - общий каркас: сессия, фильтр из query, вызов сервиса, ответ с пагинацией.
func listHandler[T any](c *RegisterController, fetch func(context.Context, authz.Session, types.Filter) ([]T, uint64, error)) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		reqCtx := ctx.Request().Context()
		session, err := utils.GetSessionFromCtx(reqCtx)
		if err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}

		filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
		list, total, err := fetch(reqCtx, session, filter)
		if err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
		return utils.SuccessResponse(ctx, list, "Успешно", http.StatusOK, total)
	}
}

func (c *RegisterController) GetLetters() echo.HandlerFunc {
	return listHandler(c, c.registerService.ListLetters)
}

func (c *RegisterController) GetInquiries() echo.HandlerFunc {
	return listHandler(c, c.registerService.ListInquiries)
}

func (c *RegisterController) GetProposals() echo.HandlerFunc {
	return listHandler(c, c.registerService.ListProposals)
}

func (c *RegisterController) GetProcurements() echo.HandlerFunc {
	return listHandler(c, c.registerService.ListProcurements)
}

func (c *RegisterController) GetInvoices() echo.HandlerFunc {
	return listHandler(c, c.registerService.ListInvoices)
}

func (c *RegisterController) GetControls() echo.HandlerFunc {
	return listHandler(c, c.registerService.ListControls)
}

func (c *RegisterController) GetAssets() echo.HandlerFunc {
	return listHandler(c, c.registerService.ListAssets)
}
