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

type RecordsController struct {
	recordsService services.RecordsServiceInterface
	logger         *zap.Logger
}

func NewRecordsController(recordsService services.RecordsServiceInterface, logger *zap.Logger) *RecordsController {
	return &RecordsController{recordsService: recordsService, logger: logger}
}

func (c *RecordsController) CreateLetter(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	session, err := utils.GetSessionFromCtx(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.CreateLetterDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Неверный формат запроса"), c.logger)
	}

	res, err := c.recordsService.CreateLetter(reqCtx, session, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Письмо зарегистрировано", http.StatusCreated)
}

func (c *RecordsController) CreateInquiry(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	session, err := utils.GetSessionFromCtx(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.CreateInquiryDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Неверный формат запроса"), c.logger)
	}

	res, err := c.recordsService.CreateInquiry(reqCtx, session, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Запрос зарегистрирован", http.StatusCreated)
}
