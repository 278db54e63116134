package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"office-docflow/internal/services"
	"office-docflow/pkg/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportController struct {
	registerService services.RegisterServiceInterface
	logger          *zap.Logger
}

func NewReportController(registerService services.RegisterServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{registerService: registerService, logger: logger}
}

// Export выгружает реестр :collection в xlsx. Фильтры те же, что у списков, пагинация игнорируется.
func (c *ReportController) Export(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	session, err := utils.GetSessionFromCtx(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	c.logger.Debug("Запрос на выгрузку реестра", zap.String("collection", ctx.Param("collection")), zap.Any("filters", filter.Filter))

	table, err := c.registerService.Export(reqCtx, session, ctx.Param("collection"), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	f, err := buildWorkbook(table)
	if err != nil {
		c.logger.Error("Не удалось сформировать xlsx", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	defer f.Close()

	fileName := fmt.Sprintf("%s_%s.xlsx", table.Collection, time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, xlsxContentType)
	ctx.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}

func buildWorkbook(table *services.ExportTable) (_ *excelize.File, err error) {
	f := excelize.NewFile()
	defer func() {
		if err != nil {
			_ = f.Close()
		}
	}()
	sheet := table.Collection
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(sheet, "A1", &table.Headers); err != nil {
		return nil, err
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	lastCol, _ := excelize.ColumnNumberToName(len(table.Headers))
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", style); err != nil {
		return nil, err
	}

	for i, row := range table.Rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}
	f.SetColWidth(sheet, "B", lastCol, 22)
	return f, nil
}
