package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"office-docflow/internal/controllers"
	"office-docflow/internal/services"
)

func runRecordsRouter(
	secureGroup *echo.Group,
	recordsService services.RecordsServiceInterface,
	registerService services.RegisterServiceInterface,
	logger *zap.Logger,
) {
	recordsCtrl := controllers.NewRecordsController(recordsService, logger)
	registerCtrl := controllers.NewRegisterController(registerService, logger)

	secureGroup.POST("/letters", recordsCtrl.CreateLetter)
	secureGroup.GET("/letters", registerCtrl.GetLetters())
	secureGroup.POST("/inquiries", recordsCtrl.CreateInquiry)
	secureGroup.GET("/inquiries", registerCtrl.GetInquiries())
}
