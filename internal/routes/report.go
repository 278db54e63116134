package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"office-docflow/internal/controllers"
	"office-docflow/internal/services"
)

func runDashboardRouter(secureGroup *echo.Group, dashboardService services.DashboardServiceInterface, logger *zap.Logger) {
	dashboardCtrl := controllers.NewDashboardController(dashboardService, logger)

	secureGroup.GET("/dashboard", dashboardCtrl.GetCounts)
}

func runReportRouter(secureGroup *echo.Group, registerService services.RegisterServiceInterface, logger *zap.Logger) {
	reportCtrl := controllers.NewReportController(registerService, logger)

	secureGroup.GET("/reports/:collection", reportCtrl.Export)
}
