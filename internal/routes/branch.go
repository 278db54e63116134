package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"office-docflow/internal/controllers"
	"office-docflow/internal/services"
)

func runBranchRouter(secureGroup *echo.Group, branchService services.BranchServiceInterface, logger *zap.Logger) {
	branchCtrl := controllers.NewBranchController(branchService, logger)

	secureGroup.GET("/me", branchCtrl.Me)
	secureGroup.GET("/branches", branchCtrl.GetBranches)
}
