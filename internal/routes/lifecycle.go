package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"office-docflow/internal/controllers"
	"office-docflow/internal/services"
)

func runLifecycleRouter(
	secureGroup *echo.Group,
	lifecycleService services.LifecycleServiceInterface,
	registerService services.RegisterServiceInterface,
	logger *zap.Logger,
) {
	lifecycleCtrl := controllers.NewLifecycleController(lifecycleService, logger)
	registerCtrl := controllers.NewRegisterController(registerService, logger)

	secureGroup.POST("/proposals", lifecycleCtrl.SubmitProposal)
	secureGroup.GET("/proposals", registerCtrl.GetProposals())
	secureGroup.GET("/proposals/inbox", lifecycleCtrl.GetInbox)

	secureGroup.POST("/proposals/:id/procurements", lifecycleCtrl.CreateProcurement)
	secureGroup.GET("/procurements", registerCtrl.GetProcurements())

	secureGroup.POST("/procurements/:id/invoices", lifecycleCtrl.IssueInvoice)
	secureGroup.GET("/invoices", registerCtrl.GetInvoices())

	secureGroup.POST("/invoices/:id/controls", lifecycleCtrl.DecideControl)
	secureGroup.GET("/controls", registerCtrl.GetControls())

	secureGroup.POST("/invoices/:id/assets", lifecycleCtrl.IssueAssetForm)
	secureGroup.GET("/assets", registerCtrl.GetAssets())

	secureGroup.GET("/eligibility/:kind", lifecycleCtrl.GetEligible)
}
