package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"office-docflow/internal/listeners"
	"office-docflow/internal/repositories"
	"office-docflow/internal/services"
	"office-docflow/pkg/config"
	"office-docflow/pkg/eventbus"
	"office-docflow/pkg/middleware"
	"office-docflow/pkg/service"
	"office-docflow/pkg/telegram"
	appwebsocket "office-docflow/pkg/websocket"
)

type Loggers struct {
	Main      *zap.Logger
	Auth      *zap.Logger
	Lifecycle *zap.Logger
	Audit     *zap.Logger
}

// Deps - всё, что нужно роутеру извне: хранилище, кеш, шина и настройки.
type Deps struct {
	Repos     *repositories.Registry
	Cache     repositories.CacheRepositoryInterface
	Bus       *eventbus.Bus
	Hub       *appwebsocket.Hub
	Notifier  telegram.ServiceInterface
	JWT       service.JWTService
	Validator services.Validator
	Config    *config.Config
	Loggers   *Loggers
}

func InitRouter(e *echo.Echo, deps Deps) {
	loggers := deps.Loggers
	loggers.Main.Info("InitRouter: Начало создания маршрутов")

	// --- 0. ОБЩИЕ КОМПОНЕНТЫ ---
	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(deps.JWT, loggers.Auth)

	// --- 1. СЕРВИСЫ ---
	branchService := services.NewBranchService(deps.Repos.Branches, loggers.Main)
	recordsService := services.NewRecordsService(deps.Repos, deps.Validator, deps.Bus, loggers.Main)
	lifecycleService := services.NewLifecycleService(deps.Repos, deps.Config.Workflow, deps.Validator, deps.Bus, loggers.Lifecycle)
	registerService := services.NewRegisterService(deps.Repos, loggers.Main)
	dashboardService := services.NewDashboardService(deps.Repos, deps.Cache, deps.Config.Cache.DashboardTTL, loggers.Main)

	// --- 2. СЛУШАТЕЛИ СОБЫТИЙ ---
	if deps.Bus != nil {
		listeners.NewCacheListener(dashboardService, loggers.Main).Register(deps.Bus)
		listeners.NewAuditListener(loggers.Audit).Register(deps.Bus)
		if deps.Hub != nil {
			listeners.NewLiveListener(deps.Hub, loggers.Main).Register(deps.Bus)
		}
		if deps.Notifier != nil {
			listeners.NewTelegramListener(deps.Notifier, deps.Config.Telegram.BranchChats, loggers.Main.Named("telegram")).Register(deps.Bus)
		}
	}

	// --- 3. РОУТЕРЫ ---
	secureGroup := api.Group("", authMW.Auth)

	runBranchRouter(secureGroup, branchService, loggers.Main)
	runRecordsRouter(secureGroup, recordsService, registerService, loggers.Main)
	runLifecycleRouter(secureGroup, lifecycleService, registerService, loggers.Lifecycle)
	runDashboardRouter(secureGroup, dashboardService, loggers.Main)
	runReportRouter(secureGroup, registerService, loggers.Main)
	if deps.Hub != nil {
		runLiveRouter(api, deps.Hub, deps.JWT, deps.Config.Server.AllowedOrigins, loggers.Main)
	}

	loggers.Main.Info("INIT_ROUTER: Создание маршрутов завершено")
}
