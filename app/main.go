package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"office-docflow/internal/repositories"
	"office-docflow/internal/repositories/memstore"
	"office-docflow/internal/routes"
	"office-docflow/migrations"
	"office-docflow/pkg/config"
	"office-docflow/pkg/database/postgresql"
	apperrors "office-docflow/pkg/errors"
	"office-docflow/pkg/eventbus"
	applogger "office-docflow/pkg/logger"
	"office-docflow/pkg/middleware"
	"office-docflow/pkg/service"
	"office-docflow/pkg/telegram"
	"office-docflow/pkg/utils"
	"office-docflow/pkg/validation"
	appwebsocket "office-docflow/pkg/websocket"
	"office-docflow/seeders"
)

func main() {
	// 1. Конфиг и логгер
	cfg := config.New()
	logger := applogger.NewLogger(cfg.Logger)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Echo и middleware
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestID())
	e.Use(echomw.RecoverWithConfig(echomw.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("!!! ОБНАРУЖЕНА ПАНИКА (PANIC) !!!",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "Внутренняя ошибка сервера", err, nil)
				utils.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))
	e.Use(middleware.RequestLogger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		ExposeHeaders:    []string{echo.HeaderContentDisposition},
	}))

	v := validation.New()
	e.Validator = v

	// 3. Хранилище и кеш
	var (
		repos *repositories.Registry
		cache repositories.CacheRepositoryInterface
	)
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		logger.Warn("Используется хранилище в памяти, данные не сохраняются между запусками")
		repos = memstore.New().Registry()
		cache = memstore.NewCache()
	default:
		dbPool, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN, logger)
		if err != nil {
			logger.Fatal("не удалось подключиться к PostgreSQL", zap.Error(err))
		}
		defer dbPool.Close()

		if cfg.Postgres.MigrateOnStart {
			if err := postgresql.Migrate(ctx, dbPool, migrations.FS); err != nil {
				logger.Fatal("не удалось применить миграции", zap.Error(err))
			}
			logger.Info("Миграции применены")
		}

		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		if _, err := redisClient.Ping(ctx).Result(); err != nil {
			logger.Fatal("не удалось подключиться к Redis", zap.Error(err), zap.String("address", cfg.Redis.Address))
		}

		repos = repositories.NewPostgresRegistry(dbPool, logger)
		cache = repositories.NewRedisCacheRepository(redisClient)
	}

	if err := seeders.SeedBranches(ctx, repos.Branches); err != nil {
		logger.Fatal("не удалось заполнить справочник подразделений", zap.Error(err))
	}

	// 4. Шина событий, JWT и маршруты
	bus := eventbus.New(logger.Named("eventbus"))
	jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, logger.Named("jwt"))
	hub := appwebsocket.NewHub(logger.Named("ws"))
	go hub.Run(ctx)

	var notifier telegram.ServiceInterface
	if cfg.Telegram.BotToken != "" {
		notifier = telegram.NewService(cfg.Telegram.BotToken, cfg.Telegram.APIURL, logger.Named("telegram"))
	}

	routes.InitRouter(e, routes.Deps{
		Repos:     repos,
		Cache:     cache,
		Bus:       bus,
		Hub:       hub,
		Notifier:  notifier,
		JWT:       jwtSvc,
		Validator: v,
		Config:    cfg,
		Loggers: &routes.Loggers{
			Main:      logger,
			Auth:      logger.Named("auth"),
			Lifecycle: logger.Named("lifecycle"),
			Audit:     logger.Named("audit"),
		},
	})

	// 5. Запуск и корректная остановка
	go func() {
		logger.Info("🚀 Сервер запущен", zap.String("port", cfg.Server.Port), zap.String("store", cfg.StoreDriver))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Ошибка запуска сервера", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Получен сигнал остановки")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Ошибка остановки сервера", zap.Error(err))
	}
	bus.Wait()
	logger.Info("Сервер остановлен")
}
