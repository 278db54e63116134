package main

import (
	"context"
	"flag"
	"log"
	"os"

	"go.uber.org/zap"

	"office-docflow/internal/repositories"
	"office-docflow/migrations"
	"office-docflow/pkg/config"
	"office-docflow/pkg/database/postgresql"
	"office-docflow/pkg/service"
	"office-docflow/seeders"
)

func main() {
	log.Println("======================================================")
	log.Println("       🌱 СИСТЕМА СИДЕРОВ (Наполнение БД)           ")
	log.Println("======================================================")

	runMigrate := flag.Bool("migrate", false, "Накатить миграции перед наполнением")
	runBranches := flag.Bool("branches", false, "Заполнить справочник подразделений")
	printTokens := flag.Bool("tokens", false, "Вывести dev-токены для каждого подразделения")
	runAll := flag.Bool("all", false, "Эквивалентно -migrate -branches")

	flag.Parse()

	if !*runMigrate && !*runBranches && !*printTokens && !*runAll {
		log.Println("❌ Не выбран ни один сидер для запуска.")
		log.Println("")
		log.Println("Доступные флаги:")
		flag.PrintDefaults()
		log.Println("")
		log.Println("Примеры использования:")
		log.Println("  go run ./seeders/cmd/seed -all")
		log.Println("  go run ./seeders/cmd/seed -tokens")
		log.Println("======================================================")
		return
	}

	cfg := config.New()
	logger := zap.NewNop()

	if *printTokens {
		jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, logger)
		if err := seeders.PrintDevTokens(os.Stdout, jwtSvc); err != nil {
			log.Fatalf("❌ Ошибка генерации токенов: %v", err)
		}
	}

	if !*runMigrate && !*runBranches && !*runAll {
		return
	}

	ctx := context.Background()
	log.Println("📦 Используется DSN:", cfg.Postgres.DSN)
	dbPool, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN, logger)
	if err != nil {
		log.Fatalf("❌ Ошибка подключения к БД: %v", err)
	}
	defer dbPool.Close()

	if *runAll || *runMigrate {
		if err := postgresql.Migrate(ctx, dbPool, migrations.FS); err != nil {
			log.Fatalf("❌ Ошибка миграций: %v", err)
		}
		log.Println("✅ Миграции применены")
	}

	if *runAll || *runBranches {
		if err := seeders.SeedBranches(ctx, repositories.NewBranchRepository(dbPool, logger)); err != nil {
			log.Fatalf("❌ Ошибка наполнения подразделений: %v", err)
		}
	}

	log.Println("======================================================")
	log.Println("✅ Готово")
}
