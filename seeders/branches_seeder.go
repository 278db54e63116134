package seeders

import (
	"context"
	"fmt"
	"log"

	"office-docflow/internal/entities"
	"office-docflow/internal/repositories"
)

// SeedBranches заполняет справочник подразделений встроенными названиями.
// Повторный запуск только обновляет названия.
func SeedBranches(ctx context.Context, repo repositories.BranchRepositoryInterface) error {
	log.Println("▶️  Наполнение справочника подразделений...")
	for _, code := range entities.AllBranches {
		info := entities.BranchInfo{Code: code, Name: entities.BranchNames[code]}
		if err := repo.Upsert(ctx, nil, info); err != nil {
			return fmt.Errorf("подразделение %s: %w", code, err)
		}
	}
	log.Printf("✅ Подразделений в справочнике: %d", len(entities.AllBranches))
	return nil
}
