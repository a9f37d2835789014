package database

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/pageza/mealmind/backend/internal/models"
)

// Migrate creates or updates the schema. On postgres the pgvector extension is
// installed first so the embedding column can be created.
func Migrate(db *gorm.DB) error {
	if db.Dialector.Name() == "postgres" {
		if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
			return fmt.Errorf("failed to install pgvector extension: %w", err)
		}
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.PantryCategory{},
		&models.PantryItem{},
		&models.SavedRecipe{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// SeedCategories inserts the named pantry categories that do not exist yet and
// returns how many were created.
func SeedCategories(db *gorm.DB, names []string) (int, error) {
	created := 0
	for _, name := range names {
		var existing models.PantryCategory
		err := db.Where("name = ?", name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return created, fmt.Errorf("failed to look up category %s: %w", name, err)
		}

		if err := db.Create(&models.PantryCategory{Name: name}).Error; err != nil {
			return created, fmt.Errorf("failed to create category %s: %w", name, err)
		}
		created++
	}
	return created, nil
}
