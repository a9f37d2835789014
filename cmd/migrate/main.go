package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/pageza/mealmind/backend/config"
	"github.com/pageza/mealmind/backend/internal/database"
	"github.com/pageza/mealmind/backend/internal/logging"
)

// migrate brings the schema up to date and installs the default pantry categories
func main() {
	logger := logging.DefaultLogger()
	defer func() { _ = logger.Sync() }()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	db, err := database.Open(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := database.Migrate(db); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}
	created, err := database.SeedCategories(db, cfg.Catalog.PantryCategories)
	if err != nil {
		logger.Fatal("failed to seed pantry categories", zap.Error(err))
	}

	logger.Info("migrations applied", zap.Int("categories_created", created))
}
