package main

import (
	"context"
	"flag"
	"fmt"

	"go.uber.org/zap"

	"github.com/pageza/mealmind/backend/config"
	"github.com/pageza/mealmind/backend/internal/database"
	"github.com/pageza/mealmind/backend/internal/logging"
	"github.com/pageza/mealmind/backend/internal/service"
)

func main() {
	username := flag.String("user", "", "create (or reuse) a confirmed user with this username and print a token")
	email := flag.String("email", "", "email for the new user, defaults to <user>@example.com")
	admin := flag.Bool("admin", false, "give the new user admin rights")
	flag.Parse()

	logger := logging.DefaultLogger()
	defer func() { _ = logger.Sync() }()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	ctx := context.Background()
	db, err := database.Open(ctx, cfg, logger)
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
	logger.Info("pantry categories seeded", zap.Int("created", created))

	if *username == "" {
		return
	}
	if cfg.JWTSecret == "" {
		logger.Fatal("JWT_SECRET is required to issue a token")
	}
	if *email == "" {
		*email = *username + "@example.com"
	}

	auth := service.NewAuthService(db, cfg.JWTSecret)
	user, err := auth.EnsureUser(ctx, *username, *email, *admin)
	if err != nil {
		logger.Fatal("failed to create user", zap.Error(err))
	}
	token, err := auth.GenerateToken(user.ID)
	if err != nil {
		logger.Fatal("failed to issue token", zap.Error(err))
	}

	logger.Info("user ready", zap.String("user_id", user.ID.String()), zap.Bool("admin", user.IsAdmin))
	fmt.Println(token)
}
