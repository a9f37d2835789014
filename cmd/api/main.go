package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pageza/mealmind/backend/config"
	"github.com/pageza/mealmind/backend/internal/database"
	"github.com/pageza/mealmind/backend/internal/logging"
	"github.com/pageza/mealmind/backend/internal/server"
)

func main() {
	logger := logging.DefaultLogger()
	defer func() { _ = logger.Sync() }()

	if err := run(logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
	logger.Info("server stopped")
}

func run(logger *zap.Logger) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	logger.Info("configuration loaded",
		zap.String("environment", string(cfg.Environment)),
		zap.String("db_driver", cfg.DBDriver),
		zap.String("default_model", cfg.LLMModel),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}
	if _, err := database.SeedCategories(db, cfg.Catalog.PantryCategories); err != nil {
		return err
	}

	srv, err := server.New(ctx, cfg, db, logger)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")
		return srv.Shutdown(context.Background())
	})
	return g.Wait()
}
