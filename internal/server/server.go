package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/mealmind/backend/config"
	"github.com/pageza/mealmind/backend/internal/api"
	"github.com/pageza/mealmind/backend/internal/database"
	"github.com/pageza/mealmind/backend/internal/llm"
	"github.com/pageza/mealmind/backend/internal/metrics"
	"github.com/pageza/mealmind/backend/internal/middleware"
	"github.com/pageza/mealmind/backend/internal/service"
	"github.com/pageza/mealmind/backend/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// Server represents the HTTP server
type Server struct {
	cfg    *config.Config
	router *gin.Engine
	http   *http.Server
	db     *gorm.DB
	redis  *redis.Client
	logger *zap.Logger
}

// Option adjusts how New assembles the server
type Option func(*options)

type options struct {
	gateway llm.Gateway
	archive storage.Archive
}

// WithGateway replaces the HTTP model gateway
func WithGateway(g llm.Gateway) Option {
	return func(o *options) { o.gateway = g }
}

// WithArchive replaces the diagnostics archive
func WithArchive(a storage.Archive) Option {
	return func(o *options) { o.archive = a }
}

// New wires services, middleware and routes on top of an open database. Redis and the
// S3 archive are connected only when configured; a Redis that cannot be reached
// disables rate limiting instead of failing startup.
func New(ctx context.Context, cfg *config.Config, db *gorm.DB, logger *zap.Logger, opts ...Option) (*Server, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Server{cfg: cfg, db: db, logger: logger}

	var limiter *middleware.RateLimiter
	if cfg.RedisEnabled() {
		client, err := database.NewRedisClient(ctx, cfg, logger)
		if err != nil {
			logger.Warn("redis unavailable, generation rate limiting disabled", zap.Error(err))
		} else {
			s.redis = client
			limiter = middleware.NewGenerationRateLimiter(client, cfg.RateLimitRequests, cfg.RateLimitWindow)
		}
	}

	if o.archive == nil {
		o.archive = storage.NopArchive{}
		if cfg.S3Bucket != "" {
			s3cfg, err := config.NewS3Config(ctx, cfg.S3Bucket, cfg.AWSRegion)
			if err != nil {
				return nil, fmt.Errorf("failed to initialize S3 client: %w", err)
			}
			o.archive = storage.NewS3Archive(s3cfg)
			logger.Info("diagnostics archive enabled", zap.String("bucket", cfg.S3Bucket))
		}
	}

	if o.gateway == nil {
		o.gateway = llm.NewHTTPGateway(llm.GatewayConfig{
			URL:     cfg.LLMURL,
			Token:   cfg.LLMToken,
			Timeout: cfg.LLMTimeout,
		}, logger)
	}

	catalog := cfg.Catalog
	if catalog == nil {
		var err error
		if catalog, err = config.LoadCatalog(cfg.CatalogPath); err != nil {
			return nil, err
		}
	}

	normalizer := llm.NewNormalizer(o.gateway, cfg.LLMModel)
	authService := service.NewAuthService(db, cfg.JWTSecret)
	pantryService := service.NewPantryService(db)
	favoriteService := service.NewFavoriteService(db, service.HashEmbedder{})

	metrics.Register()

	router := gin.New()
	router.Use(
		middleware.Recovery(),
		middleware.RequestLogger(logger),
		metrics.Middleware(),
		middleware.CORS(cfg.CORSOrigins),
	)

	api.RegisterRoutes(router, api.Deps{
		DB:           db,
		Auth:         authService,
		Pantry:       pantryService,
		Favorites:    favoriteService,
		Profile:      service.NewProfileService(db),
		Admin:        service.NewAdminService(db),
		Generator:    service.NewGeneratorService(normalizer, pantryService, favoriteService, catalog, o.archive),
		Catalog:      catalog,
		DefaultModel: normalizer.DefaultModel(),
		RateLimiter:  limiter,
	})

	s.router = router
	s.http = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until the server is shut down. A clean shutdown returns nil.
func (s *Server) Start() error {
	s.logger.Info("starting server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests, waits for in-flight ones and closes Redis
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	err := s.http.Shutdown(ctx)
	if s.redis != nil {
		if cerr := s.redis.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
