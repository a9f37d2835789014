package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/mealmind/backend/config"
	"github.com/pageza/mealmind/backend/internal/database"
	"github.com/pageza/mealmind/backend/internal/logging"
	"github.com/pageza/mealmind/backend/internal/metrics"
	"github.com/pageza/mealmind/backend/internal/middleware"
	"github.com/pageza/mealmind/backend/internal/service"
)

// Deps is everything the HTTP layer needs. RateLimiter may be nil.
type Deps struct {
	DB           *gorm.DB
	Auth         middleware.TokenValidator
	Pantry       service.IPantryService
	Favorites    service.IFavoriteService
	Profile      service.IProfileService
	Admin        service.IAdminService
	Generator    service.IGeneratorService
	Catalog      *config.Catalog
	DefaultModel string
	RateLimiter  *middleware.RateLimiter
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, deps Deps) {
	router.GET("/health", HealthCheck(deps.DB))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := router.Group("/api/v1")
	NewOptionsHandler(deps.Catalog, deps.DefaultModel).RegisterRoutes(v1)

	authed := v1.Group("")
	authed.Use(middleware.AuthMiddleware(deps.Auth))

	confirmed := authed.Group("")
	confirmed.Use(middleware.RequireConfirmed(deps.DB))
	NewPantryHandler(deps.Pantry).RegisterRoutes(confirmed)
	NewFavoritesHandler(deps.Favorites).RegisterRoutes(confirmed)
	NewGenerateHandler(deps.Generator, deps.RateLimiter).RegisterRoutes(confirmed)

	NewProfileHandler(deps.Profile).RegisterRoutes(authed)

	admin := authed.Group("/admin")
	admin.Use(middleware.RequireAdmin(deps.DB))
	NewAdminHandler(deps.Admin).RegisterRoutes(admin)
}

// HealthCheck reports whether the API and its database are reachable
func HealthCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := database.HealthCheck(c.Request.Context(), db); err != nil {
			logging.L(c.Request.Context()).Error("health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "database": "unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "database": "ok"})
	}
}
