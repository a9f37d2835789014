package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/mealmind/backend/internal/llm"
	"github.com/pageza/mealmind/backend/internal/middleware"
	"github.com/pageza/mealmind/backend/internal/service"
)

type GenerateHandler struct {
	generator   service.IGeneratorService
	rateLimiter *middleware.RateLimiter
}

// NewGenerateHandler creates the generation handler. A nil rateLimiter disables limiting.
func NewGenerateHandler(generator service.IGeneratorService, rateLimiter *middleware.RateLimiter) *GenerateHandler {
	return &GenerateHandler{
		generator:   generator,
		rateLimiter: rateLimiter,
	}
}

func (h *GenerateHandler) RegisterRoutes(router *gin.RouterGroup) {
	handlers := []gin.HandlerFunc{}
	if h.rateLimiter != nil {
		handlers = append(handlers, h.rateLimiter.RateLimitMiddleware())
	}
	handlers = append(handlers, h.Generate)
	router.POST("/recipes/generate", handlers...)
}

type generateRequest struct {
	Mode               string   `json:"mode" binding:"required"`
	PantryItems        []string `json:"pantry_items"`
	Ingredients        string   `json:"ingredients"`
	PrioritizeExpiring bool     `json:"prioritize_expiring"`
	Categories         []string `json:"categories"`
	CustomCategories   string   `json:"custom_categories"`
	Styles             []string `json:"styles"`
	CustomStyles       string   `json:"custom_styles"`
	Preferences        []string `json:"preferences"`
	CustomPreferences  string   `json:"custom_preferences"`
	Instructions       string   `json:"instructions"`
	Model              string   `json:"model"`
}

// Generate answers with {"recipes": ..., "saved_names": ...}. Normalizer failures
// are passed through as 502 with the normalizer's error body.
func (h *GenerateHandler) Generate(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, middleware.ErrorResponse{Error: "unauthorized"})
		return
	}

	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	result, err := h.generator.Generate(c.Request.Context(), user, service.GenerateInput{
		Mode:               req.Mode,
		PantryItems:        req.PantryItems,
		Ingredients:        req.Ingredients,
		PrioritizeExpiring: req.PrioritizeExpiring,
		Categories:         req.Categories,
		CustomCategories:   req.CustomCategories,
		Styles:             req.Styles,
		CustomStyles:       req.CustomStyles,
		Preferences:        req.Preferences,
		CustomPreferences:  req.CustomPreferences,
		Instructions:       req.Instructions,
		Model:              req.Model,
	})
	if err != nil {
		var nerr *llm.Error
		if errors.As(err, &nerr) {
			c.JSON(http.StatusBadGateway, nerr)
			return
		}
		respondError(c, err)
		return
	}

	if result.SavedNames == nil {
		result.SavedNames = []string{}
	}
	c.JSON(http.StatusOK, result)
}
