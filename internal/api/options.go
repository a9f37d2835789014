package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/mealmind/backend/config"
)

// OptionsHandler serves the generator's selectable options
type OptionsHandler struct {
	catalog      *config.Catalog
	defaultModel string
}

func NewOptionsHandler(catalog *config.Catalog, defaultModel string) *OptionsHandler {
	return &OptionsHandler{catalog: catalog, defaultModel: defaultModel}
}

func (h *OptionsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/options", h.GetOptions)
}

func (h *OptionsHandler) GetOptions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories":    h.catalog.Categories,
		"styles":        h.catalog.Styles,
		"preferences":   h.catalog.Preferences,
		"models":        h.catalog.Models,
		"default_model": h.defaultModel,
	})
}
