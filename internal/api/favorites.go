package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/mealmind/backend/internal/service"
)

type FavoritesHandler struct {
	favorites service.IFavoriteService
}

func NewFavoritesHandler(favorites service.IFavoriteService) *FavoritesHandler {
	return &FavoritesHandler{favorites: favorites}
}

func (h *FavoritesHandler) RegisterRoutes(router *gin.RouterGroup) {
	favorites := router.Group("/favorites")
	{
		favorites.GET("", h.List)
		favorites.POST("", h.Save)
		favorites.POST("/unsave", h.Unsave)
		favorites.DELETE("/:id", h.Delete)
	}
}

type saveRecipeRequest struct {
	MealName           string      `json:"meal_name" binding:"required"`
	Description        string      `json:"description"`
	PantryIngredients  encodedList `json:"pantry_ingredients"`
	MissingIngredients encodedList `json:"missing_ingredients"`
	Instructions       encodedList `json:"instructions"`
}

func (h *FavoritesHandler) Save(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req saveRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if strings.TrimSpace(req.MealName) == "" {
		badRequest(c, "meal_name is required")
		return
	}

	recipe, err := h.favorites.Save(c.Request.Context(), userID, service.SaveRecipeInput{
		MealName:           req.MealName,
		Description:        req.Description,
		PantryIngredients:  req.PantryIngredients,
		MissingIngredients: req.MissingIngredients,
		Instructions:       req.Instructions,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

func (h *FavoritesHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	recipes, err := h.favorites.List(c.Request.Context(), userID, c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func (h *FavoritesHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	recipeID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.favorites.Delete(c.Request.Context(), userID, recipeID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type unsaveRequest struct {
	ID       string `json:"id"`
	MealName string `json:"meal_name"`
}

// Unsave removes a saved recipe by id or, failing that, by meal name
func (h *FavoritesHandler) Unsave(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req unsaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	var recipeID *uuid.UUID
	if raw := strings.TrimSpace(req.ID); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			badRequest(c, "invalid id")
			return
		}
		recipeID = &id
	}

	err := h.favorites.Unsave(c.Request.Context(), userID, recipeID, strings.TrimSpace(req.MealName))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}
