package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/mealmind/backend/internal/models"
	"github.com/pageza/mealmind/backend/internal/service"
)

type PantryHandler struct {
	pantry service.IPantryService
}

func NewPantryHandler(pantry service.IPantryService) *PantryHandler {
	return &PantryHandler{pantry: pantry}
}

func (h *PantryHandler) RegisterRoutes(router *gin.RouterGroup) {
	pantry := router.Group("/pantry")
	{
		pantry.GET("", h.ListItems)
		pantry.POST("", h.CreateItem)
		pantry.GET("/categories", h.ListCategories)
		pantry.PUT("/:id", h.UpdateItem)
		pantry.DELETE("/:id", h.DeleteItem)
	}
}

// PantryItemView is the JSON shape of a pantry item
type PantryItemView struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	CategoryID     *uuid.UUID `json:"category_id"`
	Category       string     `json:"category,omitempty"`
	Quantity       *float64   `json:"quantity"`
	Unit           string     `json:"unit"`
	ExpirationDate string     `json:"expiration_date"`
}

func newPantryItemView(item *models.PantryItem) PantryItemView {
	view := PantryItemView{
		ID:             item.ID,
		Name:           item.Name,
		CategoryID:     item.CategoryID,
		Quantity:       item.Quantity,
		Unit:           item.Unit,
		ExpirationDate: item.ExpirationString(),
	}
	if item.Category != nil {
		view.Category = item.Category.Name
	}
	return view
}

type pantryItemRequest struct {
	Name           string   `json:"name"`
	CategoryID     string   `json:"category_id"`
	Quantity       *float64 `json:"quantity"`
	Unit           string   `json:"unit"`
	ExpirationDate string   `json:"expiration_date"`
}

func (r *pantryItemRequest) toInput() (service.PantryItemInput, string) {
	input := service.PantryItemInput{
		Name:     r.Name,
		Quantity: r.Quantity,
		Unit:     r.Unit,
	}
	if id := strings.TrimSpace(r.CategoryID); id != "" {
		parsed, err := uuid.Parse(id)
		if err != nil {
			return input, "invalid category_id"
		}
		input.CategoryID = &parsed
	}
	if raw := strings.TrimSpace(r.ExpirationDate); raw != "" {
		d, err := time.Parse(models.DateLayout, raw)
		if err != nil {
			return input, "expiration_date must be YYYY-MM-DD"
		}
		input.ExpirationDate = &d
	}
	return input, ""
}

func (h *PantryHandler) ListCategories(c *gin.Context) {
	categories, err := h.pantry.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *PantryHandler) ListItems(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	filter := service.PantryFilter{Query: c.Query("q")}
	if raw := c.Query("category"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			badRequest(c, "invalid category")
			return
		}
		filter.CategoryID = &id
	}
	if filter.ExpBefore, ok = dateParam(c, "exp_before"); !ok {
		return
	}
	if filter.ExpAfter, ok = dateParam(c, "exp_after"); !ok {
		return
	}

	items, err := h.pantry.ListItems(c.Request.Context(), userID, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]PantryItemView, len(items))
	for i := range items {
		views[i] = newPantryItemView(&items[i])
	}
	c.JSON(http.StatusOK, gin.H{"items": views})
}

// dateParam parses an optional YYYY-MM-DD query parameter, answering 400 when invalid
func dateParam(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	d, err := time.Parse(models.DateLayout, raw)
	if err != nil {
		badRequest(c, name+" must be YYYY-MM-DD")
		return nil, false
	}
	return &d, true
}

func (h *PantryHandler) CreateItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req pantryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	input, msg := req.toInput()
	if msg != "" {
		badRequest(c, msg)
		return
	}

	item, err := h.pantry.CreateItem(c.Request.Context(), userID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newPantryItemView(item))
}

func (h *PantryHandler) UpdateItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	itemID, ok := pathID(c)
	if !ok {
		return
	}

	var req pantryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	input, msg := req.toInput()
	if msg != "" {
		badRequest(c, msg)
		return
	}

	item, err := h.pantry.UpdateItem(c.Request.Context(), userID, itemID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPantryItemView(item))
}

func (h *PantryHandler) DeleteItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	itemID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.pantry.DeleteItem(c.Request.Context(), userID, itemID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
