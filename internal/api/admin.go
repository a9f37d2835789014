package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/mealmind/backend/internal/service"
)

type AdminHandler struct {
	admin service.IAdminService
}

func NewAdminHandler(admin service.IAdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// RegisterRoutes expects a group already restricted to admins
func (h *AdminHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/users", h.ListUsers)
	router.POST("/users/:id/action", h.Apply)
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.admin.ListUsers(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

type adminActionRequest struct {
	Action string `json:"action" binding:"required"`
}

func (h *AdminHandler) Apply(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}
	targetID, ok := pathID(c)
	if !ok {
		return
	}

	var req adminActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	user, err := h.admin.Apply(c.Request.Context(), actorID, targetID, req.Action)
	if err != nil {
		respondError(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusOK, gin.H{"status": "deleted"})
		return
	}
	c.JSON(http.StatusOK, user)
}
