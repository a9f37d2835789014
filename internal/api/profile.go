package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/mealmind/backend/internal/service"
)

type ProfileHandler struct {
	profileService service.IProfileService
}

func NewProfileHandler(profileService service.IProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	profile := router.Group("/profile")
	{
		profile.GET("", h.GetProfile)
		profile.PUT("/allergies", h.UpdateAllergies)
	}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type allergiesRequest struct {
	Allergies commaList `json:"allergies"`
}

func (h *ProfileHandler) UpdateAllergies(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req allergiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "allergies must be a list or a comma-separated string")
		return
	}

	user, err := h.profileService.UpdateAllergies(c.Request.Context(), userID, req.Allergies)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
