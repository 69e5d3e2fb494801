package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/makansehat/backend/internal/middleware"
	"github.com/makansehat/backend/internal/service"
	"github.com/makansehat/backend/internal/types"
)

type ProfileHandler struct {
	profiles *service.ProfileService
	log      *zap.Logger
}

func NewProfileHandler(profiles *service.ProfileService, log *zap.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, log: log}
}

func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup, g Guards) {
	profile := router.Group("/profile", g.Auth)
	{
		profile.GET("/allergens", h.GetAllergens)
		profile.PUT("/allergens", h.UpdateAllergens)
	}
}

func (h *ProfileHandler) GetAllergens(c *gin.Context) {
	userID, _ := middleware.UserIDFrom(c)

	profile, err := h.profiles.GetAllergens(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) UpdateAllergens(c *gin.Context) {
	userID, _ := middleware.UserIDFrom(c)

	var req types.UpdateAllergensRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, "invalid request body")
		return
	}

	profile, err := h.profiles.UpdateAllergens(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
