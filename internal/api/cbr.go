package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/makansehat/backend/internal/service"
	"github.com/makansehat/backend/internal/types"
)

// MenuCaseHandler serves retrieval of stored menu cases by base ingredient.
type MenuCaseHandler struct {
	cases *service.MenuCaseService
	log   *zap.Logger
}

func NewMenuCaseHandler(cases *service.MenuCaseService, log *zap.Logger) *MenuCaseHandler {
	return &MenuCaseHandler{cases: cases, log: log}
}

func (h *MenuCaseHandler) RegisterRoutes(router *gin.RouterGroup, g Guards) {
	cbr := router.Group("", g.OptionalAuth, g.RateLimit)
	{
		cbr.POST("/generate-menu-cbr", h.Retrieve)
		cbr.POST("/generate-menu", h.Retrieve)
		cbr.POST("/generate-menu-cbr/random", h.Random)
	}
}

// bindBase reads baseIngredient, falling back to foodName.
func bindBase(c *gin.Context) (string, int, bool) {
	var req types.GenerateMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return "", 0, false
	}
	switch {
	case req.BaseIngredient != nil:
		return *req.BaseIngredient, req.Limit, true
	case req.FoodName != nil:
		return *req.FoodName, req.Limit, true
	default:
		return "", 0, false
	}
}

func (h *MenuCaseHandler) respond(c *gin.Context, result *types.CBRResult, err error) {
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	status := http.StatusOK
	if !result.Success {
		status = http.StatusNotFound
	}
	c.JSON(status, result)
}

func (h *MenuCaseHandler) Retrieve(c *gin.Context) {
	base, limit, ok := bindBase(c)
	if !ok {
		invalidBody(c, "baseIngredient must be a string")
		return
	}
	result, err := h.cases.Retrieve(c.Request.Context(), base, limit)
	h.respond(c, result, err)
}

func (h *MenuCaseHandler) Random(c *gin.Context) {
	base, _, ok := bindBase(c)
	if !ok {
		invalidBody(c, "baseIngredient must be a string")
		return
	}
	result, err := h.cases.Random(c.Request.Context(), base)
	h.respond(c, result, err)
}
