package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/makansehat/backend/internal/middleware"
	"github.com/makansehat/backend/internal/service"
	"github.com/makansehat/backend/internal/types"
)

// AllergenHandler serves the allergen checks. Results are personalized when the
// request carries a valid token.
type AllergenHandler struct {
	allergens *service.AllergenService
	log       *zap.Logger
}

func NewAllergenHandler(allergens *service.AllergenService, log *zap.Logger) *AllergenHandler {
	return &AllergenHandler{allergens: allergens, log: log}
}

func (h *AllergenHandler) RegisterRoutes(router *gin.RouterGroup, g Guards) {
	checks := router.Group("", g.OptionalAuth, g.RateLimit)
	{
		checks.POST("/check-allergen", h.CheckAllergen)
		checks.POST("/check-allergen-safety", h.CheckFoodSafety)
		checks.POST("/detect-allergens", h.DetectAllergens)
		checks.POST("/analyze-food", h.AnalyzeFood)
	}
}

func currentUser(c *gin.Context) *uuid.UUID {
	if id, ok := middleware.UserIDFrom(c); ok {
		return &id
	}
	return nil
}

func (h *AllergenHandler) respond(c *gin.Context, result *types.AllergenCheckResult, err error) {
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *AllergenHandler) CheckAllergen(c *gin.Context) {
	var req types.CheckAllergenRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Ingredients == nil {
		invalidBody(c, "ingredients must be an array of strings")
		return
	}
	result, err := h.allergens.CheckIngredients(c.Request.Context(), req.Ingredients, currentUser(c))
	h.respond(c, result, err)
}

func (h *AllergenHandler) CheckFoodSafety(c *gin.Context) {
	var req types.FoodSafetyRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.FoodName == nil {
		invalidBody(c, "foodName must be a string")
		return
	}
	result, err := h.allergens.CheckFoodSafety(c.Request.Context(), *req.FoodName, currentUser(c))
	h.respond(c, result, err)
}

func bindDescription(c *gin.Context) (string, bool) {
	var req types.FoodDescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return "", false
	}
	switch {
	case req.FoodDescription != nil:
		return *req.FoodDescription, true
	case req.FoodName != nil:
		return *req.FoodName, true
	default:
		return "", false
	}
}

func (h *AllergenHandler) DetectAllergens(c *gin.Context) {
	description, ok := bindDescription(c)
	if !ok {
		invalidBody(c, "foodDescription must be a string")
		return
	}
	result, err := h.allergens.DetectInText(c.Request.Context(), description, currentUser(c))
	h.respond(c, result, err)
}

func (h *AllergenHandler) AnalyzeFood(c *gin.Context) {
	description, ok := bindDescription(c)
	if !ok {
		invalidBody(c, "foodDescription must be a string")
		return
	}
	result, err := h.allergens.AnalyzeFood(c.Request.Context(), description, currentUser(c))
	h.respond(c, result, err)
}
