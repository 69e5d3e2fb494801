package api

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/makansehat/backend/internal/models"
	"github.com/makansehat/backend/internal/service"
	"github.com/makansehat/backend/internal/types"
)

// IngredientHandler serves ingredient validation, listing and search.
type IngredientHandler struct {
	ingredients *service.IngredientService
	log         *zap.Logger
}

func NewIngredientHandler(ingredients *service.IngredientService, log *zap.Logger) *IngredientHandler {
	return &IngredientHandler{ingredients: ingredients, log: log}
}

func (h *IngredientHandler) RegisterRoutes(router *gin.RouterGroup, g Guards) {
	lookup := router.Group("", g.OptionalAuth, g.RateLimit)
	{
		lookup.POST("/validate-ingredient", h.ValidateIngredient)
		lookup.POST("/validate-ingredients-batch", h.ValidateBatch)
		lookup.GET("/ingredients", h.ListIngredients)
		lookup.GET("/ingredients/search", h.SearchIngredients)
		lookup.GET("/allergens", h.ListAllergens)
		lookup.GET("/knowledge/stats", h.Stats)
	}
}

func (h *IngredientHandler) ValidateIngredient(c *gin.Context) {
	var req types.ValidateIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.FoodName == nil {
		c.JSON(http.StatusBadRequest, types.ValidationResult{
			Valid:   false,
			Error:   service.CodeInvalidInput,
			Message: "foodName must be a string",
		})
		return
	}

	ingredient, err := h.ingredients.Resolve(c.Request.Context(), *req.FoodName)
	if err != nil {
		h.validationFailed(c, *req.FoodName, err)
		return
	}
	detail, err := h.ingredients.Detail(c.Request.Context(), ingredient)
	if err != nil {
		h.validationFailed(c, *req.FoodName, err)
		return
	}

	c.JSON(http.StatusOK, types.ValidationResult{
		Input:      *req.FoodName,
		Valid:      true,
		Ingredient: detail,
		Message:    "Ingredient found: " + detail.Name,
	})
}

func (h *IngredientHandler) validationFailed(c *gin.Context, input string, err error) {
	status := StatusFor(err)
	message := validationMessage(input, err)
	if status == http.StatusInternalServerError {
		h.log.Error("Ingredient validation failed", zap.Error(err))
	}
	c.JSON(status, types.ValidationResult{
		Input:   input,
		Valid:   false,
		Error:   service.ErrorCode(err),
		Message: message,
	})
}

func validationMessage(input string, err error) string {
	switch {
	case errors.Is(err, service.ErrEmptyInput):
		return "Ingredient name is empty"
	case errors.Is(err, service.ErrIngredientNotFound):
		return "Ingredient not found: " + input
	default:
		return "Internal server error"
	}
}

func (h *IngredientHandler) ValidateBatch(c *gin.Context) {
	var req types.ValidateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.FoodNames == nil {
		invalidBody(c, "foodNames must be an array of strings")
		return
	}

	ctx := c.Request.Context()
	batch, err := h.ingredients.ResolveBatch(ctx, req.FoodNames...)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	var matched []models.Ingredient
	for _, item := range batch.Items {
		if item.Ingredient != nil {
			matched = append(matched, *item.Ingredient)
		}
	}
	details, err := h.ingredients.Details(ctx, matched)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	resp := types.BatchValidationResponse{Validations: make([]types.ValidationResult, len(batch.Items))}
	next := 0
	for i, item := range batch.Items {
		if item.Ingredient == nil {
			resp.Validations[i] = types.ValidationResult{
				Input:   item.Input,
				Valid:   false,
				Error:   service.ErrorCode(item.Err),
				Message: validationMessage(item.Input, item.Err),
			}
			continue
		}
		detail := details[next]
		next++
		resp.Validations[i] = types.ValidationResult{
			Input:      item.Input,
			Valid:      true,
			Ingredient: &detail,
			Message:    "Ingredient found: " + detail.Name,
		}
		resp.Summary.Valid++
	}
	resp.Summary.Total = len(batch.Items)
	resp.Summary.Invalid = resp.Summary.Total - resp.Summary.Valid
	resp.Summary.ValidationPercentage = percentage(resp.Summary.Valid, resp.Summary.Total)

	c.JSON(http.StatusOK, resp)
}

func percentage(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) * 100 / float64(total)))
}

func (h *IngredientHandler) ListIngredients(c *gin.Context) {
	list, err := h.ingredients.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "ingredients": list, "total": len(list)})
}

func (h *IngredientHandler) SearchIngredients(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			invalidBody(c, "limit must be an integer")
			return
		}
		limit = n
	}

	keyword := c.Query("keyword")
	list, err := h.ingredients.Search(c.Request.Context(), keyword, limit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "keyword": keyword, "ingredients": list, "total": len(list)})
}

func (h *IngredientHandler) ListAllergens(c *gin.Context) {
	allergens, err := h.ingredients.ReferenceAllergens(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "allergens": allergens})
}

func (h *IngredientHandler) Stats(c *gin.Context) {
	stats, err := h.ingredients.Stats(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}
