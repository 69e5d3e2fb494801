package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/makansehat/backend/internal/models"
	"github.com/makansehat/backend/internal/types"
)

func TestCheckAllergen(t *testing.T) {
	a := setupAPI(t)

	w := a.do(t, http.MethodPost, "/api/v1/check-allergen", map[string]any{"ingredients": []string{"tahu", "telur", "susu", "pizza"}}, "")
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[types.AllergenCheckResult](t, w)
	assert.True(t, res.Success)
	assert.Equal(t, []string{"dairy", "egg", "soy"}, res.Allergens)
	assert.Equal(t, []string{"pizza"}, res.UnknownIngredients)
	assert.False(t, res.Personalized)
	assert.Nil(t, res.IsSafe)

	w = a.do(t, http.MethodPost, "/api/v1/check-allergen", map[string]any{"ingredients": "tahu"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_INPUT", decode[types.ErrorResponse](t, w).Error)

	w = a.do(t, http.MethodPost, "/api/v1/check-allergen", map[string]any{"ingredients": []string{" "}}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "EMPTY_INPUT", decode[types.ErrorResponse](t, w).Error)
}

func TestCheckAllergenSafetyPersonalized(t *testing.T) {
	a := setupAPI(t)
	_, token := a.tokenFor(t, models.RoleStudent, "nut")

	w := a.do(t, http.MethodPost, "/api/v1/check-allergen-safety", map[string]any{"foodName": "nasi, kacang tanah"}, token)
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[types.AllergenCheckResult](t, w)
	assert.True(t, res.Personalized)
	require.NotNil(t, res.IsSafe)
	assert.False(t, *res.IsSafe)
	assert.Equal(t, []string{"nut"}, res.MatchedAllergens)

	// a bad token on an optional route falls back to the generic answer
	w = a.do(t, http.MethodPost, "/api/v1/check-allergen-safety", map[string]any{"foodName": "kacang tanah"}, "garbage")
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[types.AllergenCheckResult](t, w).Personalized)

	w = a.do(t, http.MethodPost, "/api/v1/check-allergen-safety", map[string]any{"foodName": []string{"x"}}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDetectAndAnalyze(t *testing.T) {
	a := setupAPI(t)
	description := "Nasi goreng dengan telur dan kecap manis"

	w := a.do(t, http.MethodPost, "/api/v1/detect-allergens", map[string]any{"foodDescription": description}, "")
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[types.AllergenCheckResult](t, w)
	assert.Equal(t, []string{"kecap", "nasi", "telur"}, res.DetectedIngredients)
	assert.Equal(t, []string{"egg", "soy", "wheat"}, res.Allergens)

	// foodName is accepted in place of foodDescription
	w = a.do(t, http.MethodPost, "/api/v1/detect-allergens", map[string]any{"foodName": description}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"kecap", "nasi", "telur"}, decode[types.AllergenCheckResult](t, w).DetectedIngredients)

	w = a.do(t, http.MethodPost, "/api/v1/analyze-food", map[string]any{"foodDescription": description}, "")
	require.Equal(t, http.StatusOK, w.Code)
	res = decode[types.AllergenCheckResult](t, w)
	require.Len(t, res.Breakdown, 3)
	assert.Equal(t, types.IngredientAllergens{Ingredient: "telur", Allergens: []string{"egg"}}, res.Breakdown[2])

	w = a.do(t, http.MethodPost, "/api/v1/analyze-food", map[string]any{}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_INPUT", decode[types.ErrorResponse](t, w).Error)

	w = a.do(t, http.MethodPost, "/api/v1/detect-allergens", map[string]any{"foodDescription": ""}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "EMPTY_INPUT", decode[types.ErrorResponse](t, w).Error)
}
