package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/makansehat/backend/internal/types"
)

func TestGenerateMenuCBR(t *testing.T) {
	a := setupAPI(t)

	for _, path := range []string{"/api/v1/generate-menu-cbr", "/api/v1/generate-menu"} {
		w := a.do(t, http.MethodPost, path, map[string]any{"baseIngredient": "telur"}, "")
		require.Equal(t, http.StatusOK, w.Code, path)
		res := decode[types.CBRResult](t, w)
		assert.True(t, res.Success)
		assert.Equal(t, 3, res.Total)
		assert.Equal(t, "Semur Telur", res.Menus[0].MenuName)
		assert.Equal(t, []string{"egg"}, res.Menus[0].Allergens)
	}

	w := a.do(t, http.MethodPost, "/api/v1/generate-menu-cbr", map[string]any{"foodName": "ayam", "limit": 50}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 4, decode[types.CBRResult](t, w).Total)

	w = a.do(t, http.MethodPost, "/api/v1/generate-menu-cbr", map[string]any{"baseIngredient": "wortel"}, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	res := decode[types.CBRResult](t, w)
	assert.False(t, res.Success)
	assert.Equal(t, "NO_CASES_FOUND", res.Error)
	assert.NotNil(t, res.Menus)

	w = a.do(t, http.MethodPost, "/api/v1/generate-menu-cbr", map[string]any{"baseIngredient": "pizza"}, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "INGREDIENT_NOT_FOUND", decode[types.CBRResult](t, w).Error)

	w = a.do(t, http.MethodPost, "/api/v1/generate-menu-cbr", map[string]any{"baseIngredient": " "}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "EMPTY_INPUT", decode[types.ErrorResponse](t, w).Error)

	w = a.do(t, http.MethodPost, "/api/v1/generate-menu-cbr", map[string]any{"limit": 2}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_INPUT", decode[types.ErrorResponse](t, w).Error)
}

func TestGenerateMenuRandom(t *testing.T) {
	a := setupAPI(t)

	w := a.do(t, http.MethodPost, "/api/v1/generate-menu-cbr/random", map[string]any{"baseIngredient": "tahu"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[types.CBRResult](t, w)
	require.Len(t, res.Menus, 1)
	assert.Contains(t, []string{"Tahu Bacem", "Tahu Isi Sayur"}, res.Menus[0].MenuName)
}
