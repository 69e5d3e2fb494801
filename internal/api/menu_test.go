package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/makansehat/backend/internal/models"
	"github.com/makansehat/backend/internal/testhelpers"
	"github.com/makansehat/backend/internal/types"
)

// 2099-03-02 is a Monday far enough ahead that no date below is in the past.
const monday = "2099-03-02"

func TestUpsertMenuRequiresAdmin(t *testing.T) {
	a := setupAPI(t)
	_, adminToken := a.tokenFor(t, models.RoleAdmin)
	_, studentToken := a.tokenFor(t, models.RoleStudent)

	body := map[string]any{
		"date":        monday,
		"menuType":    models.MenuTypeDaily,
		"name":        "Nasi Telur",
		"ingredients": []string{"nasi", "telur"},
		"calories":    450,
	}

	w := a.do(t, http.MethodPut, "/api/v1/menus", body, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(t, http.MethodPut, "/api/v1/menus", body, studentToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", decode[types.ErrorResponse](t, w).Error)

	w = a.do(t, http.MethodPut, "/api/v1/menus", body, adminToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	view := decode[types.MenuView](t, w)
	assert.Equal(t, []string{"egg"}, view.Allergens)
	assert.Equal(t, []string{"nasi", "telur"}, view.IngredientList)

	body["menuType"] = "lunch"
	w = a.do(t, http.MethodPut, "/api/v1/menus", body, adminToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(t, http.MethodPost, "/api/v1/menus/"+view.ID.String()+"/image-upload", map[string]any{"contentType": "image/png"}, adminToken)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = a.do(t, http.MethodDelete, "/api/v1/menus/"+view.ID.String(), nil, adminToken)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = a.do(t, http.MethodDelete, "/api/v1/menus/"+view.ID.String(), nil, adminToken)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.do(t, http.MethodDelete, "/api/v1/menus/not-a-uuid", nil, adminToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWeekAndChoices(t *testing.T) {
	a := setupAPI(t)
	testhelpers.CreateMenu(t, a.db, monday, models.MenuTypeDaily, "Orek Tempe", "nasi,tempe")
	testhelpers.CreateMenu(t, a.db, monday, models.MenuTypeSafe, "Sop Ayam", "ayam,wortel")
	_, token := a.tokenFor(t, models.RoleStudent, "soy")

	w := a.do(t, http.MethodGet, "/api/v1/menus/week?start="+monday, nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	week := decode[types.WeekMenus](t, w)
	require.Len(t, week.Days, 7)
	assert.Equal(t, "Monday", week.Days[0].Weekday)
	require.NotNil(t, week.Days[0].Daily)
	assert.Equal(t, []string{"soy"}, week.Days[0].Daily.Allergens)
	require.NotNil(t, week.Days[0].Safe)
	assert.Empty(t, week.Days[0].Safe.Allergens)
	assert.Nil(t, week.Days[1].Daily)

	w = a.do(t, http.MethodGet, "/api/v1/menus/week?start=02-03-2099", nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(t, http.MethodPut, "/api/v1/menu-choices", map[string]any{"date": monday, "menuType": models.MenuTypeDaily}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = a.do(t, http.MethodPut, "/api/v1/menu-choices", map[string]any{"date": "2099-03-03", "menuType": models.MenuTypeDaily}, token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.do(t, http.MethodPut, "/api/v1/menu-choices", map[string]any{"date": "2000-01-03", "menuType": models.MenuTypeDaily}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(t, http.MethodGet, "/api/v1/menu-choices?start="+monday, nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	choices := decode[types.ChoiceWeek](t, w)
	assert.Equal(t, []string{"soy"}, choices.UserAllergens)
	day := choices.Days[0]
	assert.Equal(t, models.MenuTypeDaily, day.MenuType)
	require.NotNil(t, day.IsSafe)
	assert.False(t, *day.IsSafe)
	assert.Equal(t, []string{"soy"}, day.MatchedAllergens)
	assert.Empty(t, choices.Days[1].MenuType)
}

func TestKitchenSummaryAndAutoAssign(t *testing.T) {
	a := setupAPI(t)
	testhelpers.CreateMenu(t, a.db, monday, models.MenuTypeDaily, "Orek Tempe", "nasi,tempe")
	testhelpers.CreateMenu(t, a.db, monday, models.MenuTypeSafe, "Sop Ayam", "ayam,wortel")
	_, adminToken := a.tokenFor(t, models.RoleAdmin)
	_, kitchenToken := a.tokenFor(t, models.RoleKitchen)
	_, studentToken := a.tokenFor(t, models.RoleStudent, "soy")
	a.tokenFor(t, models.RoleStudent)

	w := a.do(t, http.MethodPost, "/api/v1/admin/auto-assign", map[string]any{"weekStart": monday}, kitchenToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = a.do(t, http.MethodPost, "/api/v1/admin/auto-assign", map[string]any{"weekStart": monday}, adminToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := decode[types.AutoAssignResult](t, w)
	assert.Equal(t, types.AutoAssignResult{WeekStart: monday, Students: 1, Assigned: 1}, result)

	w = a.do(t, http.MethodPost, "/api/v1/admin/auto-assign", map[string]any{"weekStart": "next week"}, adminToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// without a body the next week is assigned, which has no safe menus here
	w = a.do(t, http.MethodPost, "/api/v1/admin/auto-assign", nil, adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, decode[types.AutoAssignResult](t, w).Assigned)

	w = a.do(t, http.MethodGet, "/api/v1/kitchen/summary?date="+monday, nil, studentToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = a.do(t, http.MethodGet, "/api/v1/kitchen/summary?date="+monday, nil, kitchenToken)
	require.Equal(t, http.StatusOK, w.Code)
	summary := decode[types.KitchenSummary](t, w)
	assert.Equal(t, 1, summary.TotalStudents)
	require.Len(t, summary.Menus, 2)
	assert.Equal(t, models.MenuTypeDaily, summary.Menus[0].MenuType)
	assert.Zero(t, summary.Menus[0].Portions)
	assert.Equal(t, "Sop Ayam", summary.Menus[1].MenuName)
	assert.Equal(t, 1, summary.Menus[1].Portions)
	assert.Equal(t, []types.IngredientRequirement{
		{Ingredient: "ayam", Portions: 1},
		{Ingredient: "wortel", Portions: 1},
	}, summary.Menus[1].Ingredients)
}
