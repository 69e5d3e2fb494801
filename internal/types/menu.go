package types

import (
	"github.com/makansehat/backend/internal/models"
)

// MenuView is a menu with the allergens detected in its ingredient list.
type MenuView struct {
	models.Menu
	IngredientList     []string `json:"ingredientList"`
	Allergens          []string `json:"allergens"`
	UnknownIngredients []string `json:"unknownIngredients"`
	ImageURL           string   `json:"imageUrl,omitempty"`
}

type MenuDay struct {
	Date    string    `json:"date"`
	Weekday string    `json:"weekday"`
	Daily   *MenuView `json:"daily"`
	Safe    *MenuView `json:"safe"`
}

type WeekMenus struct {
	Start string    `json:"start"`
	Days  []MenuDay `json:"days"`
}

// ChoiceDay is a student's choice for one day, checked against their allergens.
type ChoiceDay struct {
	Date             string    `json:"date"`
	MenuType         string    `json:"menuType,omitempty"`
	AutoAssigned     bool      `json:"autoAssigned"`
	Menu             *MenuView `json:"menu,omitempty"`
	IsSafe           *bool     `json:"isSafe,omitempty"`
	MatchedAllergens []string  `json:"matchedAllergens,omitempty"`
}

type ChoiceWeek struct {
	Start         string      `json:"start"`
	UserAllergens []string    `json:"userAllergens"`
	Days          []ChoiceDay `json:"days"`
}

type IngredientRequirement struct {
	Ingredient string `json:"ingredient"`
	Portions   int    `json:"portions"`
}

type KitchenMenuSummary struct {
	MenuType           string                  `json:"menuType"`
	MenuName           string                  `json:"menuName"`
	Portions           int                     `json:"portions"`
	Ingredients        []IngredientRequirement `json:"ingredients"`
	UnknownIngredients []string                `json:"unknownIngredients"`
}

type KitchenSummary struct {
	Date          string               `json:"date"`
	TotalStudents int                  `json:"totalStudents"`
	Menus         []KitchenMenuSummary `json:"menus"`
}

type AutoAssignResult struct {
	WeekStart string `json:"weekStart"`
	Students  int    `json:"students"`
	Assigned  int    `json:"assigned"`
}

type ImageUploadResponse struct {
	UploadURL string `json:"uploadUrl"`
	ImageKey  string `json:"imageKey"`
	ExpiresIn int    `json:"expiresIn"`
}

type ProfileAllergen struct {
	Allergen string `json:"allergen"`
	IsCustom bool   `json:"isCustom"`
}

type ProfileAllergens struct {
	Allergens       []ProfileAllergen `json:"allergens"`
	CustomAllergies string            `json:"customAllergies"`
	Effective       []string          `json:"effective"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}
