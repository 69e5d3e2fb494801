package types

import (
	"github.com/google/uuid"

	"github.com/makansehat/backend/internal/models"
)

// IngredientDetail is an ingredient together with the allergens it contains.
type IngredientDetail struct {
	models.Ingredient
	Allergens []string `json:"allergens"`
}

// ValidationResult is the outcome of validating one ingredient name.
type ValidationResult struct {
	Input      string            `json:"input,omitempty"`
	Valid      bool              `json:"valid"`
	Ingredient *IngredientDetail `json:"ingredient,omitempty"`
	Error      string            `json:"error,omitempty"`
	Message    string            `json:"message"`
}

type BatchSummary struct {
	Total                int `json:"total"`
	Valid                int `json:"valid"`
	Invalid              int `json:"invalid"`
	ValidationPercentage int `json:"validationPercentage"`
}

type BatchValidationResponse struct {
	Validations []ValidationResult `json:"validations"`
	Summary     BatchSummary       `json:"summary"`
}

// IngredientAllergens is one row of a per-ingredient allergen breakdown.
type IngredientAllergens struct {
	Ingredient string   `json:"ingredient"`
	Allergens  []string `json:"allergens"`
}

// AllergenCheckResult is returned by every allergen check. The personalized fields
// are only set when the request carried a user.
type AllergenCheckResult struct {
	Success             bool                  `json:"success"`
	Ingredients         []IngredientDetail    `json:"ingredients"`
	UnknownIngredients  []string              `json:"unknownIngredients"`
	DetectedIngredients []string              `json:"detectedIngredients,omitempty"`
	Breakdown           []IngredientAllergens `json:"breakdown,omitempty"`
	Allergens           []string              `json:"allergens"`
	HasAllergens        bool                  `json:"hasAllergens"`
	Personalized        bool                  `json:"personalized"`
	IsSafe              *bool                 `json:"isSafe,omitempty"`
	MatchedAllergens    []string              `json:"matchedAllergens,omitempty"`
	UserAllergens       []string              `json:"userAllergens,omitempty"`
	Message             string                `json:"message"`
}

// MenuCaseView is a stored menu case annotated with its allergens.
type MenuCaseView struct {
	ID          uuid.UUID `json:"id"`
	MenuName    string    `json:"menuName"`
	Description string    `json:"description"`
	Calories    int       `json:"calories"`
	Protein     string    `json:"protein"`
	Carbs       string    `json:"carbs"`
	Fat         string    `json:"fat"`
	Allergens   []string  `json:"allergens"`
}

// CBRResult is the outcome of a menu case retrieval.
type CBRResult struct {
	Success        bool              `json:"success"`
	BaseIngredient *IngredientDetail `json:"baseIngredient,omitempty"`
	Menus          []MenuCaseView    `json:"menus"`
	Total          int               `json:"total"`
	Message        string            `json:"message"`
	Error          string            `json:"error,omitempty"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}
