package types

// ValidateIngredientRequest uses a pointer so a missing foodName can be told apart
// from an empty one.
type ValidateIngredientRequest struct {
	FoodName *string `json:"foodName"`
}

type ValidateBatchRequest struct {
	FoodNames []string `json:"foodNames"`
}

type CheckAllergenRequest struct {
	Ingredients []string `json:"ingredients"`
}

type FoodSafetyRequest struct {
	FoodName *string `json:"foodName"`
}

// FoodDescriptionRequest falls back to FoodName when FoodDescription is absent.
type FoodDescriptionRequest struct {
	FoodDescription *string `json:"foodDescription"`
	FoodName        *string `json:"foodName"`
}

type GenerateMenuRequest struct {
	BaseIngredient *string `json:"baseIngredient"`
	FoodName       *string `json:"foodName"`
	Limit          int     `json:"limit"`
}

type RegisterRequest struct {
	Name            string   `json:"name" validate:"required,max=100"`
	Email           string   `json:"email" validate:"required,email"`
	Password        string   `json:"password" validate:"required,min=8"`
	Role            string   `json:"role" validate:"omitempty,oneof=admin kitchen student"`
	Allergens       []string `json:"allergens" validate:"dive,max=100"`
	CustomAllergies string   `json:"customAllergies" validate:"max=500"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateAllergensRequest struct {
	Allergens       []string `json:"allergens" validate:"dive,max=100"`
	CustomAllergies *string  `json:"customAllergies" validate:"omitempty,max=500"`
}

type UpsertMenuRequest struct {
	Date        string   `json:"date" validate:"required,datetime=2006-01-02"`
	MenuType    string   `json:"menuType" validate:"required,oneof=daily safe"`
	Name        string   `json:"name" validate:"required,max=150"`
	Description string   `json:"description"`
	Ingredients []string `json:"ingredients" validate:"dive,max=100"`
	Calories    int      `json:"calories" validate:"gte=0"`
}

type MenuChoiceRequest struct {
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	MenuType string `json:"menuType" validate:"required,oneof=daily safe"`
}

type ImageUploadRequest struct {
	ContentType string `json:"contentType" validate:"required,oneof=image/jpeg image/png image/webp"`
}

type AutoAssignRequest struct {
	WeekStart string `json:"weekStart" validate:"omitempty,datetime=2006-01-02"`
}
