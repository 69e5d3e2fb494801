package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Allergen is a reference allergen category such as "soy" or "dairy".
type Allergen struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Allergen) TableName() string {
	return "allergens"
}

func (a *Allergen) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Ingredient is a raw food item. Synonyms is a comma-joined list of lowercase aliases.
type Ingredient struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Category  string    `gorm:"size:50;not null" json:"category"`
	Synonyms  string    `gorm:"type:text" json:"synonyms"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Ingredient) TableName() string {
	return "ingredients"
}

func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// IngredientAllergen links an ingredient to an allergen it contains.
type IngredientAllergen struct {
	IngredientID uuid.UUID `gorm:"type:uuid;primaryKey" json:"ingredientId"`
	AllergenID   uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"allergenId"`
}

func (IngredientAllergen) TableName() string {
	return "ingredient_allergens"
}

// MenuCase is a stored recipe for one base ingredient. Cases are seeded and only
// ever read at runtime.
type MenuCase struct {
	ID               uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	BaseIngredientID uuid.UUID   `gorm:"type:uuid;not null;index" json:"baseIngredientId"`
	BaseIngredient   *Ingredient `gorm:"foreignKey:BaseIngredientID" json:"-"`
	MenuName         string      `gorm:"size:150;not null" json:"menuName"`
	Description      string      `gorm:"type:text" json:"description"`
	Calories         int         `gorm:"not null;default:0" json:"calories"`
	Protein          string      `gorm:"size:20" json:"protein"`
	Carbs            string      `gorm:"size:20" json:"carbs"`
	Fat              string      `gorm:"size:20" json:"fat"`
	CreatedAt        time.Time   `json:"createdAt"`
	UpdatedAt        time.Time   `json:"updatedAt"`
}

func (MenuCase) TableName() string {
	return "menu_cases"
}

func (m *MenuCase) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
