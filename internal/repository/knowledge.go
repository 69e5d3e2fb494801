package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/makansehat/backend/internal/models"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

// KnowledgeStats summarizes the size of the knowledge base.
type KnowledgeStats struct {
	Ingredients        int64            `json:"ingredients"`
	Allergens          int64            `json:"allergens"`
	Mappings           int64            `json:"mappings"`
	MenuCases          int64            `json:"menuCases"`
	CasesPerIngredient map[string]int64 `json:"casesPerIngredient"`
}

// KnowledgeStore is the read-only view of the ingredient knowledge base.
type KnowledgeStore interface {
	FindIngredientByName(ctx context.Context, name string) (*models.Ingredient, error)
	FindIngredientBySynonym(ctx context.Context, text string) (*models.Ingredient, error)
	ListIngredients(ctx context.Context) ([]models.Ingredient, error)
	SearchIngredients(ctx context.Context, keyword string, limit int) ([]models.Ingredient, error)
	AllergensByIngredient(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]string, error)
	ListAllergens(ctx context.Context) ([]models.Allergen, error)
	MenuCasesByIngredient(ctx context.Context, ingredientID uuid.UUID, limit int) ([]models.MenuCase, error)
	CountMenuCases(ctx context.Context, ingredientID uuid.UUID) (int64, error)
	MenuCaseAt(ctx context.Context, ingredientID uuid.UUID, offset int) (*models.MenuCase, error)
	Stats(ctx context.Context) (*KnowledgeStats, error)
}

// KnowledgeRepository implements KnowledgeStore on gorm.
type KnowledgeRepository struct {
	db *gorm.DB
}

var _ KnowledgeStore = (*KnowledgeRepository)(nil)

func NewKnowledgeRepository(db *gorm.DB) *KnowledgeRepository {
	return &KnowledgeRepository{db: db}
}

// containsExpr builds a substring test on a lowercased column. LIKE is avoided so
// that '%' and '_' in user text are matched literally.
func (r *KnowledgeRepository) containsExpr(column string) string {
	if r.db.Dialector.Name() == "postgres" {
		return fmt.Sprintf("strpos(LOWER(%s), ?) > 0", column)
	}
	return fmt.Sprintf("instr(LOWER(%s), ?) > 0", column)
}

func (r *KnowledgeRepository) FindIngredientByName(ctx context.Context, name string) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&ingredient).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find ingredient by name: %w", err)
	}
	return &ingredient, nil
}

// FindIngredientBySynonym returns the first ingredient, by name, whose synonym string
// contains text.
func (r *KnowledgeRepository) FindIngredientBySynonym(ctx context.Context, text string) (*models.Ingredient, error) {
	var ingredients []models.Ingredient
	err := r.db.WithContext(ctx).
		Where("synonyms IS NOT NULL AND synonyms <> ''").
		Where(r.containsExpr("synonyms"), text).
		Order("name ASC").
		Limit(1).
		Find(&ingredients).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find ingredient by synonym: %w", err)
	}
	if len(ingredients) == 0 {
		return nil, ErrNotFound
	}
	return &ingredients[0], nil
}

func (r *KnowledgeRepository) ListIngredients(ctx context.Context) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	return ingredients, nil
}

func (r *KnowledgeRepository) SearchIngredients(ctx context.Context, keyword string, limit int) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	err := r.db.WithContext(ctx).
		Where(r.containsExpr("name")+" OR "+r.containsExpr("COALESCE(synonyms, '')"), keyword, keyword).
		Order("name ASC").
		Limit(limit).
		Find(&ingredients).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search ingredients: %w", err)
	}
	return ingredients, nil
}

// AllergensByIngredient returns the allergen names linked to each ingredient id,
// sorted by name. Ingredients without allergens are absent from the map.
func (r *KnowledgeRepository) AllergensByIngredient(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]string, error) {
	result := make(map[uuid.UUID][]string, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var rows []struct {
		IngredientID uuid.UUID
		Name         string
	}
	err := r.db.WithContext(ctx).
		Table("ingredient_allergens").
		Select("ingredient_allergens.ingredient_id AS ingredient_id, allergens.name AS name").
		Joins("JOIN allergens ON allergens.id = ingredient_allergens.allergen_id").
		Where("ingredient_allergens.ingredient_id IN ?", ids).
		Order("allergens.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load ingredient allergens: %w", err)
	}

	for _, row := range rows {
		result[row.IngredientID] = append(result[row.IngredientID], row.Name)
	}
	return result, nil
}

func (r *KnowledgeRepository) ListAllergens(ctx context.Context) ([]models.Allergen, error) {
	var allergens []models.Allergen
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&allergens).Error; err != nil {
		return nil, fmt.Errorf("failed to list allergens: %w", err)
	}
	return allergens, nil
}

func (r *KnowledgeRepository) MenuCasesByIngredient(ctx context.Context, ingredientID uuid.UUID, limit int) ([]models.MenuCase, error) {
	var cases []models.MenuCase
	err := r.db.WithContext(ctx).
		Where("base_ingredient_id = ?", ingredientID).
		Order("menu_name ASC").
		Limit(limit).
		Find(&cases).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load menu cases: %w", err)
	}
	return cases, nil
}

func (r *KnowledgeRepository) CountMenuCases(ctx context.Context, ingredientID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.MenuCase{}).Where("base_ingredient_id = ?", ingredientID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count menu cases: %w", err)
	}
	return count, nil
}

// MenuCaseAt returns the case at offset within the ingredient's cases ordered by name.
func (r *KnowledgeRepository) MenuCaseAt(ctx context.Context, ingredientID uuid.UUID, offset int) (*models.MenuCase, error) {
	var cases []models.MenuCase
	err := r.db.WithContext(ctx).
		Where("base_ingredient_id = ?", ingredientID).
		Order("menu_name ASC").
		Offset(offset).
		Limit(1).
		Find(&cases).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load menu case: %w", err)
	}
	if len(cases) == 0 {
		return nil, ErrNotFound
	}
	return &cases[0], nil
}

func (r *KnowledgeRepository) Stats(ctx context.Context) (*KnowledgeStats, error) {
	stats := &KnowledgeStats{CasesPerIngredient: make(map[string]int64)}
	db := r.db.WithContext(ctx)

	if err := db.Model(&models.Ingredient{}).Count(&stats.Ingredients).Error; err != nil {
		return nil, fmt.Errorf("failed to count ingredients: %w", err)
	}
	if err := db.Model(&models.Allergen{}).Count(&stats.Allergens).Error; err != nil {
		return nil, fmt.Errorf("failed to count allergens: %w", err)
	}
	if err := db.Model(&models.IngredientAllergen{}).Count(&stats.Mappings).Error; err != nil {
		return nil, fmt.Errorf("failed to count ingredient allergens: %w", err)
	}
	if err := db.Model(&models.MenuCase{}).Count(&stats.MenuCases).Error; err != nil {
		return nil, fmt.Errorf("failed to count menu cases: %w", err)
	}

	var rows []struct {
		Name  string
		Total int64
	}
	err := db.Table("menu_cases").
		Select("ingredients.name AS name, COUNT(*) AS total").
		Joins("JOIN ingredients ON ingredients.id = menu_cases.base_ingredient_id").
		Group("ingredients.name").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to group menu cases: %w", err)
	}
	for _, row := range rows {
		stats.CasesPerIngredient[row.Name] = row.Total
	}
	return stats, nil
}
