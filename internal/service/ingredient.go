package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/makansehat/backend/internal/allergen"
	"github.com/makansehat/backend/internal/models"
	"github.com/makansehat/backend/internal/repository"
	"github.com/makansehat/backend/internal/types"
)

const (
	DefaultSearchLimit = 10
	MaxSearchLimit     = 50
)

// BatchItem is the resolution of one token of a batch.
type BatchItem struct {
	Input      string
	Ingredient *models.Ingredient
	Err        error
}

// BatchResult partitions a batch into resolved ingredients and unknown tokens.
// Validated holds each ingredient once; Unknown keeps input order.
type BatchResult struct {
	Items     []BatchItem
	Validated []models.Ingredient
	Unknown   []string
}

// IngredientService resolves free text against the ingredient knowledge base.
type IngredientService struct {
	store repository.KnowledgeStore
}

func NewIngredientService(store repository.KnowledgeStore) *IngredientService {
	return &IngredientService{store: store}
}

// Resolve matches text by exact ingredient name first, then by substring of an
// ingredient's synonym string.
func (s *IngredientService) Resolve(ctx context.Context, text string) (*models.Ingredient, error) {
	query := allergen.Normalize(text)
	if query == "" {
		return nil, ErrEmptyInput
	}

	ingredient, err := s.store.FindIngredientByName(ctx, query)
	if err == nil {
		return ingredient, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	ingredient, err = s.store.FindIngredientBySynonym(ctx, query)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrIngredientNotFound, query)
	}
	if err != nil {
		return nil, err
	}
	return ingredient, nil
}

// ResolveBatch splits each text on commas and newlines and resolves every token on
// its own. Only internal errors abort the batch.
func (s *IngredientService) ResolveBatch(ctx context.Context, texts ...string) (*BatchResult, error) {
	result := &BatchResult{
		Items:     []BatchItem{},
		Validated: []models.Ingredient{},
		Unknown:   []string{},
	}
	seen := make(map[uuid.UUID]struct{})

	for _, text := range texts {
		for _, token := range allergen.SplitTokens(text) {
			ingredient, err := s.Resolve(ctx, token)
			if err != nil && !errors.Is(err, ErrIngredientNotFound) {
				return nil, err
			}
			result.Items = append(result.Items, BatchItem{Input: token, Ingredient: ingredient, Err: err})

			if ingredient == nil {
				result.Unknown = append(result.Unknown, token)
				continue
			}
			if _, ok := seen[ingredient.ID]; ok {
				continue
			}
			seen[ingredient.ID] = struct{}{}
			result.Validated = append(result.Validated, *ingredient)
		}
	}
	return result, nil
}

// Details attaches allergen names to each ingredient, keeping input order.
func (s *IngredientService) Details(ctx context.Context, ingredients []models.Ingredient) ([]types.IngredientDetail, error) {
	ids := make([]uuid.UUID, len(ingredients))
	for i, in := range ingredients {
		ids[i] = in.ID
	}
	byID, err := s.store.AllergensByIngredient(ctx, ids)
	if err != nil {
		return nil, err
	}

	details := make([]types.IngredientDetail, len(ingredients))
	for i, in := range ingredients {
		names := byID[in.ID]
		if names == nil {
			names = []string{}
		}
		details[i] = types.IngredientDetail{Ingredient: in, Allergens: names}
	}
	return details, nil
}

// Detail is Details for a single ingredient.
func (s *IngredientService) Detail(ctx context.Context, ingredient *models.Ingredient) (*types.IngredientDetail, error) {
	details, err := s.Details(ctx, []models.Ingredient{*ingredient})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// Aggregate returns the sorted union of the allergens of all ingredients.
func (s *IngredientService) Aggregate(ctx context.Context, ingredients []models.Ingredient) ([]string, error) {
	details, err := s.Details(ctx, ingredients)
	if err != nil {
		return nil, err
	}
	return mergeAllergens(details), nil
}

func mergeAllergens(details []types.IngredientDetail) []string {
	lists := make([][]string, len(details))
	for i, d := range details {
		lists[i] = d.Allergens
	}
	return allergen.Merge(lists...)
}

// List returns every ingredient with its allergens, ordered by name.
func (s *IngredientService) List(ctx context.Context) ([]types.IngredientDetail, error) {
	ingredients, err := s.store.ListIngredients(ctx)
	if err != nil {
		return nil, err
	}
	return s.Details(ctx, ingredients)
}

// Search finds ingredients whose name or synonyms contain keyword.
func (s *IngredientService) Search(ctx context.Context, keyword string, limit int) ([]types.IngredientDetail, error) {
	keyword = allergen.Normalize(keyword)
	if keyword == "" {
		return nil, ErrEmptyInput
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}

	ingredients, err := s.store.SearchIngredients(ctx, keyword, limit)
	if err != nil {
		return nil, err
	}
	return s.Details(ctx, ingredients)
}

// Stats reports the size of the knowledge base.
func (s *IngredientService) Stats(ctx context.Context) (*repository.KnowledgeStats, error) {
	return s.store.Stats(ctx)
}

// ReferenceAllergens lists the reference allergen table.
func (s *IngredientService) ReferenceAllergens(ctx context.Context) ([]models.Allergen, error) {
	return s.store.ListAllergens(ctx)
}
