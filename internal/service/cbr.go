package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/makansehat/backend/internal/models"
	"github.com/makansehat/backend/internal/repository"
	"github.com/makansehat/backend/internal/types"
)

const (
	DefaultMenuLimit = 3
	MaxMenuLimit     = 10
)

// MenuCaseService retrieves stored menu cases for a base ingredient. It never
// creates menus.
type MenuCaseService struct {
	store       repository.KnowledgeStore
	ingredients *IngredientService
	intn        func(n int) int
}

func NewMenuCaseService(store repository.KnowledgeStore, ingredients *IngredientService) *MenuCaseService {
	return &MenuCaseService{
		store:       store,
		ingredients: ingredients,
		intn:        rand.IntN,
	}
}

// WithRandom replaces the source of random offsets used by Random.
func (s *MenuCaseService) WithRandom(intn func(n int) int) *MenuCaseService {
	s.intn = intn
	return s
}

// ClampMenuLimit applies the default for non-positive limits and the upper cap.
func ClampMenuLimit(limit int) int {
	if limit <= 0 {
		return DefaultMenuLimit
	}
	if limit > MaxMenuLimit {
		return MaxMenuLimit
	}
	return limit
}

// Retrieve returns up to limit cases of the resolved base ingredient, ordered by
// menu name. An unknown ingredient and an ingredient without cases are reported as
// unsuccessful results, not errors.
func (s *MenuCaseService) Retrieve(ctx context.Context, baseText string, limit int) (*types.CBRResult, error) {
	base, result, err := s.resolveBase(ctx, baseText)
	if err != nil || result != nil {
		return result, err
	}

	cases, err := s.store.MenuCasesByIngredient(ctx, base.ID, ClampMenuLimit(limit))
	if err != nil {
		return nil, err
	}
	return s.buildResult(ctx, base, cases)
}

// Random returns one case of the base ingredient chosen at a random offset.
func (s *MenuCaseService) Random(ctx context.Context, baseText string) (*types.CBRResult, error) {
	base, result, err := s.resolveBase(ctx, baseText)
	if err != nil || result != nil {
		return result, err
	}

	count, err := s.store.CountMenuCases(ctx, base.ID)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return s.buildResult(ctx, base, nil)
	}

	picked, err := s.store.MenuCaseAt(ctx, base.ID, s.intn(int(count)))
	if errors.Is(err, repository.ErrNotFound) {
		// cases changed between count and fetch
		return s.buildResult(ctx, base, nil)
	}
	if err != nil {
		return nil, err
	}
	return s.buildResult(ctx, base, []models.MenuCase{*picked})
}

// resolveBase returns either the resolved ingredient or a finished not-found result.
func (s *MenuCaseService) resolveBase(ctx context.Context, baseText string) (*models.Ingredient, *types.CBRResult, error) {
	base, err := s.ingredients.Resolve(ctx, baseText)
	if errors.Is(err, ErrIngredientNotFound) {
		return nil, &types.CBRResult{
			Success: false,
			Menus:   []types.MenuCaseView{},
			Message: fmt.Sprintf("Ingredient %q is not in the knowledge base", baseText),
			Error:   CodeIngredientNotFound,
		}, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return base, nil, nil
}

func (s *MenuCaseService) buildResult(ctx context.Context, base *models.Ingredient, cases []models.MenuCase) (*types.CBRResult, error) {
	detail, err := s.ingredients.Detail(ctx, base)
	if err != nil {
		return nil, err
	}

	if len(cases) == 0 {
		return &types.CBRResult{
			Success:        false,
			BaseIngredient: detail,
			Menus:          []types.MenuCaseView{},
			Message:        fmt.Sprintf("No stored menus for %s", base.Name),
			Error:          CodeNoCasesFound,
		}, nil
	}

	menus := make([]types.MenuCaseView, len(cases))
	for i, c := range cases {
		menus[i] = types.MenuCaseView{
			ID:          c.ID,
			MenuName:    c.MenuName,
			Description: c.Description,
			Calories:    c.Calories,
			Protein:     c.Protein,
			Carbs:       c.Carbs,
			Fat:         c.Fat,
			Allergens:   detail.Allergens,
		}
	}
	return &types.CBRResult{
		Success:        true,
		BaseIngredient: detail,
		Menus:          menus,
		Total:          len(menus),
		Message:        fmt.Sprintf("Found %d menu(s) for %s", len(menus), base.Name),
	}, nil
}
