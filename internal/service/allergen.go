package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/makansehat/backend/internal/allergen"
	"github.com/makansehat/backend/internal/models"
	"github.com/makansehat/backend/internal/repository"
	"github.com/makansehat/backend/internal/types"
)

// UserAllergenLoader supplies a user's effective allergen list.
type UserAllergenLoader interface {
	LoadUserAllergens(ctx context.Context, userID uuid.UUID) ([]string, error)
}

// AllergenService answers allergen questions about ingredient lists and free-text
// food descriptions, personalized when a user is known.
type AllergenService struct {
	store       repository.KnowledgeStore
	ingredients *IngredientService
	profiles    UserAllergenLoader
	log         *zap.Logger
}

func NewAllergenService(store repository.KnowledgeStore, ingredients *IngredientService, profiles UserAllergenLoader, log *zap.Logger) *AllergenService {
	return &AllergenService{
		store:       store,
		ingredients: ingredients,
		profiles:    profiles,
		log:         log,
	}
}

// CheckIngredients resolves every entry (each split on commas and newlines) and
// reports the merged allergens of the resolved ingredients.
func (s *AllergenService) CheckIngredients(ctx context.Context, names []string, userID *uuid.UUID) (*types.AllergenCheckResult, error) {
	batch, err := s.ingredients.ResolveBatch(ctx, names...)
	if err != nil {
		return nil, err
	}
	if len(batch.Items) == 0 {
		return nil, ErrEmptyInput
	}

	details, err := s.ingredients.Details(ctx, batch.Validated)
	if err != nil {
		return nil, err
	}

	result := newCheckResult(details)
	result.UnknownIngredients = batch.Unknown
	if err := s.personalize(ctx, result, userID); err != nil {
		return nil, err
	}
	result.Message = checkMessage(result)
	return result, nil
}

// CheckFoodSafety treats foodName as a comma or newline separated ingredient list.
func (s *AllergenService) CheckFoodSafety(ctx context.Context, foodName string, userID *uuid.UUID) (*types.AllergenCheckResult, error) {
	return s.CheckIngredients(ctx, []string{foodName}, userID)
}

// DetectInText scans a free-text description for every knowledge-base ingredient
// mentioned by name or alias.
func (s *AllergenService) DetectInText(ctx context.Context, description string, userID *uuid.UUID) (*types.AllergenCheckResult, error) {
	text := allergen.Normalize(description)
	if text == "" {
		return nil, ErrEmptyInput
	}

	all, err := s.store.ListIngredients(ctx)
	if err != nil {
		return nil, err
	}
	var found []models.Ingredient
	for _, in := range all {
		if allergen.Mentions(text, in.Name, in.Synonyms) {
			found = append(found, in)
		}
	}

	details, err := s.ingredients.Details(ctx, found)
	if err != nil {
		return nil, err
	}

	result := newCheckResult(details)
	result.UnknownIngredients = []string{}
	result.DetectedIngredients = make([]string, len(details))
	for i, d := range details {
		result.DetectedIngredients[i] = d.Name
	}
	if err := s.personalize(ctx, result, userID); err != nil {
		return nil, err
	}
	result.Message = checkMessage(result)
	return result, nil
}

// AnalyzeFood is DetectInText with a per-ingredient allergen breakdown.
func (s *AllergenService) AnalyzeFood(ctx context.Context, description string, userID *uuid.UUID) (*types.AllergenCheckResult, error) {
	result, err := s.DetectInText(ctx, description, userID)
	if err != nil {
		return nil, err
	}
	result.Breakdown = make([]types.IngredientAllergens, len(result.Ingredients))
	for i, d := range result.Ingredients {
		result.Breakdown[i] = types.IngredientAllergens{Ingredient: d.Name, Allergens: d.Allergens}
	}
	return result, nil
}

func newCheckResult(details []types.IngredientDetail) *types.AllergenCheckResult {
	allergens := mergeAllergens(details)
	return &types.AllergenCheckResult{
		Success:      len(details) > 0,
		Ingredients:  details,
		Allergens:    allergens,
		HasAllergens: len(allergens) > 0,
	}
}

// personalize compares the result with the user's allergens. A token for a user that
// no longer exists leaves the result generic.
func (s *AllergenService) personalize(ctx context.Context, result *types.AllergenCheckResult, userID *uuid.UUID) error {
	if userID == nil || s.profiles == nil {
		return nil
	}
	userAllergens, err := s.profiles.LoadUserAllergens(ctx, *userID)
	if errors.Is(err, ErrUserNotFound) {
		s.log.Warn("Allergen check for unknown user", zap.String("user_id", userID.String()))
		return nil
	}
	if err != nil {
		return err
	}

	matched := allergen.MatchesAllergy(result.Allergens, userAllergens)
	safe := allergen.IsSafe(matched)
	result.Personalized = true
	result.IsSafe = &safe
	result.MatchedAllergens = matched
	result.UserAllergens = userAllergens
	return nil
}

func checkMessage(r *types.AllergenCheckResult) string {
	var msg string
	switch {
	case len(r.Ingredients) == 0:
		msg = "No known ingredients found"
	case r.HasAllergens:
		msg = fmt.Sprintf("Contains allergens: %s", strings.Join(r.Allergens, ", "))
	default:
		msg = "No allergens detected"
	}
	if r.Personalized {
		if *r.IsSafe {
			msg += ". Safe for you"
		} else {
			msg += fmt.Sprintf(". Not safe for you: %s", strings.Join(r.MatchedAllergens, ", "))
		}
	}
	return msg
}
