package service

import (
	"testing"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/makansehat/backend/internal/repository"
	"github.com/makansehat/backend/internal/testhelpers"
)

type testEnv struct {
	db          *gorm.DB
	ingredients *IngredientService
	profiles    *ProfileService
	allergens   *AllergenService
	cases       *MenuCaseService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testhelpers.SetupTestDatabase(t)
	store := repository.NewKnowledgeRepository(db)
	ingredients := NewIngredientService(store)
	profiles := NewProfileService(db)

	return &testEnv{
		db:          db,
		ingredients: ingredients,
		profiles:    profiles,
		allergens:   NewAllergenService(store, ingredients, profiles, zap.NewNop()),
		cases:       NewMenuCaseService(store, ingredients),
	}
}
