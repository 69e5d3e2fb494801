// Package seed loads the reference knowledge base: allergens, ingredients, their
// allergen mappings and the stored menu cases. Seeding is idempotent.
package seed

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/makansehat/backend/internal/models"
)

// Result counts the rows that exist after seeding.
type Result struct {
	Allergens   int
	Ingredients int
	Mappings    int
	MenuCases   int
}

// KnowledgeBase seeds the reference tables inside one transaction.
func KnowledgeBase(ctx context.Context, db *gorm.DB, log *zap.Logger) (*Result, error) {
	res := &Result{}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		allergenIDs := make(map[string]uuid.UUID, len(Allergens))
		for _, a := range Allergens {
			row := models.Allergen{Name: a.Name}
			if err := tx.Where(models.Allergen{Name: a.Name}).
				Attrs(models.Allergen{Description: a.Description}).
				FirstOrCreate(&row).Error; err != nil {
				return fmt.Errorf("failed to seed allergen %s: %w", a.Name, err)
			}
			allergenIDs[a.Name] = row.ID
		}
		res.Allergens = len(allergenIDs)

		ingredientIDs := make(map[string]uuid.UUID, len(Ingredients))
		for _, in := range Ingredients {
			row := models.Ingredient{Name: in.Name}
			if err := tx.Where(models.Ingredient{Name: in.Name}).
				Attrs(models.Ingredient{Category: in.Category, Synonyms: in.Synonyms}).
				FirstOrCreate(&row).Error; err != nil {
				return fmt.Errorf("failed to seed ingredient %s: %w", in.Name, err)
			}
			ingredientIDs[in.Name] = row.ID

			for _, name := range in.Allergens {
				allergenID, ok := allergenIDs[name]
				if !ok {
					return fmt.Errorf("ingredient %s references unknown allergen %s", in.Name, name)
				}
				link := models.IngredientAllergen{IngredientID: row.ID, AllergenID: allergenID}
				if err := tx.Where(&link).FirstOrCreate(&link).Error; err != nil {
					return fmt.Errorf("failed to link %s to %s: %w", in.Name, name, err)
				}
				res.Mappings++
			}
		}
		res.Ingredients = len(ingredientIDs)

		for _, mc := range MenuCases {
			baseID, ok := ingredientIDs[mc.Base]
			if !ok {
				return fmt.Errorf("menu case %s references unknown ingredient %s", mc.MenuName, mc.Base)
			}
			row := models.MenuCase{}
			if err := tx.Where(models.MenuCase{BaseIngredientID: baseID, MenuName: mc.MenuName}).
				Attrs(models.MenuCase{
					Description: mc.Description,
					Calories:    mc.Calories,
					Protein:     mc.Protein,
					Carbs:       mc.Carbs,
					Fat:         mc.Fat,
				}).
				FirstOrCreate(&row).Error; err != nil {
				return fmt.Errorf("failed to seed menu case %s: %w", mc.MenuName, err)
			}
			res.MenuCases++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("Seeded knowledge base",
		zap.Int("allergens", res.Allergens),
		zap.Int("ingredients", res.Ingredients),
		zap.Int("mappings", res.Mappings),
		zap.Int("menu_cases", res.MenuCases),
	)
	return res, nil
}

// DemoUser is an account created by the seed command for local testing.
type DemoUser struct {
	Name            string
	Email           string
	Role            string
	Allergens       []string
	CustomAllergies string
}

var DemoUsers = []DemoUser{
	{Name: "Admin Sekolah", Email: "admin@example.com", Role: models.RoleAdmin},
	{Name: "Dapur Sekolah", Email: "kitchen@example.com", Role: models.RoleKitchen},
	{Name: "Budi", Email: "budi@example.com", Role: models.RoleStudent, Allergens: []string{"peanut"}, CustomAllergies: "strawberry"},
	{Name: "Siti", Email: "siti@example.com", Role: models.RoleStudent},
}

// Users creates the demo accounts that do not exist yet, all with the same password.
func Users(ctx context.Context, db *gorm.DB, password string, log *zap.Logger) (int, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	created := 0
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, du := range DemoUsers {
			var count int64
			if err := tx.Model(&models.User{}).Where("email = ?", du.Email).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				log.Debug("Demo user already exists", zap.String("email", du.Email))
				continue
			}

			user := models.User{
				Name:            du.Name,
				Email:           du.Email,
				PasswordHash:    string(hash),
				Role:            du.Role,
				CustomAllergies: du.CustomAllergies,
			}
			if err := tx.Create(&user).Error; err != nil {
				return fmt.Errorf("failed to create user %s: %w", du.Email, err)
			}
			for _, a := range du.Allergens {
				if err := tx.Create(&models.UserAllergen{UserID: user.ID, Allergen: a}).Error; err != nil {
					return fmt.Errorf("failed to add allergen for %s: %w", du.Email, err)
				}
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}
