package testhelpers

import (
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/makansehat/backend/internal/models"
)

const TestPassword = "testpassword123"

// CreateUser inserts a user with the given role, structured allergen tags and custom
// allergy text. The password is TestPassword.
func CreateUser(t *testing.T, db *gorm.DB, role string, allergens []string, customAllergies string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Name:            "Test " + role,
		Email:           uuid.NewString() + "@example.com",
		PasswordHash:    string(hash),
		Role:            role,
		CustomAllergies: customAllergies,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	for _, a := range allergens {
		if err := db.Create(&models.UserAllergen{UserID: user.ID, Allergen: a}).Error; err != nil {
			t.Fatalf("failed to create user allergen: %v", err)
		}
	}
	return user
}

// CreateMenu inserts a menu for date and menuType with a comma-joined ingredient list.
func CreateMenu(t *testing.T, db *gorm.DB, date, menuType, name, ingredients string) *models.Menu {
	t.Helper()

	menu := &models.Menu{
		Date:        date,
		MenuType:    menuType,
		Name:        name,
		Ingredients: ingredients,
	}
	if err := db.Create(menu).Error; err != nil {
		t.Fatalf("failed to create menu: %v", err)
	}
	return menu
}
