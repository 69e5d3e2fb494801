package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/makansehat/backend/internal/allergen"
	"github.com/makansehat/backend/internal/models"
	"github.com/makansehat/backend/internal/types"
)

// ProfileService manages a user's declared allergens
type ProfileService struct {
	db       *gorm.DB
	validate *validator.Validate
}

// NewProfileService creates a new ProfileService instance
func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{
		db:       db,
		validate: newValidator(),
	}
}

func (s *ProfileService) getUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

func (s *ProfileService) userAllergenRows(ctx context.Context, userID uuid.UUID) ([]models.UserAllergen, error) {
	var rows []models.UserAllergen
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at ASC, allergen ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load user allergens: %w", err)
	}
	return rows, nil
}

// LoadUserAllergens returns the user's structured allergen tags followed by the
// entries of their custom allergy field, lowercased and without repeats.
func (s *ProfileService) LoadUserAllergens(ctx context.Context, userID uuid.UUID) ([]string, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	rows, err := s.userAllergenRows(ctx, userID)
	if err != nil {
		return nil, err
	}

	structured := make([]string, len(rows))
	for i, r := range rows {
		structured[i] = r.Allergen
	}
	return allergen.Profile(structured, user.CustomAllergies), nil
}

// GetAllergens returns the stored allergen profile of a user.
func (s *ProfileService) GetAllergens(ctx context.Context, userID uuid.UUID) (*types.ProfileAllergens, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	rows, err := s.userAllergenRows(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := &types.ProfileAllergens{
		Allergens:       make([]types.ProfileAllergen, len(rows)),
		CustomAllergies: user.CustomAllergies,
	}
	structured := make([]string, len(rows))
	for i, r := range rows {
		profile.Allergens[i] = types.ProfileAllergen{Allergen: r.Allergen, IsCustom: r.IsCustom}
		structured[i] = r.Allergen
	}
	profile.Effective = allergen.Profile(structured, user.CustomAllergies)
	return profile, nil
}

// UpdateAllergens replaces the user's structured allergen tags and, when given, the
// custom allergy field. Tags are not required to exist in the reference table.
func (s *ProfileService) UpdateAllergens(ctx context.Context, userID uuid.UUID, req *types.UpdateAllergensRequest) (*types.ProfileAllergens, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, invalidInput(err)
	}
	if _, err := s.getUser(ctx, userID); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.UserAllergen{}).Error; err != nil {
			return fmt.Errorf("failed to clear user allergens: %w", err)
		}
		if err := replaceUserAllergens(tx, userID, req.Allergens); err != nil {
			return err
		}
		if req.CustomAllergies != nil {
			if err := tx.Model(&models.User{}).Where("id = ?", userID).
				Update("custom_allergies", strings.TrimSpace(*req.CustomAllergies)).Error; err != nil {
				return fmt.Errorf("failed to update custom allergies: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetAllergens(ctx, userID)
}

// replaceUserAllergens inserts the normalized tags, flagging the ones that are not
// reference allergens as custom.
func replaceUserAllergens(tx *gorm.DB, userID uuid.UUID, tags []string) error {
	tags = allergen.Dedupe(tags)
	if len(tags) == 0 {
		return nil
	}

	var known []string
	if err := tx.Model(&models.Allergen{}).Where("name IN ?", tags).Pluck("name", &known).Error; err != nil {
		return fmt.Errorf("failed to look up reference allergens: %w", err)
	}
	isKnown := make(map[string]bool, len(known))
	for _, k := range known {
		isKnown[k] = true
	}

	rows := make([]models.UserAllergen, len(tags))
	for i, tag := range tags {
		rows[i] = models.UserAllergen{UserID: userID, Allergen: tag, IsCustom: !isKnown[tag]}
	}
	if err := tx.Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to save user allergens: %w", err)
	}
	return nil
}
