package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin   = "admin"
	RoleKitchen = "kitchen"
	RoleStudent = "student"
)

type User struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
	Name            string         `gorm:"not null" json:"name"`
	Email           string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash    string         `gorm:"not null" json:"-"`
	Role            string         `gorm:"size:20;not null;default:'student'" json:"role"`
	CustomAllergies string         `gorm:"type:text" json:"customAllergies"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// UserAllergen is an allergen tag declared by a user. The tag is free text and is not
// a reference to the allergens table; IsCustom marks tags with no matching reference
// allergen at the time they were saved.
type UserAllergen struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_allergen" json:"userId"`
	Allergen  string    `gorm:"size:100;not null;uniqueIndex:idx_user_allergen" json:"allergen"`
	IsCustom  bool      `gorm:"not null;default:false" json:"isCustom"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (UserAllergen) TableName() string {
	return "user_allergens"
}

func (a *UserAllergen) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
