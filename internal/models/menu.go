package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MenuTypeDaily = "daily"
	MenuTypeSafe  = "safe"
)

// DateLayout is the layout of the Date columns below.
const DateLayout = "2006-01-02"

// Menu is the lunch served on one school day for one menu type. Ingredients is a
// comma-joined list of free-text ingredient names.
type Menu struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Date        string    `gorm:"size:10;not null;uniqueIndex:idx_menu_date_type" json:"date"`
	MenuType    string    `gorm:"size:10;not null;uniqueIndex:idx_menu_date_type" json:"menuType"`
	Name        string    `gorm:"size:150;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Ingredients string    `gorm:"type:text" json:"ingredients"`
	Calories    int       `gorm:"not null;default:0" json:"calories"`
	ImageKey    string    `gorm:"size:255" json:"imageKey,omitempty"`
}

func (Menu) TableName() string {
	return "menus"
}

func (m *Menu) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// MenuChoice records which menu type a student eats on a given day.
type MenuChoice struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_choice_user_date" json:"userId"`
	Date         string    `gorm:"size:10;not null;uniqueIndex:idx_choice_user_date;index" json:"date"`
	MenuType     string    `gorm:"size:10;not null" json:"menuType"`
	AutoAssigned bool      `gorm:"not null;default:false" json:"autoAssigned"`
}

func (MenuChoice) TableName() string {
	return "menu_choices"
}

func (m *MenuChoice) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
