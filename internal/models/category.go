package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category is a taxonomy node; recipes belong to many categories
type Category struct {
	ID          uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Slug        string    `gorm:"size:120;not null;uniqueIndex" json:"slug"`
	Description string    `gorm:"type:text" json:"description"`
	Icon        string    `gorm:"size:50" json:"icon"`
	Color       string    `gorm:"size:20" json:"color"`
	ImageURL    string    `gorm:"size:500" json:"image_url"`
	IsActive    bool      `gorm:"not null" json:"is_active"`
	IsFeatured  bool      `gorm:"not null" json:"is_featured"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Recipes []Recipe `gorm:"many2many:recipe_categories;" json:"-"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	assignID(&c.ID)
	return nil
}

// RecipeCategory is the join row between recipes and categories
type RecipeCategory struct {
	RecipeID   uuid.UUID `gorm:"type:varchar(36);primaryKey"`
	CategoryID uuid.UUID `gorm:"type:varchar(36);primaryKey;index"`
	CreatedAt  time.Time
}

func (RecipeCategory) TableName() string {
	return "recipe_categories"
}
