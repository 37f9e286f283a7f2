package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DefaultIngredientUnit = "gram"

// Ingredient is a catalog entry shared by every recipe that uses it
type Ingredient struct {
	ID          uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Unit        string    `gorm:"size:20;not null" json:"unit"`
	Category    string    `gorm:"size:50;index" json:"category"`
	CreatedAt   time.Time `json:"created_at"`
}

func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	assignID(&i.ID)
	if i.Unit == "" {
		i.Unit = DefaultIngredientUnit
	}
	return nil
}

// RecipeIngredient places an ingredient in a recipe with its amount
type RecipeIngredient struct {
	ID           uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	RecipeID     uuid.UUID `gorm:"type:varchar(36);not null;index" json:"recipe_id"`
	IngredientID uuid.UUID `gorm:"type:varchar(36);not null;index" json:"ingredient_id"`
	Quantity     float64   `json:"quantity"`
	Unit         string    `gorm:"size:20" json:"unit"`
	Notes        string    `gorm:"size:200" json:"notes"`
	Position     int       `gorm:"not null" json:"position"`

	Ingredient Ingredient `gorm:"foreignKey:IngredientID" json:"ingredient"`
}

func (ri *RecipeIngredient) BeforeCreate(tx *gorm.DB) error {
	assignID(&ri.ID)
	return nil
}
