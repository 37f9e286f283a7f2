package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Favorite is an explicit bookmark of a recipe by a user
type Favorite struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_favorites_user_recipe" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_favorites_user_recipe;index" json:"recipe_id"`
	CreatedAt time.Time `json:"created_at"`

	Recipe Recipe `gorm:"foreignKey:RecipeID" json:"-"`
}

func (Favorite) TableName() string {
	return "recipe_favorites"
}

func (f *Favorite) BeforeCreate(tx *gorm.DB) error {
	assignID(&f.ID)
	return nil
}
