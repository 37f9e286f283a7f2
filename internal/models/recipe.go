package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Difficulty grades how demanding a recipe is
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Valid reports whether d is a known difficulty
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

const DefaultServings = 4

type Recipe struct {
	ID                 uuid.UUID  `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title              string     `gorm:"size:200;not null" json:"title"`
	Slug               string     `gorm:"size:220;not null;uniqueIndex" json:"slug"`
	Description        string     `gorm:"type:text" json:"description"`
	Instructions       string     `gorm:"type:text;not null" json:"instructions"`
	PrepTime           int        `json:"prep_time"`
	CookTime           int        `json:"cook_time"`
	TotalTime          int        `json:"total_time"`
	Servings           int        `gorm:"not null" json:"servings"`
	Difficulty         Difficulty `gorm:"size:20;not null" json:"difficulty"`
	ImageURL           string     `gorm:"size:500" json:"image_url"`
	CaloriesPerServing *int       `json:"calories_per_serving,omitempty"`
	ProteinGrams       *float64   `json:"protein_grams,omitempty"`
	IsPublished        bool       `gorm:"not null;index" json:"is_published"`
	IsFeatured         bool       `gorm:"not null;index" json:"is_featured"`
	ViewCount          int        `gorm:"not null" json:"view_count"`
	LikeCount          int        `gorm:"not null" json:"like_count"`
	AverageRating      float64    `gorm:"not null" json:"average_rating"`
	RatingCount        int        `gorm:"not null" json:"rating_count"`
	UserID             uuid.UUID  `gorm:"type:varchar(36);not null;index" json:"user_id"`
	CategoryID         *uuid.UUID `gorm:"type:varchar(36);index" json:"category_id,omitempty"`
	CreatedAt          time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`

	Author      User               `gorm:"foreignKey:UserID" json:"author"`
	Category    *Category          `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Categories  []Category         `gorm:"many2many:recipe_categories;" json:"categories"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID" json:"ingredients"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	assignID(&r.ID)
	if r.Servings == 0 {
		r.Servings = DefaultServings
	}
	if r.Difficulty == "" {
		r.Difficulty = DifficultyMedium
	}
	if r.TotalTime == 0 {
		r.TotalTime = r.PrepTime + r.CookTime
	}
	return nil
}

// OwnedBy reports whether userID authored the recipe
func (r *Recipe) OwnedBy(userID uuid.UUID) bool {
	return r.UserID == userID
}
