package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MinRatingScore = 1
	MaxRatingScore = 5

	// FavoriteScore is the lowest score that marks a recipe as a favorite
	FavoriteScore = 4
)

type Rating struct {
	ID           uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_ratings_user_recipe" json:"user_id"`
	RecipeID     uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_ratings_user_recipe;index" json:"recipe_id"`
	Score        int       `gorm:"not null;check:chk_ratings_score,score >= 1 AND score <= 5" json:"rating"`
	Review       string    `gorm:"type:text" json:"review"`
	IsVerified   bool      `gorm:"not null" json:"is_verified"`
	HelpfulCount int       `gorm:"not null" json:"helpful_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"user"`
}

func (r *Rating) BeforeCreate(tx *gorm.DB) error {
	assignID(&r.ID)
	return nil
}

// RatingHelpful is one user's vote on whether a review helped
type RatingHelpful struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_helpful_user_rating" json:"user_id"`
	RatingID  uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_helpful_user_rating;index" json:"rating_id"`
	IsHelpful bool      `gorm:"not null" json:"is_helpful"`
	CreatedAt time.Time `json:"created_at"`
}

func (RatingHelpful) TableName() string {
	return "rating_helpful_votes"
}

func (h *RatingHelpful) BeforeCreate(tx *gorm.DB) error {
	assignID(&h.ID)
	return nil
}
