package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cookeasy/backend/internal/cache"
	"github.com/cookeasy/backend/internal/models"
	"github.com/cookeasy/backend/internal/types"
)

const (
	DefaultRatingsPerPage = 20
	MaxRatingsPerPage     = 50
)

// RatingService manages recipe ratings, reviews and helpful votes
type RatingService struct {
	db    *gorm.DB
	cache *cache.Cache
}

var _ IRatingService = (*RatingService)(nil)

func NewRatingService(db *gorm.DB, c *cache.Cache) *RatingService {
	return &RatingService{db: db, cache: c}
}

// RateRecipe creates the caller's rating or updates it in place.
// created is true when a new row was inserted.
func (s *RatingService) RateRecipe(ctx context.Context, userID, recipeID uuid.UUID, req *types.RateRecipeRequest) (*models.Rating, bool, error) {
	score, err := parseScore(req.Rating)
	if err != nil {
		return nil, false, err
	}

	var (
		rating  models.Rating
		created bool
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requirePublishedRecipe(tx, recipeID); err != nil {
			return err
		}

		err := tx.Where("user_id = ? AND recipe_id = ?", userID, recipeID).First(&rating).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			rating = models.Rating{
				UserID:   userID,
				RecipeID: recipeID,
				Score:    score,
				Review:   strings.TrimSpace(req.Review),
			}
			if err := tx.Omit(clause.Associations).Create(&rating).Error; err != nil {
				return fmt.Errorf("failed to create rating: %w", err)
			}
			created = true
		case err != nil:
			return fmt.Errorf("failed to load rating: %w", err)
		default:
			rating.Score = score
			rating.Review = strings.TrimSpace(req.Review)
			if err := tx.Model(&rating).Updates(map[string]interface{}{"score": score, "review": rating.Review}).Error; err != nil {
				return fmt.Errorf("failed to update rating: %w", err)
			}
		}
		return refreshRecipeRating(tx, recipeID)
	})
	if err != nil {
		return nil, false, err
	}

	_ = s.cache.Delete(ctx, cache.KeyPlatformStats)
	if err := s.db.WithContext(ctx).Preload("User").First(&rating, "id = ?", rating.ID).Error; err != nil {
		return nil, false, fmt.Errorf("failed to reload rating: %w", err)
	}
	return &rating, created, nil
}

// DeleteRating removes the caller's rating of a recipe
func (s *RatingService) DeleteRating(ctx context.Context, userID, recipeID uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rating models.Rating
		if err := tx.Where("user_id = ? AND recipe_id = ?", userID, recipeID).First(&rating).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("Rating")
			}
			return fmt.Errorf("failed to load rating: %w", err)
		}
		if err := tx.Where("rating_id = ?", rating.ID).Delete(&models.RatingHelpful{}).Error; err != nil {
			return fmt.Errorf("failed to delete helpful votes: %w", err)
		}
		if err := tx.Delete(&rating).Error; err != nil {
			return fmt.Errorf("failed to delete rating: %w", err)
		}
		return refreshRecipeRating(tx, recipeID)
	})
	if err != nil {
		return err
	}
	_ = s.cache.Delete(ctx, cache.KeyPlatformStats)
	return nil
}

// ListRatings returns a page of a recipe's ratings, newest first, with the aggregate
func (s *RatingService) ListRatings(ctx context.Context, recipeID uuid.UUID, page types.PageRequest) ([]models.Rating, types.Pagination, *types.RatingSummary, error) {
	db := s.db.WithContext(ctx)
	if err := requirePublishedRecipe(db, recipeID); err != nil {
		return nil, types.Pagination{}, nil, err
	}

	summary, err := s.Summary(ctx, recipeID)
	if err != nil {
		return nil, types.Pagination{}, nil, err
	}

	var ratings []models.Rating
	err = db.Preload("User").
		Where("recipe_id = ?", recipeID).
		Order("created_at DESC").
		Offset(page.Offset()).
		Limit(page.PerPage).
		Find(&ratings).Error
	if err != nil {
		return nil, types.Pagination{}, nil, fmt.Errorf("failed to list ratings: %w", err)
	}
	return ratings, types.NewPagination(page, summary.TotalRatings), summary, nil
}

// Summary computes average (one decimal), count and the 1..5 distribution
func (s *RatingService) Summary(ctx context.Context, recipeID uuid.UUID) (*types.RatingSummary, error) {
	var rows []struct {
		Score int
		Count int64
	}
	err := s.db.WithContext(ctx).Model(&models.Rating{}).
		Select("score, COUNT(*) AS count").
		Where("recipe_id = ?", recipeID).
		Group("score").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to summarize ratings: %w", err)
	}

	summary := &types.RatingSummary{Distribution: make(map[int]int64, models.MaxRatingScore)}
	for score := models.MinRatingScore; score <= models.MaxRatingScore; score++ {
		summary.Distribution[score] = 0
	}
	var weighted int64
	for _, row := range rows {
		summary.Distribution[row.Score] = row.Count
		summary.TotalRatings += row.Count
		weighted += int64(row.Score) * row.Count
	}
	if summary.TotalRatings > 0 {
		summary.AverageRating = roundOneDecimal(float64(weighted) / float64(summary.TotalRatings))
	}
	return summary, nil
}

// VoteHelpful records whether a review helped the caller; voting again changes the vote
func (s *RatingService) VoteHelpful(ctx context.Context, userID, ratingID uuid.UUID, isHelpful bool) (*models.Rating, error) {
	var rating models.Rating
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&rating, "id = ?", ratingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("Rating")
			}
			return fmt.Errorf("failed to load rating: %w", err)
		}
		if rating.UserID == userID {
			return invalid("rating_id", "You cannot vote on your own review")
		}

		vote := models.RatingHelpful{UserID: userID, RatingID: ratingID, IsHelpful: isHelpful}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "rating_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_helpful"}),
		}).Create(&vote).Error
		if err != nil {
			return fmt.Errorf("failed to record vote: %w", err)
		}

		var helpful int64
		if err := tx.Model(&models.RatingHelpful{}).Where("rating_id = ? AND is_helpful = ?", ratingID, true).Count(&helpful).Error; err != nil {
			return fmt.Errorf("failed to count helpful votes: %w", err)
		}
		rating.HelpfulCount = int(helpful)
		return tx.Model(&rating).UpdateColumn("helpful_count", rating.HelpfulCount).Error
	})
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

// refreshRecipeRating recomputes the denormalized average and count
func refreshRecipeRating(tx *gorm.DB, recipeID uuid.UUID) error {
	var agg struct {
		Count int64
		Total int64
	}
	err := tx.Model(&models.Rating{}).
		Select("COUNT(*) AS count, COALESCE(SUM(score), 0) AS total").
		Where("recipe_id = ?", recipeID).
		Scan(&agg).Error
	if err != nil {
		return fmt.Errorf("failed to aggregate ratings: %w", err)
	}

	avg := 0.0
	if agg.Count > 0 {
		avg = roundOneDecimal(float64(agg.Total) / float64(agg.Count))
	}
	err = tx.Model(&models.Recipe{}).Where("id = ?", recipeID).UpdateColumns(map[string]interface{}{
		"average_rating": avg,
		"rating_count":   agg.Count,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to store rating aggregate: %w", err)
	}
	return nil
}

func requirePublishedRecipe(tx *gorm.DB, recipeID uuid.UUID) error {
	var count int64
	if err := tx.Model(&models.Recipe{}).Where("id = ? AND is_published = ?", recipeID, true).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to load recipe: %w", err)
	}
	if count == 0 {
		return notFound("Recipe")
	}
	return nil
}

func parseScore(raw *float64) (int, error) {
	if raw == nil {
		return 0, invalid("rating", "Rating is required")
	}
	v := *raw
	if v != math.Trunc(v) || v < models.MinRatingScore || v > models.MaxRatingScore {
		return 0, invalid("rating", "Rating must be an integer between %d and %d", models.MinRatingScore, models.MaxRatingScore)
	}
	return int(v), nil
}

func roundOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}
