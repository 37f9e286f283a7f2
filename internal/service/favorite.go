package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cookeasy/backend/internal/models"
	"github.com/cookeasy/backend/internal/types"
)

// FavoriteService toggles bookmarks and lists what a user cares about
type FavoriteService struct {
	db *gorm.DB
}

var _ IFavoriteService = (*FavoriteService)(nil)

func NewFavoriteService(db *gorm.DB) *FavoriteService {
	return &FavoriteService{db: db}
}

// ToggleFavorite bookmarks the recipe, or removes an existing bookmark.
// like_count tracks the number of bookmarks.
func (s *FavoriteService) ToggleFavorite(ctx context.Context, userID, recipeID uuid.UUID) (bool, int, error) {
	var (
		favorited bool
		likes     int
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requirePublishedRecipe(tx, recipeID); err != nil {
			return err
		}

		var existing models.Favorite
		err := tx.Where("user_id = ? AND recipe_id = ?", userID, recipeID).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&models.Favorite{UserID: userID, RecipeID: recipeID}).Error; err != nil {
				return fmt.Errorf("failed to add favorite: %w", err)
			}
			favorited = true
		case err != nil:
			return fmt.Errorf("failed to load favorite: %w", err)
		default:
			if err := tx.Delete(&existing).Error; err != nil {
				return fmt.Errorf("failed to remove favorite: %w", err)
			}
		}

		var count int64
		if err := tx.Model(&models.Favorite{}).Where("recipe_id = ?", recipeID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to count favorites: %w", err)
		}
		likes = int(count)
		return tx.Model(&models.Recipe{}).Where("id = ?", recipeID).UpdateColumn("like_count", likes).Error
	})
	if err != nil {
		return false, 0, err
	}
	return favorited, likes, nil
}

// IsFavorite reports whether the user bookmarked the recipe
func (s *FavoriteService) IsFavorite(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Favorite{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return count > 0, nil
}

// ListFavorites returns published recipes the user bookmarked or rated at
// least FavoriteScore, most recently created first.
func (s *FavoriteService) ListFavorites(ctx context.Context, userID uuid.UUID, page types.PageRequest) ([]models.Recipe, types.Pagination, error) {
	db := s.db.WithContext(ctx)
	bookmarked := db.Model(&models.Favorite{}).Select("recipe_id").Where("user_id = ?", userID)
	rated := db.Model(&models.Rating{}).Select("recipe_id").Where("user_id = ? AND score >= ?", userID, models.FavoriteScore)

	q := db.Model(&models.Recipe{}).
		Where("is_published = ?", true).
		Where("(id IN (?) OR id IN (?))", bookmarked, rated)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, types.Pagination{}, fmt.Errorf("failed to count favorites: %w", err)
	}

	var recipes []models.Recipe
	err := q.Preload("Author").
		Preload("Categories").
		Order("created_at DESC").
		Offset(page.Offset()).
		Limit(page.PerPage).
		Find(&recipes).Error
	if err != nil {
		return nil, types.Pagination{}, fmt.Errorf("failed to list favorites: %w", err)
	}
	return recipes, types.NewPagination(page, total), nil
}
