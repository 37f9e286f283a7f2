package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cookeasy/backend/internal/cache"
	"github.com/cookeasy/backend/internal/models"
)

// AdminService holds moderation actions on users and recipes
type AdminService struct {
	db    *gorm.DB
	cache *cache.Cache
}

var _ IAdminService = (*AdminService)(nil)

func NewAdminService(db *gorm.DB, c *cache.Cache) *AdminService {
	return &AdminService{db: db, cache: c}
}

// SetRole changes another user's role; admins cannot change their own
func (s *AdminService) SetRole(ctx context.Context, actorID, targetID uuid.UUID, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, invalid("role", "Role must be one of user, chef, admin")
	}
	if actorID == targetID {
		return nil, invalid("role", "Cannot change your own role")
	}
	return s.updateUser(ctx, targetID, map[string]interface{}{"role": role})
}

// ToggleStatus flips another user's is_active flag
func (s *AdminService) ToggleStatus(ctx context.Context, actorID, targetID uuid.UUID) (*models.User, error) {
	if actorID == targetID {
		return nil, invalid("user_id", "Cannot change your own account status")
	}
	user, err := s.loadUser(s.db.WithContext(ctx), targetID)
	if err != nil {
		return nil, err
	}
	return s.updateUser(ctx, targetID, map[string]interface{}{"is_active": !user.IsActive})
}

func (s *AdminService) SetVerified(ctx context.Context, targetID uuid.UUID, verified bool) (*models.User, error) {
	return s.updateUser(ctx, targetID, map[string]interface{}{"is_verified": verified})
}

// ToggleFeatured flips a recipe's is_featured flag
func (s *AdminService) ToggleFeatured(ctx context.Context, recipeID uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	db := s.db.WithContext(ctx)
	if err := db.First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Recipe")
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	recipe.IsFeatured = !recipe.IsFeatured
	if err := db.Model(&recipe).Update("is_featured", recipe.IsFeatured).Error; err != nil {
		return nil, fmt.Errorf("failed to toggle featured: %w", err)
	}
	return &recipe, nil
}

func (s *AdminService) updateUser(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*models.User, error) {
	db := s.db.WithContext(ctx)
	user, err := s.loadUser(db, id)
	if err != nil {
		return nil, err
	}
	if err := db.Model(user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	_ = s.cache.Delete(ctx, cache.KeyPlatformStats)
	return s.loadUser(db, id)
}

func (s *AdminService) loadUser(db *gorm.DB, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("User")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}
