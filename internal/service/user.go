package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cookeasy/backend/internal/models"
	"github.com/cookeasy/backend/internal/types"
)

const minUserSearchLength = 2

// UserService handles profiles and public user listings
type UserService struct {
	db *gorm.DB
}

var _ IUserService = (*UserService)(nil)

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// GetUserByID loads any user regardless of status
func (s *UserService) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("User")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// GetPublicUser loads an active user; deactivated accounts read as missing
func (s *UserService) GetPublicUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, notFound("User")
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*models.User, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.FullName != nil {
		updates["full_name"] = strings.TrimSpace(*req.FullName)
	}
	if req.Bio != nil {
		updates["bio"] = strings.TrimSpace(*req.Bio)
	}
	if req.ProfileImage != nil {
		updates["profile_image"] = strings.TrimSpace(*req.ProfileImage)
	}
	if len(updates) == 0 {
		return user, nil
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return s.GetUserByID(ctx, userID)
}

// ListUsers pages through users. Public callers set ActiveOnly.
func (s *UserService) ListUsers(ctx context.Context, filter types.UserFilter) ([]models.User, types.Pagination, error) {
	q := s.db.WithContext(ctx).Model(&models.User{})
	if filter.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	if strings.TrimSpace(filter.Search) != "" {
		like := containsPattern(filter.Search)
		q = q.Where("(LOWER(username) LIKE ? ESCAPE '!' OR LOWER(email) LIKE ? ESCAPE '!' OR LOWER(full_name) LIKE ? ESCAPE '!')", like, like, like)
	}
	if filter.Role != "" {
		q = q.Where("role = ?", filter.Role)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, types.Pagination{}, fmt.Errorf("failed to count users: %w", err)
	}

	var users []models.User
	if err := q.Order("created_at DESC").Offset(filter.Offset()).Limit(filter.PerPage).Find(&users).Error; err != nil {
		return nil, types.Pagination{}, fmt.Errorf("failed to list users: %w", err)
	}
	return users, types.NewPagination(filter.PageRequest, total), nil
}

// SearchUsers matches active users by username or full name
func (s *UserService) SearchUsers(ctx context.Context, query string, page types.PageRequest) ([]models.User, types.Pagination, error) {
	query = strings.TrimSpace(query)
	if len(query) < minUserSearchLength {
		return nil, types.Pagination{}, invalid("q", "Search query must be at least %d characters", minUserSearchLength)
	}

	like := containsPattern(query)
	q := s.db.WithContext(ctx).Model(&models.User{}).
		Where("is_active = ?", true).
		Where("(LOWER(username) LIKE ? ESCAPE '!' OR LOWER(full_name) LIKE ? ESCAPE '!')", like, like)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, types.Pagination{}, fmt.Errorf("failed to count users: %w", err)
	}

	var users []models.User
	if err := q.Order("username ASC").Offset(page.Offset()).Limit(page.PerPage).Find(&users).Error; err != nil {
		return nil, types.Pagination{}, fmt.Errorf("failed to search users: %w", err)
	}
	return users, types.NewPagination(page, total), nil
}

// Stats returns recipe_count and total_likes for each user id, from published recipes
func (s *UserService) Stats(ctx context.Context, ids ...uuid.UUID) (map[uuid.UUID]types.UserStats, error) {
	out := make(map[uuid.UUID]types.UserStats, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var rows []struct {
		UserID      uuid.UUID
		RecipeCount int64
		TotalLikes  int64
	}
	err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Select("user_id, COUNT(*) AS recipe_count, COALESCE(SUM(like_count), 0) AS total_likes").
		Where("user_id IN ? AND is_published = ?", ids, true).
		Group("user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load user stats: %w", err)
	}
	for _, row := range rows {
		out[row.UserID] = types.UserStats{RecipeCount: row.RecipeCount, TotalLikes: row.TotalLikes}
	}
	return out, nil
}
