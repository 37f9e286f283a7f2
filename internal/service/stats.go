package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/cookeasy/backend/internal/cache"
	"github.com/cookeasy/backend/internal/models"
	"github.com/cookeasy/backend/internal/types"
)

const (
	statsCacheTTL    = 5 * time.Minute
	recentUserWindow = 30 * 24 * time.Hour
)

// StatsService computes public and admin counters
type StatsService struct {
	db    *gorm.DB
	cache *cache.Cache
}

var _ IStatsService = (*StatsService)(nil)

func NewStatsService(db *gorm.DB, c *cache.Cache) *StatsService {
	return &StatsService{db: db, cache: c}
}

// PlatformStats returns public counters, cached in Redis when available
func (s *StatsService) PlatformStats(ctx context.Context) (*types.PlatformStats, error) {
	stats, err := cache.Remember(ctx, s.cache, cache.KeyPlatformStats, statsCacheTTL, func() (types.PlatformStats, error) {
		db := s.db.WithContext(ctx)
		var st types.PlatformStats
		counts := []struct {
			dest  *int64
			model interface{}
			where []interface{}
		}{
			{&st.TotalRecipes, &models.Recipe{}, []interface{}{"is_published = ?", true}},
			{&st.TotalUsers, &models.User{}, []interface{}{"is_active = ?", true}},
			{&st.TotalChefs, &models.User{}, []interface{}{"is_active = ? AND role = ?", true, models.RoleChef}},
			{&st.TotalCategories, &models.Category{}, []interface{}{"is_active = ?", true}},
			{&st.TotalRatings, &models.Rating{}, nil},
		}
		for _, c := range counts {
			q := db.Model(c.model)
			if len(c.where) > 0 {
				q = q.Where(c.where[0], c.where[1:]...)
			}
			if err := q.Count(c.dest).Error; err != nil {
				return st, fmt.Errorf("failed to compute platform stats: %w", err)
			}
		}
		return st, nil
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// Dashboard gathers the admin overview; it is never cached
func (s *StatsService) Dashboard(ctx context.Context) (*types.DashboardStats, error) {
	db := s.db.WithContext(ctx)
	stats := &types.DashboardStats{RoleDistribution: make(map[string]int64, len(models.Roles))}

	counts := []struct {
		dest  *int64
		model interface{}
		where []interface{}
	}{
		{&stats.TotalUsers, &models.User{}, nil},
		{&stats.TotalRecipes, &models.Recipe{}, nil},
		{&stats.TotalCategories, &models.Category{}, nil},
		{&stats.TotalRatings, &models.Rating{}, nil},
		{&stats.PublishedRecipes, &models.Recipe{}, []interface{}{"is_published = ?", true}},
		{&stats.FeaturedRecipes, &models.Recipe{}, []interface{}{"is_featured = ?", true}},
		{&stats.RecentUsers, &models.User{}, []interface{}{"created_at >= ?", time.Now().Add(-recentUserWindow)}},
	}
	for _, c := range counts {
		q := db.Model(c.model)
		if len(c.where) > 0 {
			q = q.Where(c.where[0], c.where[1:]...)
		}
		if err := q.Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("failed to compute dashboard stats: %w", err)
		}
	}

	for _, role := range models.Roles {
		stats.RoleDistribution[string(role)] = 0
	}
	var roles []struct {
		Role  string
		Count int64
	}
	if err := db.Model(&models.User{}).Select("role, COUNT(*) AS count").Group("role").Scan(&roles).Error; err != nil {
		return nil, fmt.Errorf("failed to compute role distribution: %w", err)
	}
	for _, r := range roles {
		stats.RoleDistribution[r.Role] = r.Count
	}

	var avg struct{ Average *float64 }
	if err := db.Model(&models.Rating{}).Select("AVG(score) AS average").Scan(&avg).Error; err != nil {
		return nil, fmt.Errorf("failed to compute average rating: %w", err)
	}
	if avg.Average != nil {
		stats.AverageRating = roundOneDecimal(*avg.Average)
	}
	return stats, nil
}
