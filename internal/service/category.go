package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cookeasy/backend/internal/cache"
	"github.com/cookeasy/backend/internal/models"
	"github.com/cookeasy/backend/internal/types"
)

const categoryCacheTTL = 10 * time.Minute

// CategoryService manages the recipe taxonomy
type CategoryService struct {
	db    *gorm.DB
	cache *cache.Cache
}

var _ ICategoryService = (*CategoryService)(nil)

func NewCategoryService(db *gorm.DB, c *cache.Cache) *CategoryService {
	return &CategoryService{db: db, cache: c}
}

// ListActive returns active categories by name with published recipe counts
func (s *CategoryService) ListActive(ctx context.Context) ([]types.CategoryResponse, error) {
	return cache.Remember(ctx, s.cache, cache.KeyActiveCategories, categoryCacheTTL, func() ([]types.CategoryResponse, error) {
		return s.list(ctx, true)
	})
}

// ListAll includes inactive categories, for admins
func (s *CategoryService) ListAll(ctx context.Context) ([]types.CategoryResponse, error) {
	return s.list(ctx, false)
}

func (s *CategoryService) list(ctx context.Context, activeOnly bool) ([]types.CategoryResponse, error) {
	q := s.db.WithContext(ctx).Model(&models.Category{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}

	var categories []models.Category
	if err := q.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	counts, err := s.recipeCounts(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]types.CategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, types.NewCategoryResponse(&categories[i], counts[categories[i].ID]))
	}
	return out, nil
}

// GetCategory loads one category; inactive ones are hidden unless includeInactive
func (s *CategoryService) GetCategory(ctx context.Context, id uuid.UUID, includeInactive bool) (*types.CategoryResponse, error) {
	category, err := s.load(s.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	if !category.IsActive && !includeInactive {
		return nil, notFound("Category")
	}
	counts, err := s.recipeCounts(ctx)
	if err != nil {
		return nil, err
	}
	resp := types.NewCategoryResponse(category, counts[category.ID])
	return &resp, nil
}

func (s *CategoryService) CreateCategory(ctx context.Context, req *types.CategoryRequest) (*models.Category, error) {
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		return nil, invalid("name", "Category name is required")
	}
	name := strings.TrimSpace(*req.Name)

	category := models.Category{Name: name, IsActive: true}
	applyCategoryFields(&category, req)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureCategoryNameFree(tx, name, uuid.Nil); err != nil {
			return err
		}
		slug, err := uniqueSlug(tx, &models.Category{}, Slugify(name, "category"), uuid.Nil)
		if err != nil {
			return err
		}
		category.Slug = slug
		if err := tx.Omit("Recipes").Create(&category).Error; err != nil {
			return fmt.Errorf("failed to create category: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return &category, nil
}

func (s *CategoryService) UpdateCategory(ctx context.Context, id uuid.UUID, req *types.CategoryRequest) (*models.Category, error) {
	var category *models.Category
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if category, err = s.load(tx, id); err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return invalid("name", "Category name cannot be empty")
			}
			if name != category.Name {
				if err := ensureCategoryNameFree(tx, name, id); err != nil {
					return err
				}
				slug, err := uniqueSlug(tx, &models.Category{}, Slugify(name, "category"), id)
				if err != nil {
					return err
				}
				updates["name"] = name
				updates["slug"] = slug
			}
		}
		if req.Description != nil {
			updates["description"] = strings.TrimSpace(*req.Description)
		}
		if req.Icon != nil {
			updates["icon"] = strings.TrimSpace(*req.Icon)
		}
		if req.Color != nil {
			updates["color"] = strings.TrimSpace(*req.Color)
		}
		if req.ImageURL != nil {
			updates["image_url"] = strings.TrimSpace(*req.ImageURL)
		}
		if req.IsActive != nil {
			updates["is_active"] = *req.IsActive
		}
		if req.IsFeatured != nil {
			updates["is_featured"] = *req.IsFeatured
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(category).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update category: %w", err)
		}
		category, err = s.load(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return category, nil
}

// DeleteCategory removes the category and its recipe links; recipes stay
func (s *CategoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.load(tx, id); err != nil {
			return err
		}
		if err := tx.Where("category_id = ?", id).Delete(&models.RecipeCategory{}).Error; err != nil {
			return fmt.Errorf("failed to unlink recipes: %w", err)
		}
		if err := tx.Model(&models.Recipe{}).Where("category_id = ?", id).Update("category_id", nil).Error; err != nil {
			return fmt.Errorf("failed to clear primary category: %w", err)
		}
		if err := tx.Delete(&models.Category{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// recipeCounts maps category id to the number of published recipes linked to it
func (s *CategoryService) recipeCounts(ctx context.Context) (map[uuid.UUID]int64, error) {
	var rows []struct {
		CategoryID uuid.UUID
		Count      int64
	}
	err := s.db.WithContext(ctx).Table("recipe_categories").
		Select("recipe_categories.category_id, COUNT(*) AS count").
		Joins("JOIN recipes ON recipes.id = recipe_categories.recipe_id").
		Where("recipes.is_published = ?", true).
		Group("recipe_categories.category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count category recipes: %w", err)
	}
	out := make(map[uuid.UUID]int64, len(rows))
	for _, row := range rows {
		out[row.CategoryID] = row.Count
	}
	return out, nil
}

func (s *CategoryService) load(tx *gorm.DB, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := tx.First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Category")
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &category, nil
}

func (s *CategoryService) invalidate(ctx context.Context) {
	_ = s.cache.Delete(ctx, cache.KeyActiveCategories, cache.KeyPlatformStats)
}

func ensureCategoryNameFree(tx *gorm.DB, name string, exclude uuid.UUID) error {
	q := tx.Model(&models.Category{}).Where("LOWER(name) = ?", strings.ToLower(name))
	if exclude != uuid.Nil {
		q = q.Where("id <> ?", exclude)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check category name: %w", err)
	}
	if count > 0 {
		return &DuplicateError{Message: "Category already exists"}
	}
	return nil
}

func applyCategoryFields(c *models.Category, req *types.CategoryRequest) {
	if req.Description != nil {
		c.Description = strings.TrimSpace(*req.Description)
	}
	if req.Icon != nil {
		c.Icon = strings.TrimSpace(*req.Icon)
	}
	if req.Color != nil {
		c.Color = strings.TrimSpace(*req.Color)
	}
	if req.ImageURL != nil {
		c.ImageURL = strings.TrimSpace(*req.ImageURL)
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	if req.IsFeatured != nil {
		c.IsFeatured = *req.IsFeatured
	}
}
