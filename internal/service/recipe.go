package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cookeasy/backend/internal/cache"
	"github.com/cookeasy/backend/internal/models"
	"github.com/cookeasy/backend/internal/types"
)

const (
	DefaultRecipesPerPage = 12
	MaxRecipesPerPage     = 50
	DefaultHighlightLimit = 6
	MaxHighlightLimit     = 20
)

// RecipeService handles recipe operations
type RecipeService struct {
	db    *gorm.DB
	cache *cache.Cache
}

var _ IRecipeService = (*RecipeService)(nil)

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB, c *cache.Cache) *RecipeService {
	return &RecipeService{db: db, cache: c}
}

// CreateRecipe stores a new recipe authored by authorID
func (s *RecipeService) CreateRecipe(ctx context.Context, authorID uuid.UUID, req *types.CreateRecipeRequest) (*models.Recipe, error) {
	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	instructions := strings.TrimSpace(req.Instructions)
	if title == "" || description == "" || instructions == "" {
		return nil, invalid("title", "Title, description, and instructions are required")
	}

	difficulty, err := parseDifficulty(req.Difficulty)
	if err != nil {
		return nil, err
	}
	if err := checkNonNegative(map[string]int{
		"prep_time": req.PrepTime, "cook_time": req.CookTime,
		"total_time": req.TotalTime, "servings": req.Servings,
	}); err != nil {
		return nil, err
	}

	published := true
	if req.IsPublished != nil {
		published = *req.IsPublished
	}

	recipe := models.Recipe{
		Title:              title,
		Description:        description,
		Instructions:       instructions,
		PrepTime:           req.PrepTime,
		CookTime:           req.CookTime,
		TotalTime:          req.TotalTime,
		Servings:           req.Servings,
		Difficulty:         difficulty,
		ImageURL:           strings.TrimSpace(req.ImageURL),
		CaloriesPerServing: req.CaloriesPerServing,
		ProteinGrams:       req.ProteinGrams,
		IsPublished:        published,
		UserID:             authorID,
		CategoryID:         req.CategoryID,
	}

	categoryIDs := mergeCategoryIDs(req.CategoryID, req.CategoryIDs)
	if recipe.CategoryID == nil && len(categoryIDs) > 0 {
		recipe.CategoryID = &categoryIDs[0]
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		slug, err := uniqueSlug(tx, &models.Recipe{}, Slugify(title, "recipe"), uuid.Nil)
		if err != nil {
			return err
		}
		recipe.Slug = slug

		if err := ensureCategoriesExist(tx, categoryIDs); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(&recipe).Error; err != nil {
			return fmt.Errorf("failed to create recipe: %w", err)
		}
		if err := setRecipeCategories(tx, recipe.ID, categoryIDs); err != nil {
			return err
		}
		return replaceRecipeIngredients(tx, recipe.ID, req.Ingredients)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return s.GetRecipe(ctx, recipe.ID, &Actor{ID: authorID})
}

// GetRecipe loads a recipe with its relations. Drafts are only visible to
// their author and admins.
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID, viewer *Actor) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Categories", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Ingredients.Ingredient").
		First(&recipe, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Recipe")
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	if !recipe.IsPublished && !viewer.CanManage(&recipe) {
		return nil, notFound("Recipe")
	}
	return &recipe, nil
}

// ViewRecipe is GetRecipe plus a view_count increment
func (s *RecipeService) ViewRecipe(ctx context.Context, id uuid.UUID, viewer *Actor) (*models.Recipe, error) {
	recipe, err := s.GetRecipe(ctx, id, viewer)
	if err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error
	if err != nil {
		return nil, fmt.Errorf("failed to record view: %w", err)
	}
	recipe.ViewCount++
	return recipe, nil
}

// UpdateRecipe applies a partial update; only the author or an admin may do so
func (s *RecipeService) UpdateRecipe(ctx context.Context, actor *Actor, id uuid.UUID, req *types.UpdateRecipeRequest) (*models.Recipe, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("Recipe")
			}
			return fmt.Errorf("failed to get recipe: %w", err)
		}
		if !actor.CanManage(&recipe) {
			return ErrForbidden
		}

		var oldPrimary uuid.UUID
		if recipe.CategoryID != nil {
			oldPrimary = *recipe.CategoryID
		}
		updates, err := recipeUpdates(tx, &recipe, req)
		if err != nil {
			return err
		}
		if len(updates) > 0 {
			if err := tx.Model(&recipe).Omit(clause.Associations).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to update recipe: %w", err)
			}
		}

		if req.CategoryIDs != nil {
			ids := mergeCategoryIDs(req.CategoryID, *req.CategoryIDs)
			if err := ensureCategoriesExist(tx, ids); err != nil {
				return err
			}
			if err := setRecipeCategories(tx, recipe.ID, ids); err != nil {
				return err
			}
		} else if req.CategoryID != nil {
			// primary moved: drop the old primary link, keep the secondary ones
			var current []uuid.UUID
			if err := tx.Model(&models.RecipeCategory{}).Where("recipe_id = ?", recipe.ID).
				Pluck("category_id", &current).Error; err != nil {
				return fmt.Errorf("failed to load recipe categories: %w", err)
			}
			kept := make([]uuid.UUID, 0, len(current))
			for _, cid := range current {
				if cid == oldPrimary {
					continue
				}
				kept = append(kept, cid)
			}
			if err := setRecipeCategories(tx, recipe.ID, mergeCategoryIDs(req.CategoryID, kept)); err != nil {
				return err
			}
		}
		if req.Ingredients != nil {
			if err := replaceRecipeIngredients(tx, recipe.ID, *req.Ingredients); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return s.GetRecipe(ctx, id, actor)
}

func recipeUpdates(tx *gorm.DB, recipe *models.Recipe, req *types.UpdateRecipeRequest) (map[string]interface{}, error) {
	updates := map[string]interface{}{}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, invalid("title", "Title cannot be empty")
		}
		if title != recipe.Title {
			slug, err := uniqueSlug(tx, &models.Recipe{}, Slugify(title, "recipe"), recipe.ID)
			if err != nil {
				return nil, err
			}
			updates["title"] = title
			updates["slug"] = slug
		}
	}
	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Instructions != nil {
		instructions := strings.TrimSpace(*req.Instructions)
		if instructions == "" {
			return nil, invalid("instructions", "Instructions cannot be empty")
		}
		updates["instructions"] = instructions
	}

	ints := map[string]*int{
		"prep_time": req.PrepTime, "cook_time": req.CookTime,
		"total_time": req.TotalTime, "servings": req.Servings,
	}
	for field, v := range ints {
		if v == nil {
			continue
		}
		if *v < 0 {
			return nil, invalid(field, "%s cannot be negative", field)
		}
		updates[field] = *v
	}
	if req.Servings != nil && *req.Servings == 0 {
		updates["servings"] = models.DefaultServings
	}
	if req.TotalTime == nil && (req.PrepTime != nil || req.CookTime != nil) {
		prep, cook := recipe.PrepTime, recipe.CookTime
		if req.PrepTime != nil {
			prep = *req.PrepTime
		}
		if req.CookTime != nil {
			cook = *req.CookTime
		}
		updates["total_time"] = prep + cook
	}

	if req.Difficulty != nil {
		difficulty, err := parseDifficulty(*req.Difficulty)
		if err != nil {
			return nil, err
		}
		updates["difficulty"] = difficulty
	}
	if req.ImageURL != nil {
		updates["image_url"] = strings.TrimSpace(*req.ImageURL)
	}
	if req.CaloriesPerServing != nil {
		updates["calories_per_serving"] = *req.CaloriesPerServing
	}
	if req.ProteinGrams != nil {
		updates["protein_grams"] = *req.ProteinGrams
	}
	if req.IsPublished != nil {
		updates["is_published"] = *req.IsPublished
	}
	if req.CategoryID != nil {
		if err := ensureCategoriesExist(tx, []uuid.UUID{*req.CategoryID}); err != nil {
			return nil, err
		}
		updates["category_id"] = *req.CategoryID
	}
	return updates, nil
}

// DeleteRecipe removes a recipe and everything hanging off it
func (s *RecipeService) DeleteRecipe(ctx context.Context, actor *Actor, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("Recipe")
			}
			return fmt.Errorf("failed to get recipe: %w", err)
		}
		if !actor.CanManage(&recipe) {
			return ErrForbidden
		}
		return deleteRecipeTree(tx, id)
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func deleteRecipeTree(tx *gorm.DB, id uuid.UUID) error {
	ratingIDs := tx.Model(&models.Rating{}).Select("id").Where("recipe_id = ?", id)
	steps := []struct {
		what string
		run  func() error
	}{
		{"helpful votes", func() error { return tx.Where("rating_id IN (?)", ratingIDs).Delete(&models.RatingHelpful{}).Error }},
		{"ratings", func() error { return tx.Where("recipe_id = ?", id).Delete(&models.Rating{}).Error }},
		{"favorites", func() error { return tx.Where("recipe_id = ?", id).Delete(&models.Favorite{}).Error }},
		{"ingredients", func() error { return tx.Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error }},
		{"categories", func() error { return tx.Where("recipe_id = ?", id).Delete(&models.RecipeCategory{}).Error }},
		{"recipe", func() error { return tx.Delete(&models.Recipe{}, "id = ?", id).Error }},
	}
	for _, step := range steps {
		if err := step.run(); err != nil {
			return fmt.Errorf("failed to delete recipe %s: %w", step.what, err)
		}
	}
	return nil
}

// ListRecipes pages through recipes matching filter
func (s *RecipeService) ListRecipes(ctx context.Context, filter types.RecipeFilter) ([]models.Recipe, types.Pagination, error) {
	q, err := s.filtered(ctx, filter)
	if err != nil {
		return nil, types.Pagination{}, err
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, types.Pagination{}, fmt.Errorf("failed to count recipes: %w", err)
	}

	var recipes []models.Recipe
	err = q.Preload("Author").
		Preload("Categories").
		Order(sortOrder(filter.SortBy)).
		Offset(filter.Offset()).
		Limit(filter.PerPage).
		Find(&recipes).Error
	if err != nil {
		return nil, types.Pagination{}, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, types.NewPagination(filter.PageRequest, total), nil
}

// SearchRecipes is ListRecipes but refuses an empty query
func (s *RecipeService) SearchRecipes(ctx context.Context, filter types.RecipeFilter) ([]models.Recipe, types.Pagination, error) {
	if !filter.HasCriteria() {
		return nil, types.Pagination{}, invalid("q", "Search query or filters are required")
	}
	return s.ListRecipes(ctx, filter)
}

// FeaturedRecipes returns the newest featured, published recipes
func (s *RecipeService) FeaturedRecipes(ctx context.Context, limit int) ([]models.Recipe, error) {
	return s.highlight(ctx, limit, "created_at DESC", "is_featured = ?", true)
}

// PopularRecipes ranks published recipes by rating, then views
func (s *RecipeService) PopularRecipes(ctx context.Context, limit int) ([]models.Recipe, error) {
	return s.highlight(ctx, limit, "average_rating DESC, rating_count DESC, view_count DESC")
}

func (s *RecipeService) highlight(ctx context.Context, limit int, order string, where ...interface{}) ([]models.Recipe, error) {
	limit = clampLimit(limit)
	q := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("is_published = ?", true)
	if len(where) > 0 {
		q = q.Where(where[0], where[1:]...)
	}

	var recipes []models.Recipe
	if err := q.Preload("Author").Preload("Categories").Order(order).Limit(limit).Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

func (s *RecipeService) filtered(ctx context.Context, filter types.RecipeFilter) (*gorm.DB, error) {
	db := s.db.WithContext(ctx)
	q := db.Model(&models.Recipe{})

	switch filter.Status {
	case types.StatusPublished:
		q = q.Where("is_published = ?", true)
	case types.StatusDraft:
		q = q.Where("is_published = ?", false)
	case types.StatusFeatured:
		q = q.Where("is_featured = ?", true)
	case "":
		if !filter.IncludeDrafts {
			q = q.Where("is_published = ?", true)
		}
	default:
		return nil, invalid("status", "Status must be one of published, draft, featured")
	}

	if strings.TrimSpace(filter.Query) != "" {
		like := containsPattern(filter.Query)
		q = q.Where("(LOWER(title) LIKE ? ESCAPE '!' OR LOWER(description) LIKE ? ESCAPE '!' OR LOWER(instructions) LIKE ? ESCAPE '!')", like, like, like)
	}
	if filter.CategoryID != nil {
		linked := db.Model(&models.RecipeCategory{}).Select("recipe_id").Where("category_id = ?", *filter.CategoryID)
		q = q.Where("(category_id = ? OR id IN (?))", *filter.CategoryID, linked)
	}
	if filter.Difficulty != "" {
		difficulty, err := parseDifficulty(filter.Difficulty)
		if err != nil {
			return nil, err
		}
		q = q.Where("difficulty = ?", difficulty)
	}
	if filter.AuthorID != nil {
		q = q.Where("user_id = ?", *filter.AuthorID)
	}
	return q, nil
}

func (s *RecipeService) invalidate(ctx context.Context) {
	_ = s.cache.Delete(ctx, cache.KeyActiveCategories, cache.KeyPlatformStats)
}

func sortOrder(sortBy string) string {
	switch sortBy {
	case types.SortViews:
		return "view_count DESC, created_at DESC"
	case types.SortLikes:
		return "like_count DESC, created_at DESC"
	case types.SortRating:
		return "average_rating DESC, rating_count DESC, created_at DESC"
	default:
		return "created_at DESC"
	}
}

func clampLimit(limit int) int {
	if limit < 1 {
		return DefaultHighlightLimit
	}
	if limit > MaxHighlightLimit {
		return MaxHighlightLimit
	}
	return limit
}

// parseDifficulty accepts any casing of Easy/Medium/Hard; empty means Medium
func parseDifficulty(raw string) (models.Difficulty, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return models.DifficultyMedium, nil
	}
	d := models.Difficulty(cases.Title(language.English).String(strings.ToLower(raw)))
	if !d.Valid() {
		return "", invalid("difficulty", "Difficulty must be one of Easy, Medium, Hard")
	}
	return d, nil
}

func checkNonNegative(fields map[string]int) error {
	for field, v := range fields {
		if v < 0 {
			return invalid(field, "%s cannot be negative", field)
		}
	}
	return nil
}

// mergeCategoryIDs puts primary first and drops duplicates
func mergeCategoryIDs(primary *uuid.UUID, ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids)+1)
	out := make([]uuid.UUID, 0, len(ids)+1)
	if primary != nil {
		seen[*primary] = true
		out = append(out, *primary)
	}
	for _, id := range ids {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func ensureCategoriesExist(tx *gorm.DB, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	var count int64
	if err := tx.Model(&models.Category{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check categories: %w", err)
	}
	if count != int64(len(ids)) {
		return invalid("category_ids", "One or more categories do not exist")
	}
	return nil
}

func setRecipeCategories(tx *gorm.DB, recipeID uuid.UUID, ids []uuid.UUID) error {
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeCategory{}).Error; err != nil {
		return fmt.Errorf("failed to clear recipe categories: %w", err)
	}
	for _, id := range ids {
		link := models.RecipeCategory{RecipeID: recipeID, CategoryID: id}
		if err := tx.Create(&link).Error; err != nil {
			return fmt.Errorf("failed to link category: %w", err)
		}
	}
	return nil
}

func replaceRecipeIngredients(tx *gorm.DB, recipeID uuid.UUID, inputs []types.IngredientInput) error {
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeIngredient{}).Error; err != nil {
		return fmt.Errorf("failed to clear recipe ingredients: %w", err)
	}
	for i, in := range inputs {
		if in.Quantity < 0 {
			return invalid("ingredients", "Ingredient quantity cannot be negative")
		}
		ingredient, err := findOrCreateIngredient(tx, in.Name, in.Unit)
		if err != nil {
			return err
		}
		unit := strings.TrimSpace(in.Unit)
		if unit == "" {
			unit = ingredient.Unit
		}
		line := models.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: ingredient.ID,
			Quantity:     in.Quantity,
			Unit:         unit,
			Notes:        strings.TrimSpace(in.Notes),
			Position:     i + 1,
		}
		if err := tx.Omit(clause.Associations).Create(&line).Error; err != nil {
			return fmt.Errorf("failed to add ingredient: %w", err)
		}
	}
	return nil
}
