package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/cookeasy/backend/internal/cache"
	"github.com/cookeasy/backend/internal/models"
	"github.com/cookeasy/backend/internal/service"
	"github.com/cookeasy/backend/internal/types"
)

// DefaultPassword is given to fixture users that do not set their own
const DefaultPassword = "cookeasy123"

// Result counts the rows a run created; existing rows are skipped
type Result struct {
	Categories  int
	Ingredients int
	Users       int
	Recipes     int
}

// Seeder loads fixtures idempotently: rows are matched on their natural key
// (category name, ingredient name, user email, recipe title per author).
type Seeder struct {
	db         *gorm.DB
	logger     logrus.FieldLogger
	recipes    *service.RecipeService
	categories *service.CategoryService
	password   string
}

func New(db *gorm.DB, logger logrus.FieldLogger) *Seeder {
	return &Seeder{
		db:         db,
		logger:     logger,
		recipes:    service.NewRecipeService(db, cache.New(nil)),
		categories: service.NewCategoryService(db, cache.New(nil)),
		password:   DefaultPassword,
	}
}

// WithPassword overrides the password for users without one in the fixtures
func (s *Seeder) WithPassword(password string) *Seeder {
	if password != "" {
		s.password = password
	}
	return s
}

// All seeds in dependency order
func (s *Seeder) All(ctx context.Context, f *Fixtures) (Result, error) {
	var res Result
	var err error
	if res.Categories, err = s.Categories(ctx, f.Categories); err != nil {
		return res, err
	}
	if res.Ingredients, err = s.Ingredients(ctx, f.Ingredients); err != nil {
		return res, err
	}
	if res.Users, err = s.Users(ctx, f.Users); err != nil {
		return res, err
	}
	if res.Recipes, err = s.Recipes(ctx, f.Recipes); err != nil {
		return res, err
	}
	return res, nil
}

func (s *Seeder) Categories(ctx context.Context, fixtures []CategoryFixture) (int, error) {
	created := 0
	for _, fx := range fixtures {
		name := strings.TrimSpace(fx.Name)
		if name == "" {
			return created, errors.New("category fixture without a name")
		}
		exists, err := s.exists(ctx, &models.Category{}, "LOWER(name) = ?", strings.ToLower(name))
		if err != nil {
			return created, err
		}
		if exists {
			continue
		}
		_, err = s.categories.CreateCategory(ctx, &types.CategoryRequest{
			Name:        &name,
			Description: &fx.Description,
			Icon:        &fx.Icon,
			Color:       &fx.Color,
			IsFeatured:  &fx.Featured,
		})
		if err != nil {
			return created, fmt.Errorf("failed to seed category %s: %w", name, err)
		}
		created++
		s.logger.WithField("category", name).Debug("seeded category")
	}
	s.logger.Infof("Seeded %d categories (%d already present)", created, len(fixtures)-created)
	return created, nil
}

func (s *Seeder) Ingredients(ctx context.Context, fixtures []IngredientFixture) (int, error) {
	created := 0
	for _, fx := range fixtures {
		name := service.CanonicalIngredientName(fx.Name)
		if name == "" {
			return created, errors.New("ingredient fixture without a name")
		}
		exists, err := s.exists(ctx, &models.Ingredient{}, "name = ?", name)
		if err != nil {
			return created, err
		}
		if exists {
			continue
		}
		ingredient := models.Ingredient{Name: name, Unit: fx.Unit, Category: fx.Category}
		if err := s.db.WithContext(ctx).Create(&ingredient).Error; err != nil {
			return created, fmt.Errorf("failed to seed ingredient %s: %w", name, err)
		}
		created++
	}
	s.logger.Infof("Seeded %d ingredients (%d already present)", created, len(fixtures)-created)
	return created, nil
}

func (s *Seeder) Users(ctx context.Context, fixtures []UserFixture) (int, error) {
	created := 0
	for _, fx := range fixtures {
		email := strings.ToLower(strings.TrimSpace(fx.Email))
		role := models.Role(fx.Role)
		if role == "" {
			role = models.RoleUser
		}
		if !role.Valid() {
			return created, fmt.Errorf("user %s has unknown role %q", fx.Username, fx.Role)
		}

		var existing models.User
		err := s.db.WithContext(ctx).Where("email = ? OR username = ?", email, fx.Username).First(&existing).Error
		if err == nil {
			s.logger.WithField("email", email).Debug("user already exists, skipping")
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return created, fmt.Errorf("failed to look up user %s: %w", email, err)
		}

		password := fx.Password
		if password == "" {
			password = s.password
		}
		hash, err := service.HashPassword(password)
		if err != nil {
			return created, err
		}
		user := models.User{
			Username:     fx.Username,
			Email:        email,
			PasswordHash: hash,
			FullName:     fx.FullName,
			Bio:          fx.Bio,
			Role:         role,
			IsActive:     true,
			IsVerified:   fx.Verified,
		}
		if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
			return created, fmt.Errorf("failed to seed user %s: %w", email, err)
		}
		created++
		s.logger.WithFields(logrus.Fields{"username": user.Username, "role": user.Role}).Info("seeded user")
	}
	return created, nil
}

// Recipes go through RecipeService so slugs, totals and ingredient links
// are derived exactly as for recipes created over the API.
func (s *Seeder) Recipes(ctx context.Context, fixtures []RecipeFixture) (int, error) {
	created := 0
	for _, fx := range fixtures {
		var author models.User
		if err := s.db.WithContext(ctx).Where("username = ?", fx.Author).First(&author).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return created, fmt.Errorf("recipe %q: unknown author %q", fx.Title, fx.Author)
			}
			return created, fmt.Errorf("failed to look up author %s: %w", fx.Author, err)
		}

		exists, err := s.exists(ctx, &models.Recipe{}, "user_id = ? AND title = ?", author.ID, strings.TrimSpace(fx.Title))
		if err != nil {
			return created, err
		}
		if exists {
			continue
		}

		categoryIDs, err := s.categoryIDs(ctx, fx.Categories)
		if err != nil {
			return created, fmt.Errorf("recipe %q: %w", fx.Title, err)
		}

		req := &types.CreateRecipeRequest{
			Title:        fx.Title,
			Description:  fx.Description,
			Instructions: strings.TrimSpace(fx.Instructions),
			PrepTime:     fx.PrepTime,
			CookTime:     fx.CookTime,
			Servings:     fx.Servings,
			Difficulty:   fx.Difficulty,
			IsPublished:  fx.Published,
			CategoryIDs:  categoryIDs,
		}
		for _, line := range fx.Ingredients {
			req.Ingredients = append(req.Ingredients, types.IngredientInput{
				Name:     line.Name,
				Quantity: line.Quantity,
				Unit:     line.Unit,
				Notes:    line.Notes,
			})
		}

		recipe, err := s.recipes.CreateRecipe(ctx, author.ID, req)
		if err != nil {
			return created, fmt.Errorf("failed to seed recipe %q: %w", fx.Title, err)
		}
		if fx.Featured {
			if err := s.db.WithContext(ctx).Model(recipe).Update("is_featured", true).Error; err != nil {
				return created, fmt.Errorf("failed to feature recipe %q: %w", fx.Title, err)
			}
		}
		created++
		s.logger.WithFields(logrus.Fields{"slug": recipe.Slug, "author": author.Username}).Info("seeded recipe")
	}
	return created, nil
}

func (s *Seeder) categoryIDs(ctx context.Context, slugs []string) ([]uuid.UUID, error) {
	if len(slugs) == 0 {
		return nil, nil
	}
	var categories []models.Category
	if err := s.db.WithContext(ctx).Where("slug IN ?", slugs).Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to look up categories: %w", err)
	}
	bySlug := make(map[string]uuid.UUID, len(categories))
	for _, c := range categories {
		bySlug[c.Slug] = c.ID
	}
	ids := make([]uuid.UUID, 0, len(slugs))
	for _, slug := range slugs {
		id, ok := bySlug[slug]
		if !ok {
			return nil, fmt.Errorf("unknown category %q", slug)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *Seeder) exists(ctx context.Context, model interface{}, query string, args ...interface{}) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(model).Where(query, args...).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check existing rows: %w", err)
	}
	return count > 0, nil
}
