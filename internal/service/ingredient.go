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

	"github.com/cookeasy/backend/internal/models"
	"github.com/cookeasy/backend/internal/types"
)

// IngredientService exposes the shared ingredient catalog
type IngredientService struct {
	db *gorm.DB
}

var _ IIngredientService = (*IngredientService)(nil)

func NewIngredientService(db *gorm.DB) *IngredientService {
	return &IngredientService{db: db}
}

func (s *IngredientService) ListIngredients(ctx context.Context, filter types.IngredientFilter) ([]models.Ingredient, error) {
	q := s.db.WithContext(ctx).Model(&models.Ingredient{})
	if strings.TrimSpace(filter.Query) != "" {
		q = q.Where("LOWER(name) LIKE ? ESCAPE '!'", containsPattern(filter.Query))
	}
	if filter.Category != "" {
		q = q.Where("LOWER(category) = ?", strings.ToLower(filter.Category))
	}

	var ingredients []models.Ingredient
	if err := q.Order("name ASC").Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	return ingredients, nil
}

func (s *IngredientService) GetIngredient(ctx context.Context, id uuid.UUID) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Ingredient")
		}
		return nil, fmt.Errorf("failed to get ingredient: %w", err)
	}
	return &ingredient, nil
}

// CanonicalIngredientName title-cases a name so lookups are case-insensitive
func CanonicalIngredientName(name string) string {
	return cases.Title(language.English).String(strings.ToLower(strings.Join(strings.Fields(name), " ")))
}

func findOrCreateIngredient(tx *gorm.DB, name, unit string) (*models.Ingredient, error) {
	name = CanonicalIngredientName(name)
	if name == "" {
		return nil, invalid("ingredients", "Ingredient name is required")
	}

	var ingredient models.Ingredient
	err := tx.Where(models.Ingredient{Name: name}).
		Attrs(models.Ingredient{Unit: strings.TrimSpace(unit)}).
		FirstOrCreate(&ingredient).Error
	if err != nil {
		return nil, fmt.Errorf("failed to resolve ingredient %q: %w", name, err)
	}
	return &ingredient, nil
}
