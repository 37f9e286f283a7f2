package models

import (
	"fmt"

	"gorm.io/gorm"
)

// All returns every persisted model in dependency order
func All() []interface{} {
	return []interface{}{
		&User{},
		&Category{},
		&Ingredient{},
		&Recipe{},
		&RecipeCategory{},
		&RecipeIngredient{},
		&Rating{},
		&RatingHelpful{},
		&Favorite{},
	}
}

// Register prepares db for the custom recipe/category join model.
// It must run on every new *gorm.DB before associations are touched.
func Register(db *gorm.DB) error {
	if err := db.SetupJoinTable(&Recipe{}, "Categories", &RecipeCategory{}); err != nil {
		return fmt.Errorf("failed to set up recipe categories join: %w", err)
	}
	if err := db.SetupJoinTable(&Category{}, "Recipes", &RecipeCategory{}); err != nil {
		return fmt.Errorf("failed to set up category recipes join: %w", err)
	}
	return nil
}
