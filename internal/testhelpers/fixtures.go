package testhelpers

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cookeasy/backend/internal/models"
)

// DefaultPassword is the plaintext password of every user CreateUser makes
const DefaultPassword = "password123"

// TestJWTSecret is long enough to pass production validation
const TestJWTSecret = "test-jwt-secret-that-is-at-least-32-chars"

// CreateUser inserts an active user with the given role and DefaultPassword
func CreateUser(t *testing.T, db *gorm.DB, username string, role models.Role) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &models.User{
		Username:     username,
		Email:        strings.ToLower(username) + "@example.com",
		PasswordHash: string(hash),
		FullName:     username,
		Role:         role,
		IsActive:     true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

// CreateCategory inserts an active category
func CreateCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()

	category := &models.Category{
		Name:     name,
		Slug:     strings.ToLower(strings.ReplaceAll(name, " ", "-")),
		IsActive: true,
	}
	if err := db.Omit("Recipes").Create(category).Error; err != nil {
		t.Fatalf("failed to create category %s: %v", name, err)
	}
	return category
}

// RecipeOption tweaks a recipe before CreateRecipe stores it
type RecipeOption func(*models.Recipe)

func Draft() RecipeOption {
	return func(r *models.Recipe) { r.IsPublished = false }
}

func Featured() RecipeOption {
	return func(r *models.Recipe) { r.IsFeatured = true }
}

// InCategory sets the primary category and links it
func InCategory(c *models.Category) RecipeOption {
	return func(r *models.Recipe) {
		id := c.ID
		r.CategoryID = &id
	}
}

// CreateRecipe inserts a published recipe by author
func CreateRecipe(t *testing.T, db *gorm.DB, author *models.User, title string, opts ...RecipeOption) *models.Recipe {
	t.Helper()

	recipe := &models.Recipe{
		Title:        title,
		Slug:         fmt.Sprintf("%s-%s", strings.ToLower(strings.ReplaceAll(title, " ", "-")), uuid.NewString()[:8]),
		Description:  "A test recipe",
		Instructions: "Mix and cook.",
		PrepTime:     10,
		CookTime:     20,
		IsPublished:  true,
		UserID:       author.ID,
	}
	for _, opt := range opts {
		opt(recipe)
	}
	if err := db.Omit(clause.Associations).Create(recipe).Error; err != nil {
		t.Fatalf("failed to create recipe %s: %v", title, err)
	}
	if recipe.CategoryID != nil {
		link := models.RecipeCategory{RecipeID: recipe.ID, CategoryID: *recipe.CategoryID}
		if err := db.Create(&link).Error; err != nil {
			t.Fatalf("failed to link recipe category: %v", err)
		}
	}
	return recipe
}
