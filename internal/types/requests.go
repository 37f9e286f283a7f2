package types

import "github.com/google/uuid"

// RegisterRequest is the body of POST /api/auth/register
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=80"`
	Email    string `json:"email" binding:"required,email,max=120"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name" binding:"max=100"`
	Bio      string `json:"bio" binding:"max=1000"`
}

// LoginRequest is the body of POST /api/auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest carries the self-editable profile fields
type UpdateProfileRequest struct {
	FullName     *string `json:"full_name" binding:"omitempty,max=100"`
	Bio          *string `json:"bio" binding:"omitempty,max=1000"`
	ProfileImage *string `json:"profile_image" binding:"omitempty,max=500"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

// IngredientInput is one ingredient line submitted with a recipe
type IngredientInput struct {
	Name     string  `json:"name" binding:"required,max=100"`
	Quantity float64 `json:"quantity" binding:"min=0"`
	Unit     string  `json:"unit" binding:"max=20"`
	Notes    string  `json:"notes" binding:"max=200"`
}

// CreateRecipeRequest represents the request body for creating a recipe
type CreateRecipeRequest struct {
	Title              string            `json:"title" binding:"required,max=200"`
	Description        string            `json:"description" binding:"required"`
	Instructions       string            `json:"instructions" binding:"required"`
	PrepTime           int               `json:"prep_time" binding:"min=0"`
	CookTime           int               `json:"cook_time" binding:"min=0"`
	TotalTime          int               `json:"total_time" binding:"min=0"`
	Servings           int               `json:"servings" binding:"min=0"`
	Difficulty         string            `json:"difficulty" binding:"omitempty,oneofci=Easy Medium Hard"`
	ImageURL           string            `json:"image_url" binding:"max=500"`
	CaloriesPerServing *int              `json:"calories_per_serving" binding:"omitempty,min=0"`
	ProteinGrams       *float64          `json:"protein_grams" binding:"omitempty,min=0"`
	IsPublished        *bool             `json:"is_published"`
	CategoryID         *uuid.UUID        `json:"category_id"`
	CategoryIDs        []uuid.UUID       `json:"category_ids"`
	Ingredients        []IngredientInput `json:"ingredients" binding:"omitempty,dive"`
}

// UpdateRecipeRequest represents a partial recipe update; nil fields are left alone
type UpdateRecipeRequest struct {
	Title              *string            `json:"title" binding:"omitempty,max=200"`
	Description        *string            `json:"description"`
	Instructions       *string            `json:"instructions"`
	PrepTime           *int               `json:"prep_time" binding:"omitempty,min=0"`
	CookTime           *int               `json:"cook_time" binding:"omitempty,min=0"`
	TotalTime          *int               `json:"total_time" binding:"omitempty,min=0"`
	Servings           *int               `json:"servings" binding:"omitempty,min=0"`
	Difficulty         *string            `json:"difficulty" binding:"omitempty,oneofci=Easy Medium Hard"`
	ImageURL           *string            `json:"image_url" binding:"omitempty,max=500"`
	CaloriesPerServing *int               `json:"calories_per_serving" binding:"omitempty,min=0"`
	ProteinGrams       *float64           `json:"protein_grams" binding:"omitempty,min=0"`
	IsPublished        *bool              `json:"is_published"`
	CategoryID         *uuid.UUID         `json:"category_id"`
	CategoryIDs        *[]uuid.UUID       `json:"category_ids"`
	Ingredients        *[]IngredientInput `json:"ingredients"`
}

// RateRecipeRequest keeps the score as a float so fractional input can be rejected
type RateRecipeRequest struct {
	Rating *float64 `json:"rating" binding:"required,min=1,max=5"`
	Review string   `json:"review" binding:"max=2000"`
}

type HelpfulVoteRequest struct {
	IsHelpful *bool `json:"is_helpful" binding:"required"`
}

// CategoryRequest creates or partially updates a category
type CategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=100"`
	Description *string `json:"description"`
	Icon        *string `json:"icon" binding:"omitempty,max=50"`
	Color       *string `json:"color" binding:"omitempty,hexcolor"`
	ImageURL    *string `json:"image_url" binding:"omitempty,max=500"`
	IsActive    *bool   `json:"is_active"`
	IsFeatured  *bool   `json:"is_featured"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=user chef admin"`
}

type VerifyUserRequest struct {
	IsVerified *bool `json:"is_verified" binding:"required"`
}
