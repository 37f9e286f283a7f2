package types

import (
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/cookeasy/backend/internal/models"
)

// UserStats are the derived counters shown on a profile
type UserStats struct {
	RecipeCount int64 `json:"recipe_count"`
	TotalLikes  int64 `json:"total_likes"`
}

// UserResponse is the serialized user. Email and status fields are only
// populated for the account owner and admins.
type UserResponse struct {
	ID           uuid.UUID   `json:"id"`
	Username     string      `json:"username"`
	FullName     string      `json:"full_name"`
	Bio          string      `json:"bio"`
	ProfileImage string      `json:"profile_image"`
	Role         models.Role `json:"role"`
	IsVerified   bool        `json:"is_verified"`
	CreatedAt    time.Time   `json:"created_at"`
	RecipeCount  int64       `json:"recipe_count"`
	TotalLikes   int64       `json:"total_likes"`

	Email       string     `json:"email,omitempty"`
	IsActive    *bool      `json:"is_active,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

func NewUserResponse(u *models.User, stats UserStats, private bool) UserResponse {
	resp := UserResponse{
		ID:           u.ID,
		Username:     u.Username,
		FullName:     u.FullName,
		Bio:          u.Bio,
		ProfileImage: u.ProfileImage,
		Role:         u.Role,
		IsVerified:   u.IsVerified,
		CreatedAt:    u.CreatedAt,
		RecipeCount:  stats.RecipeCount,
		TotalLikes:   stats.TotalLikes,
	}
	if private {
		active := u.IsActive
		resp.Email = u.Email
		resp.IsActive = &active
		resp.LastLoginAt = u.LastLoginAt
	}
	return resp
}

// AuthorSummary is the compact author block embedded in recipes and ratings
type AuthorSummary struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	FullName     string    `json:"full_name"`
	ProfileImage string    `json:"profile_image"`
}

func NewAuthorSummary(u *models.User) *AuthorSummary {
	if u == nil || u.ID == uuid.Nil {
		return nil
	}
	return &AuthorSummary{ID: u.ID, Username: u.Username, FullName: u.FullName, ProfileImage: u.ProfileImage}
}

type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Color       string    `json:"color"`
	ImageURL    string    `json:"image_url"`
	IsActive    bool      `json:"is_active"`
	IsFeatured  bool      `json:"is_featured"`
	RecipeCount int64     `json:"recipe_count"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewCategoryResponse(c *models.Category, recipeCount int64) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		Icon:        c.Icon,
		Color:       c.Color,
		ImageURL:    c.ImageURL,
		IsActive:    c.IsActive,
		IsFeatured:  c.IsFeatured,
		RecipeCount: recipeCount,
		CreatedAt:   c.CreatedAt,
	}
}

type IngredientLine struct {
	IngredientID uuid.UUID `json:"ingredient_id"`
	Name         string    `json:"name"`
	Quantity     float64   `json:"quantity"`
	Unit         string    `json:"unit"`
	Notes        string    `json:"notes"`
	Position     int       `json:"position"`
}

// RecipeResponse is the serialized recipe. Instructions and ingredients are
// only filled in detail views.
// CategorySummary is the category form nested inside recipes
type CategorySummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Slug  string    `json:"slug"`
	Icon  string    `json:"icon"`
	Color string    `json:"color"`
}

type RecipeResponse struct {
	ID                 uuid.UUID         `json:"id"`
	Title              string            `json:"title"`
	Slug               string            `json:"slug"`
	Description        string            `json:"description"`
	Instructions       string            `json:"instructions,omitempty"`
	PrepTime           int               `json:"prep_time"`
	CookTime           int               `json:"cook_time"`
	TotalTime          int               `json:"total_time"`
	Servings           int               `json:"servings"`
	Difficulty         models.Difficulty `json:"difficulty"`
	ImageURL           string            `json:"image_url"`
	CaloriesPerServing *int              `json:"calories_per_serving,omitempty"`
	ProteinGrams       *float64          `json:"protein_grams,omitempty"`
	IsPublished        bool              `json:"is_published"`
	IsFeatured         bool              `json:"is_featured"`
	ViewCount          int               `json:"view_count"`
	LikeCount          int               `json:"like_count"`
	AverageRating      float64           `json:"average_rating"`
	RatingCount        int               `json:"rating_count"`
	CategoryID         *uuid.UUID        `json:"category_id,omitempty"`
	Categories         []CategorySummary `json:"categories"`
	Ingredients        []IngredientLine  `json:"ingredients,omitempty"`
	Author             *AuthorSummary    `json:"author,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

func NewRecipeResponse(r *models.Recipe, detail bool) RecipeResponse {
	resp := RecipeResponse{
		ID:                 r.ID,
		Title:              r.Title,
		Slug:               r.Slug,
		Description:        r.Description,
		PrepTime:           r.PrepTime,
		CookTime:           r.CookTime,
		TotalTime:          r.TotalTime,
		Servings:           r.Servings,
		Difficulty:         r.Difficulty,
		ImageURL:           r.ImageURL,
		CaloriesPerServing: r.CaloriesPerServing,
		ProteinGrams:       r.ProteinGrams,
		IsPublished:        r.IsPublished,
		IsFeatured:         r.IsFeatured,
		ViewCount:          r.ViewCount,
		LikeCount:          r.LikeCount,
		AverageRating:      r.AverageRating,
		RatingCount:        r.RatingCount,
		CategoryID:         r.CategoryID,
		Categories:         make([]CategorySummary, 0, len(r.Categories)),
		Author:             NewAuthorSummary(&r.Author),
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
	for _, c := range r.Categories {
		resp.Categories = append(resp.Categories, CategorySummary{ID: c.ID, Name: c.Name, Slug: c.Slug, Icon: c.Icon, Color: c.Color})
	}
	if detail {
		resp.Instructions = r.Instructions
		resp.Ingredients = make([]IngredientLine, 0, len(r.Ingredients))
		for _, ri := range r.Ingredients {
			resp.Ingredients = append(resp.Ingredients, IngredientLine{
				IngredientID: ri.IngredientID,
				Name:         ri.Ingredient.Name,
				Quantity:     ri.Quantity,
				Unit:         ri.Unit,
				Notes:        ri.Notes,
				Position:     ri.Position,
			})
		}
	}
	return resp
}

// NewRecipeList serializes a page of recipes in summary form
func NewRecipeList(recipes []models.Recipe) []RecipeResponse {
	out := make([]RecipeResponse, 0, len(recipes))
	for i := range recipes {
		out = append(out, NewRecipeResponse(&recipes[i], false))
	}
	return out
}

type RatingResponse struct {
	ID           uuid.UUID      `json:"id"`
	RecipeID     uuid.UUID      `json:"recipe_id"`
	Rating       int            `json:"rating"`
	Review       string         `json:"review"`
	IsVerified   bool           `json:"is_verified"`
	HelpfulCount int            `json:"helpful_count"`
	User         *AuthorSummary `json:"user,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func NewRatingResponse(r *models.Rating) RatingResponse {
	return RatingResponse{
		ID:           r.ID,
		RecipeID:     r.RecipeID,
		Rating:       r.Score,
		Review:       r.Review,
		IsVerified:   r.IsVerified,
		HelpfulCount: r.HelpfulCount,
		User:         NewAuthorSummary(&r.User),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// RatingSummary aggregates every rating of a recipe
type RatingSummary struct {
	AverageRating float64
	TotalRatings  int64
	// Distribution counts ratings per score, always keyed 1 through 5
	Distribution map[int]int64
}

// DistributionJSON renders the distribution with string keys "1".."5"
func (s RatingSummary) DistributionJSON() map[string]int64 {
	out := make(map[string]int64, models.MaxRatingScore)
	for score := models.MinRatingScore; score <= models.MaxRatingScore; score++ {
		out[strconv.Itoa(score)] = s.Distribution[score]
	}
	return out
}

// PlatformStats are the public counters behind GET /api/recipes/stats
type PlatformStats struct {
	TotalRecipes    int64 `json:"total_recipes"`
	TotalUsers      int64 `json:"total_users"`
	TotalChefs      int64 `json:"total_chefs"`
	TotalCategories int64 `json:"total_categories"`
	TotalRatings    int64 `json:"total_ratings"`
}

// DashboardStats back the admin dashboard
type DashboardStats struct {
	TotalUsers       int64            `json:"total_users"`
	TotalRecipes     int64            `json:"total_recipes"`
	TotalCategories  int64            `json:"total_categories"`
	TotalRatings     int64            `json:"total_ratings"`
	PublishedRecipes int64            `json:"published_recipes"`
	FeaturedRecipes  int64            `json:"featured_recipes"`
	RecentUsers      int64            `json:"recent_users"`
	RoleDistribution map[string]int64 `json:"role_distribution"`
	AverageRating    float64          `json:"average_rating"`
}
