package service

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/cookeasy/backend/internal/models"
	"github.com/cookeasy/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*models.User, string, error)
	Login(ctx context.Context, req *types.LoginRequest) (*models.User, string, error)
	GenerateToken(user *models.User) (string, error)
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
	Logout(ctx context.Context, claims *types.TokenClaims) error
	ChangePassword(ctx context.Context, userID uuid.UUID, req *types.ChangePasswordRequest) error
}

// IUserService defines the interface for profile and user directory operations
type IUserService interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetPublicUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*models.User, error)
	ListUsers(ctx context.Context, filter types.UserFilter) ([]models.User, types.Pagination, error)
	SearchUsers(ctx context.Context, query string, page types.PageRequest) ([]models.User, types.Pagination, error)
	Stats(ctx context.Context, ids ...uuid.UUID) (map[uuid.UUID]types.UserStats, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, authorID uuid.UUID, req *types.CreateRecipeRequest) (*models.Recipe, error)
	GetRecipe(ctx context.Context, id uuid.UUID, viewer *Actor) (*models.Recipe, error)
	ViewRecipe(ctx context.Context, id uuid.UUID, viewer *Actor) (*models.Recipe, error)
	UpdateRecipe(ctx context.Context, actor *Actor, id uuid.UUID, req *types.UpdateRecipeRequest) (*models.Recipe, error)
	DeleteRecipe(ctx context.Context, actor *Actor, id uuid.UUID) error
	ListRecipes(ctx context.Context, filter types.RecipeFilter) ([]models.Recipe, types.Pagination, error)
	SearchRecipes(ctx context.Context, filter types.RecipeFilter) ([]models.Recipe, types.Pagination, error)
	FeaturedRecipes(ctx context.Context, limit int) ([]models.Recipe, error)
	PopularRecipes(ctx context.Context, limit int) ([]models.Recipe, error)
}

// IRatingService defines the interface for ratings and reviews
type IRatingService interface {
	RateRecipe(ctx context.Context, userID, recipeID uuid.UUID, req *types.RateRecipeRequest) (*models.Rating, bool, error)
	DeleteRating(ctx context.Context, userID, recipeID uuid.UUID) error
	ListRatings(ctx context.Context, recipeID uuid.UUID, page types.PageRequest) ([]models.Rating, types.Pagination, *types.RatingSummary, error)
	Summary(ctx context.Context, recipeID uuid.UUID) (*types.RatingSummary, error)
	VoteHelpful(ctx context.Context, userID, ratingID uuid.UUID, isHelpful bool) (*models.Rating, error)
}

// IFavoriteService defines the interface for bookmarks
type IFavoriteService interface {
	ToggleFavorite(ctx context.Context, userID, recipeID uuid.UUID) (bool, int, error)
	IsFavorite(ctx context.Context, userID, recipeID uuid.UUID) (bool, error)
	ListFavorites(ctx context.Context, userID uuid.UUID, page types.PageRequest) ([]models.Recipe, types.Pagination, error)
}

// ICategoryService defines the interface for the category taxonomy
type ICategoryService interface {
	ListActive(ctx context.Context) ([]types.CategoryResponse, error)
	ListAll(ctx context.Context) ([]types.CategoryResponse, error)
	GetCategory(ctx context.Context, id uuid.UUID, includeInactive bool) (*types.CategoryResponse, error)
	CreateCategory(ctx context.Context, req *types.CategoryRequest) (*models.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, req *types.CategoryRequest) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type IIngredientService interface {
	ListIngredients(ctx context.Context, filter types.IngredientFilter) ([]models.Ingredient, error)
	GetIngredient(ctx context.Context, id uuid.UUID) (*models.Ingredient, error)
}

type IStatsService interface {
	PlatformStats(ctx context.Context) (*types.PlatformStats, error)
	Dashboard(ctx context.Context) (*types.DashboardStats, error)
}

// IAdminService defines moderation operations
type IAdminService interface {
	SetRole(ctx context.Context, actorID, targetID uuid.UUID, role models.Role) (*models.User, error)
	ToggleStatus(ctx context.Context, actorID, targetID uuid.UUID) (*models.User, error)
	SetVerified(ctx context.Context, targetID uuid.UUID, verified bool) (*models.User, error)
	ToggleFeatured(ctx context.Context, recipeID uuid.UUID) (*models.Recipe, error)
}

// IImageService defines image upload operations
type IImageService interface {
	UploadRecipeImage(ctx context.Context, actor *Actor, recipeID uuid.UUID, file io.Reader) (*models.Recipe, error)
	UploadProfileImage(ctx context.Context, userID uuid.UUID, file io.Reader) (*models.User, error)
}
