package api

import (
	"github.com/redis/go-redis/v9"

	"github.com/cookeasy/backend/config"
	"github.com/cookeasy/backend/internal/cache"
	"github.com/cookeasy/backend/internal/database"
	"github.com/cookeasy/backend/internal/middleware"
	"github.com/cookeasy/backend/internal/service"
)

// Dependencies are the shared resources the HTTP layer is built from.
// Redis and Storage are optional.
type Dependencies struct {
	Config  *config.Config
	DB      *database.DB
	Redis   *redis.Client
	Storage *config.S3Config
}

// Services bundles every domain service behind its interface
type Services struct {
	Auth        service.IAuthService
	Users       service.IUserService
	Recipes     service.IRecipeService
	Ratings     service.IRatingService
	Favorites   service.IFavoriteService
	Categories  service.ICategoryService
	Ingredients service.IIngredientService
	Stats       service.IStatsService
	Admin       service.IAdminService
	Images      service.IImageService
}

// NewServices wires the domain services onto one database and cache
func NewServices(deps Dependencies) *Services {
	db := deps.DB.DB
	c := cache.New(deps.Redis)

	var store service.ObjectStore
	if deps.Storage != nil {
		store = deps.Storage
	}

	return &Services{
		Auth:        service.NewAuthService(db, deps.Config.JWTSecret, deps.Config.JWTTTL, c),
		Users:       service.NewUserService(db),
		Recipes:     service.NewRecipeService(db, c),
		Ratings:     service.NewRatingService(db, c),
		Favorites:   service.NewFavoriteService(db),
		Categories:  service.NewCategoryService(db, c),
		Ingredients: service.NewIngredientService(db),
		Stats:       service.NewStatsService(db, c),
		Admin:       service.NewAdminService(db, c),
		Images:      service.NewImageService(db, store),
	}
}

// Limiters are nil without Redis, which disables limiting
type Limiters struct {
	Login              *middleware.RateLimiter
	Registration       *middleware.RateLimiter
	RecipeCreation     *middleware.RateLimiter
	RecipeModification *middleware.RateLimiter
}

func NewLimiters(client *redis.Client) Limiters {
	return Limiters{
		Login:              middleware.NewLoginRateLimiter(client),
		Registration:       middleware.NewRegistrationRateLimiter(client),
		RecipeCreation:     middleware.NewRecipeCreationRateLimiter(client),
		RecipeModification: middleware.NewRecipeModificationRateLimiter(client),
	}
}
