package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/cookeasy/backend/internal/cache"
	"github.com/cookeasy/backend/internal/database"
	"github.com/cookeasy/backend/internal/middleware"
	"github.com/cookeasy/backend/internal/service"
)

const healthTimeout = 2 * time.Second

// HealthCheck reports API liveness plus the state of the database and cache.
// A down database answers 503; the cache is optional and never fails the check.
func HealthCheck(db *database.DB, c *cache.Cache) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), healthTimeout)
		defer cancel()

		status, code := "healthy", http.StatusOK
		dbState := "up"
		if err := db.HealthCheck(reqCtx); err != nil {
			logrus.WithError(err).Warn("health check: database unreachable")
			status, code, dbState = "unhealthy", http.StatusServiceUnavailable, "down"
		}

		cacheState := "disabled"
		if c.Enabled() {
			cacheState = "up"
			if err := c.Ping(reqCtx); err != nil {
				logrus.WithError(err).Warn("health check: redis unreachable")
				cacheState = "down"
			}
		}

		ctx.JSON(code, gin.H{
			"status":   status,
			"message":  "CookEasy API is running",
			"database": dbState,
			"cache":    cacheState,
		})
	}
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, deps Dependencies) *Services {
	health := HealthCheck(deps.DB, cache.New(deps.Redis))
	router.GET("/health", health)
	router.GET("/api/health", health)

	svc := NewServices(deps)
	limiters := NewLimiters(deps.Redis)
	if deps.Redis == nil {
		logrus.Warn("Redis not configured, rate limiting disabled")
	}

	authHandler := NewAuthHandler(svc.Auth, svc.Users, svc.Images, limiters.Login, limiters.Registration)
	catalogHandler := NewCatalogHandler(svc.Categories, svc.Ingredients, svc.Recipes, svc.Stats)
	recipeHandler := NewRecipeHandlerWithRateLimit(svc.Recipes, svc.Favorites, svc.Images, svc.Auth, svc.Users, limiters.RecipeCreation, limiters.RecipeModification)
	ratingHandler := NewRatingHandler(svc.Ratings, svc.Favorites, svc.Auth, svc.Users)
	userHandler := NewUserHandler(svc.Users, svc.Recipes, svc.Favorites, svc.Auth)
	adminHandler := NewAdminHandler(svc.Admin, svc.Users, svc.Recipes, svc.Categories, svc.Stats, svc.Auth)

	api := router.Group("/api")
	authHandler.RegisterRoutes(api)
	catalogHandler.RegisterRoutes(api)
	recipeHandler.RegisterRoutes(api)
	ratingHandler.RegisterRoutes(api)
	userHandler.RegisterRoutes(api)
	adminHandler.RegisterRoutes(api)

	if limiters.RecipeCreation != nil {
		RegisterRateLimitRoutes(api, svc.Auth, limiters.RecipeCreation, limiters.RecipeModification)
	}
	return svc
}

// RegisterRateLimitRoutes registers endpoints for checking rate limit status
func RegisterRateLimitRoutes(router *gin.RouterGroup, authService service.IAuthService, creationLimiter, modificationLimiter *middleware.RateLimiter) {
	rateLimits := router.Group("/rate-limits")
	rateLimits.Use(middleware.AuthMiddleware(authService))
	{
		rateLimits.GET("/recipe-creation", func(c *gin.Context) {
			userID, ok := callerID(c)
			if !ok {
				return
			}

			remaining, resetTime, err := creationLimiter.GetRemainingRequests(c.Request.Context(), userID.String())
			if err != nil {
				logrus.WithError(err).Error("failed to read recipe creation limit")
				errorJSON(c, http.StatusInternalServerError, "Failed to check rate limit", "internal_error")
				return
			}

			c.JSON(http.StatusOK, gin.H{
				"limit":      creationLimiter.Limit(),
				"remaining":  remaining,
				"reset_time": resetTime.Unix(),
				"window":     creationLimiter.Window().String(),
			})
		})

		rateLimits.GET("/recipe-modification/:recipe_id", func(c *gin.Context) {
			userID, ok := callerID(c)
			if !ok {
				return
			}
			recipeID, ok := pathID(c, "recipe_id", "Recipe")
			if !ok {
				return
			}

			key := userID.String() + ":" + recipeID.String()
			remaining, resetTime, err := modificationLimiter.GetRemainingRequests(c.Request.Context(), key)
			if err != nil {
				logrus.WithError(err).Error("failed to read recipe modification limit")
				errorJSON(c, http.StatusInternalServerError, "Failed to check rate limit", "internal_error")
				return
			}

			c.JSON(http.StatusOK, gin.H{
				"limit":      modificationLimiter.Limit(),
				"remaining":  remaining,
				"reset_time": resetTime.Unix(),
				"window":     modificationLimiter.Window().String(),
				"recipe_id":  recipeID,
			})
		})
	}
}
