package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cookeasy/backend/internal/middleware"
	"github.com/cookeasy/backend/internal/models"
	"github.com/cookeasy/backend/internal/service"
	"github.com/cookeasy/backend/internal/types"
)

// RatingHandler serves reviews, helpful votes and bookmarks
type RatingHandler struct {
	ratingService   service.IRatingService
	favoriteService service.IFavoriteService
	authService     service.IAuthService
	users           middleware.UserLoader
}

func NewRatingHandler(ratingService service.IRatingService, favoriteService service.IFavoriteService, authService service.IAuthService, users middleware.UserLoader) *RatingHandler {
	return &RatingHandler{
		ratingService:   ratingService,
		favoriteService: favoriteService,
		authService:     authService,
		users:           users,
	}
}

func (h *RatingHandler) RegisterRoutes(router *gin.RouterGroup) {
	authed := []gin.HandlerFunc{middleware.AuthMiddleware(h.authService), middleware.RequireActive(h.users)}

	recipes := router.Group("/recipes")
	{
		recipes.GET("/:id/ratings", h.ListRatings)
		recipes.POST("/:id/ratings", append(authed, h.RateRecipe)...)
		recipes.POST("/:id/rate", append(authed, h.RateRecipe)...)
		recipes.DELETE("/:id/ratings", append(authed, h.DeleteRating)...)
		recipes.POST("/ratings/:rating_id/helpful", append(authed, h.VoteHelpful)...)

		recipes.POST("/:id/favorite", append(authed, h.ToggleFavorite)...)
		recipes.GET("/favorites", append(authed, h.ListFavorites)...)
	}
}

func (h *RatingHandler) ListRatings(c *gin.Context) {
	recipeID, ok := pathID(c, "id", "Recipe")
	if !ok {
		return
	}

	ratings, pagination, summary, err := h.ratingService.ListRatings(c.Request.Context(), recipeID, pageRequest(c, service.DefaultRatingsPerPage, service.MaxRatingsPerPage))
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]types.RatingResponse, 0, len(ratings))
	for i := range ratings {
		out = append(out, types.NewRatingResponse(&ratings[i]))
	}
	c.JSON(http.StatusOK, gin.H{
		"message":             "Ratings retrieved successfully",
		"ratings":             out,
		"average_rating":      summary.AverageRating,
		"total_ratings":       summary.TotalRatings,
		"rating_distribution": summary.DistributionJSON(),
		"pagination":          pagination,
	})
}

// RateRecipe answers 201 for a first rating and 200 when it replaces one
func (h *RatingHandler) RateRecipe(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	recipeID, ok := pathID(c, "id", "Recipe")
	if !ok {
		return
	}

	var req types.RateRecipeRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	rating, created, err := h.ratingService.RateRecipe(ctx, userID, recipeID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	summary, err := h.ratingService.Summary(ctx, recipeID)
	if err != nil {
		respondError(c, err)
		return
	}

	status, message := http.StatusOK, "Rating updated successfully"
	if created {
		status, message = http.StatusCreated, "Rating added successfully"
	}
	c.JSON(status, gin.H{
		"message":        message,
		"rating":         types.NewRatingResponse(rating),
		"average_rating": summary.AverageRating,
		"total_ratings":  summary.TotalRatings,
		"is_favorite":    rating.Score >= models.FavoriteScore,
	})
}

func (h *RatingHandler) DeleteRating(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	recipeID, ok := pathID(c, "id", "Recipe")
	if !ok {
		return
	}

	if err := h.ratingService.DeleteRating(c.Request.Context(), userID, recipeID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Rating deleted successfully"})
}

func (h *RatingHandler) VoteHelpful(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	ratingID, ok := pathID(c, "rating_id", "Rating")
	if !ok {
		return
	}

	var req types.HelpfulVoteRequest
	if !bindJSON(c, &req) {
		return
	}
	helpful := true
	if req.IsHelpful != nil {
		helpful = *req.IsHelpful
	}

	rating, err := h.ratingService.VoteHelpful(c.Request.Context(), userID, ratingID, helpful)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":       "Vote recorded successfully",
		"helpful_count": rating.HelpfulCount,
	})
}

func (h *RatingHandler) ToggleFavorite(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	recipeID, ok := pathID(c, "id", "Recipe")
	if !ok {
		return
	}

	favorited, likes, err := h.favoriteService.ToggleFavorite(c.Request.Context(), userID, recipeID)
	if err != nil {
		respondError(c, err)
		return
	}

	message := "Recipe removed from favorites"
	if favorited {
		message = "Recipe added to favorites"
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    message,
		"favorited":  favorited,
		"like_count": likes,
	})
}

func (h *RatingHandler) ListFavorites(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	recipes, pagination, err := h.favoriteService.ListFavorites(c.Request.Context(), userID, pageRequest(c, service.DefaultRecipesPerPage, service.MaxRecipesPerPage))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginated("Favorites retrieved successfully", "favorites", types.NewRecipeList(recipes), pagination))
}
