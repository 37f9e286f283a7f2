package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cookeasy/backend/internal/middleware"
	"github.com/cookeasy/backend/internal/service"
	"github.com/cookeasy/backend/internal/types"
)

type RecipeHandler struct {
	recipeService   service.IRecipeService
	favoriteService service.IFavoriteService
	imageService    service.IImageService
	authService     service.IAuthService
	users           service.IUserService

	creationLimiter     *middleware.RateLimiter
	modificationLimiter *middleware.RateLimiter
}

func NewRecipeHandler(recipeService service.IRecipeService, favoriteService service.IFavoriteService, imageService service.IImageService, authService service.IAuthService, users service.IUserService) *RecipeHandler {
	return &RecipeHandler{
		recipeService:   recipeService,
		favoriteService: favoriteService,
		imageService:    imageService,
		authService:     authService,
		users:           users,
	}
}

// NewRecipeHandlerWithRateLimit creates a recipe handler whose writes are rate limited.
// Either limiter may be nil.
func NewRecipeHandlerWithRateLimit(recipeService service.IRecipeService, favoriteService service.IFavoriteService, imageService service.IImageService, authService service.IAuthService, users service.IUserService, creationLimiter, modificationLimiter *middleware.RateLimiter) *RecipeHandler {
	h := NewRecipeHandler(recipeService, favoriteService, imageService, authService, users)
	h.creationLimiter = creationLimiter
	h.modificationLimiter = modificationLimiter
	return h
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := middleware.AuthMiddleware(h.authService)

	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/featured", h.FeaturedRecipes)
		recipes.GET("/popular", h.PopularRecipes)
		recipes.GET("/search", h.SearchRecipes)
		recipes.GET("/user/:user_id", h.ListUserRecipes)
		recipes.GET("/:id", middleware.OptionalAuth(h.authService), h.GetRecipe)

		recipes.POST("", auth, middleware.ChefOrAdmin(h.users), h.creationLimiter.Middleware(middleware.ByUser), h.CreateRecipe)
		recipes.PUT("/:id", auth, middleware.RequireActive(h.users), h.modificationLimiter.Middleware(middleware.ByUserAndParam("id")), h.UpdateRecipe)
		recipes.DELETE("/:id", auth, middleware.RequireActive(h.users), h.DeleteRecipe)
		recipes.POST("/:id/image", auth, middleware.RequireActive(h.users), h.modificationLimiter.Middleware(middleware.ByUserAndParam("id")), h.UploadRecipeImage)
	}
}

// recipeFilter reads the shared list and search query parameters
func recipeFilter(c *gin.Context) (types.RecipeFilter, bool) {
	categoryID, ok := queryID(c, "category_id")
	if !ok {
		return types.RecipeFilter{}, false
	}
	return types.RecipeFilter{
		PageRequest: pageRequest(c, service.DefaultRecipesPerPage, service.MaxRecipesPerPage),
		Query:       strings.TrimSpace(c.Query("q")),
		CategoryID:  categoryID,
		Difficulty:  c.Query("difficulty"),
		SortBy:      c.Query("sort_by"),
	}, true
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	filter, ok := recipeFilter(c)
	if !ok {
		return
	}

	recipes, pagination, err := h.recipeService.ListRecipes(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginated("Recipes retrieved successfully", "recipes", types.NewRecipeList(recipes), pagination))
}

func (h *RecipeHandler) SearchRecipes(c *gin.Context) {
	filter, ok := recipeFilter(c)
	if !ok {
		return
	}

	recipes, pagination, err := h.recipeService.SearchRecipes(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	body := paginated("Search completed successfully", "recipes", types.NewRecipeList(recipes), pagination)
	body["query"] = filter.Query
	c.JSON(http.StatusOK, body)
}

func (h *RecipeHandler) FeaturedRecipes(c *gin.Context) {
	recipes, err := h.recipeService.FeaturedRecipes(c.Request.Context(), queryInt(c, "limit", service.DefaultHighlightLimit))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Featured recipes retrieved successfully",
		"recipes": types.NewRecipeList(recipes),
	})
}

func (h *RecipeHandler) PopularRecipes(c *gin.Context) {
	recipes, err := h.recipeService.PopularRecipes(c.Request.Context(), queryInt(c, "limit", service.DefaultHighlightLimit))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Popular recipes retrieved successfully",
		"recipes": types.NewRecipeList(recipes),
	})
}

func (h *RecipeHandler) ListUserRecipes(c *gin.Context) {
	authorID, ok := pathID(c, "user_id", "User")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	author, err := h.users.GetPublicUser(ctx, authorID)
	if err != nil {
		respondError(c, err)
		return
	}

	filter := types.RecipeFilter{
		PageRequest: pageRequest(c, service.DefaultRecipesPerPage, service.MaxRecipesPerPage),
		AuthorID:    &authorID,
	}
	recipes, pagination, err := h.recipeService.ListRecipes(ctx, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	body := paginated("User recipes retrieved successfully", "recipes", types.NewRecipeList(recipes), pagination)
	body["user"] = types.NewAuthorSummary(author)
	c.JSON(http.StatusOK, body)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := pathID(c, "id", "Recipe")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	viewer := actor(c)
	recipe, err := h.recipeService.ViewRecipe(ctx, id, viewer)
	if err != nil {
		respondError(c, err)
		return
	}

	body := gin.H{
		"message": "Recipe retrieved successfully",
		"recipe":  types.NewRecipeResponse(recipe, true),
	}
	if viewer != nil {
		favorited, err := h.favoriteService.IsFavorite(ctx, viewer.ID, recipe.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		body["is_favorited"] = favorited
	}
	c.JSON(http.StatusOK, body)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	authorID, ok := callerID(c)
	if !ok {
		return
	}

	var req types.CreateRecipeRequest
	if !bindJSON(c, &req) {
		return
	}

	recipe, err := h.recipeService.CreateRecipe(c.Request.Context(), authorID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Recipe created successfully",
		"recipe":  types.NewRecipeResponse(recipe, true),
	})
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := pathID(c, "id", "Recipe")
	if !ok {
		return
	}

	var req types.UpdateRecipeRequest
	if !bindJSON(c, &req) {
		return
	}

	recipe, err := h.recipeService.UpdateRecipe(c.Request.Context(), actor(c), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Recipe updated successfully",
		"recipe":  types.NewRecipeResponse(recipe, true),
	})
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := pathID(c, "id", "Recipe")
	if !ok {
		return
	}

	if err := h.recipeService.DeleteRecipe(c.Request.Context(), actor(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Recipe deleted successfully"})
}
