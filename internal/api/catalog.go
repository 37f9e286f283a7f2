package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cookeasy/backend/internal/service"
	"github.com/cookeasy/backend/internal/types"
)

// CatalogHandler serves the public taxonomy: categories, ingredients and platform counts
type CatalogHandler struct {
	categoryService   service.ICategoryService
	ingredientService service.IIngredientService
	recipeService     service.IRecipeService
	statsService      service.IStatsService
}

func NewCatalogHandler(categoryService service.ICategoryService, ingredientService service.IIngredientService, recipeService service.IRecipeService, statsService service.IStatsService) *CatalogHandler {
	return &CatalogHandler{
		categoryService:   categoryService,
		ingredientService: ingredientService,
		recipeService:     recipeService,
		statsService:      statsService,
	}
}

func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("/categories", h.ListCategories)
		recipes.GET("/categories/:id", h.GetCategory)
		recipes.GET("/ingredients", h.ListIngredients)
		recipes.GET("/ingredients/:id", h.GetIngredient)
		recipes.GET("/stats", h.PlatformStats)
	}
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.categoryService.ListActive(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    "Categories retrieved successfully",
		"categories": categories,
	})
}

// GetCategory returns an active category and a page of its published recipes
func (h *CatalogHandler) GetCategory(c *gin.Context) {
	id, ok := pathID(c, "id", "Category")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	category, err := h.categoryService.GetCategory(ctx, id, false)
	if err != nil {
		respondError(c, err)
		return
	}

	filter := types.RecipeFilter{
		PageRequest: pageRequest(c, service.DefaultRecipesPerPage, service.MaxRecipesPerPage),
		CategoryID:  &id,
		SortBy:      c.Query("sort_by"),
	}
	recipes, pagination, err := h.recipeService.ListRecipes(ctx, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	body := paginated("Category retrieved successfully", "recipes", types.NewRecipeList(recipes), pagination)
	body["category"] = category
	c.JSON(http.StatusOK, body)
}

func (h *CatalogHandler) ListIngredients(c *gin.Context) {
	ingredients, err := h.ingredientService.ListIngredients(c.Request.Context(), types.IngredientFilter{
		Query:    c.Query("q"),
		Category: c.Query("category"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":     "Ingredients retrieved successfully",
		"ingredients": ingredients,
		"total":       len(ingredients),
	})
}

func (h *CatalogHandler) GetIngredient(c *gin.Context) {
	id, ok := pathID(c, "id", "Ingredient")
	if !ok {
		return
	}

	ingredient, err := h.ingredientService.GetIngredient(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    "Ingredient retrieved successfully",
		"ingredient": ingredient,
	})
}

func (h *CatalogHandler) PlatformStats(c *gin.Context) {
	stats, err := h.statsService.PlatformStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Statistics retrieved successfully",
		"stats":   stats,
	})
}
