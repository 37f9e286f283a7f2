package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cookeasy/backend/internal/middleware"
	"github.com/cookeasy/backend/internal/models"
	"github.com/cookeasy/backend/internal/service"
	"github.com/cookeasy/backend/internal/types"
)

const maxAdminPerPage = 100

// AdminHandler serves moderation and taxonomy management for admins
type AdminHandler struct {
	adminService    service.IAdminService
	userService     service.IUserService
	recipeService   service.IRecipeService
	categoryService service.ICategoryService
	statsService    service.IStatsService
	authService     service.IAuthService
}

func NewAdminHandler(adminService service.IAdminService, userService service.IUserService, recipeService service.IRecipeService, categoryService service.ICategoryService, statsService service.IStatsService, authService service.IAuthService) *AdminHandler {
	return &AdminHandler{
		adminService:    adminService,
		userService:     userService,
		recipeService:   recipeService,
		categoryService: categoryService,
		statsService:    statsService,
		authService:     authService,
	}
}

func (h *AdminHandler) RegisterRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin")
	admin.Use(middleware.AuthMiddleware(h.authService), middleware.AdminOnly(h.userService))
	{
		admin.GET("/dashboard", h.Dashboard)

		admin.GET("/users", h.ListUsers)
		admin.PUT("/users/:id/role", h.UpdateRole)
		admin.PUT("/users/:id/toggle-status", h.ToggleStatus)
		admin.PUT("/users/:id/verify", h.VerifyUser)

		admin.GET("/recipes", h.ListRecipes)
		admin.PUT("/recipes/:id/toggle-featured", h.ToggleFeatured)

		admin.GET("/categories", h.ListCategories)
		admin.POST("/categories", h.CreateCategory)
		admin.PUT("/categories/:id", h.UpdateCategory)
		admin.DELETE("/categories/:id", h.DeleteCategory)
	}
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.statsService.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Dashboard data retrieved successfully",
		"stats":   stats,
	})
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	role := strings.TrimSpace(c.Query("role"))
	if role != "" && !models.Role(role).Valid() {
		errorJSON(c, http.StatusBadRequest, "Role must be one of user, chef, admin", "validation_error")
		return
	}

	ctx := c.Request.Context()
	users, pagination, err := h.userService.ListUsers(ctx, types.UserFilter{
		PageRequest: pageRequest(c, defaultUsersPerPage, maxAdminPerPage),
		Search:      strings.TrimSpace(c.Query("search")),
		Role:        role,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	ids := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	stats, err := h.userService.Stats(ctx, ids...)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]types.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, types.NewUserResponse(&users[i], stats[users[i].ID], true))
	}
	c.JSON(http.StatusOK, paginated("Users retrieved successfully", "users", out, pagination))
}

func (h *AdminHandler) UpdateRole(c *gin.Context) {
	adminID, ok := callerID(c)
	if !ok {
		return
	}
	targetID, ok := pathID(c, "id", "User")
	if !ok {
		return
	}

	var req types.UpdateRoleRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.adminService.SetRole(c.Request.Context(), adminID, targetID, models.Role(strings.TrimSpace(req.Role)))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "User role updated to " + string(user.Role),
		"user":    types.NewUserResponse(user, types.UserStats{}, true),
	})
}

func (h *AdminHandler) ToggleStatus(c *gin.Context) {
	adminID, ok := callerID(c)
	if !ok {
		return
	}
	targetID, ok := pathID(c, "id", "User")
	if !ok {
		return
	}

	user, err := h.adminService.ToggleStatus(c.Request.Context(), adminID, targetID)
	if err != nil {
		respondError(c, err)
		return
	}

	status := "deactivated"
	if user.IsActive {
		status = "activated"
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "User " + status + " successfully",
		"user":    types.NewUserResponse(user, types.UserStats{}, true),
	})
}

func (h *AdminHandler) VerifyUser(c *gin.Context) {
	targetID, ok := pathID(c, "id", "User")
	if !ok {
		return
	}

	var req types.VerifyUserRequest
	if !bindJSON(c, &req) {
		return
	}
	verified := true
	if req.IsVerified != nil {
		verified = *req.IsVerified
	}

	user, err := h.adminService.SetVerified(c.Request.Context(), targetID, verified)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "User verification updated successfully",
		"user":    types.NewUserResponse(user, types.UserStats{}, true),
	})
}

func (h *AdminHandler) ListRecipes(c *gin.Context) {
	filter := types.RecipeFilter{
		PageRequest:   pageRequest(c, defaultUsersPerPage, maxAdminPerPage),
		Query:         strings.TrimSpace(c.Query("search")),
		Status:        c.Query("status"),
		IncludeDrafts: true,
	}
	recipes, pagination, err := h.recipeService.ListRecipes(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginated("Recipes retrieved successfully", "recipes", types.NewRecipeList(recipes), pagination))
}

func (h *AdminHandler) ToggleFeatured(c *gin.Context) {
	id, ok := pathID(c, "id", "Recipe")
	if !ok {
		return
	}

	recipe, err := h.adminService.ToggleFeatured(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	status := "unfeatured"
	if recipe.IsFeatured {
		status = "featured"
	}
	c.JSON(http.StatusOK, gin.H{
		"message":     "Recipe " + status + " successfully",
		"is_featured": recipe.IsFeatured,
	})
}

func (h *AdminHandler) ListCategories(c *gin.Context) {
	categories, err := h.categoryService.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    "Categories retrieved successfully",
		"categories": categories,
	})
}

func (h *AdminHandler) CreateCategory(c *gin.Context) {
	var req types.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.categoryService.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":  "Category created successfully",
		"category": types.NewCategoryResponse(category, 0),
	})
}

func (h *AdminHandler) UpdateCategory(c *gin.Context) {
	id, ok := pathID(c, "id", "Category")
	if !ok {
		return
	}

	var req types.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	if _, err := h.categoryService.UpdateCategory(ctx, id, &req); err != nil {
		respondError(c, err)
		return
	}
	category, err := h.categoryService.GetCategory(ctx, id, true)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "Category updated successfully",
		"category": category,
	})
}

func (h *AdminHandler) DeleteCategory(c *gin.Context) {
	id, ok := pathID(c, "id", "Category")
	if !ok {
		return
	}

	if err := h.categoryService.DeleteCategory(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}
