package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cookeasy/backend/internal/middleware"
	"github.com/cookeasy/backend/internal/models"
	"github.com/cookeasy/backend/internal/service"
	"github.com/cookeasy/backend/internal/types"
)

const (
	defaultUsersPerPage = 20
	maxUsersPerPage     = 50
)

// UserHandler serves the public user directory and the caller's own collections
type UserHandler struct {
	userService     service.IUserService
	recipeService   service.IRecipeService
	favoriteService service.IFavoriteService
	authService     service.IAuthService
}

func NewUserHandler(userService service.IUserService, recipeService service.IRecipeService, favoriteService service.IFavoriteService, authService service.IAuthService) *UserHandler {
	return &UserHandler{
		userService:     userService,
		recipeService:   recipeService,
		favoriteService: favoriteService,
		authService:     authService,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.GET("", h.ListUsers)
		users.GET("/search", h.SearchUsers)
		users.GET("/:id", h.GetUser)
		users.GET("/:id/recipes", h.GetUserRecipes)

		me := users.Group("/me")
		me.Use(middleware.AuthMiddleware(h.authService), middleware.RequireActive(h.userService))
		me.GET("/recipes", h.MyRecipes)
		me.GET("/favorites", h.MyFavorites)
	}
}

// userList serializes users in public form with their stats
func (h *UserHandler) userList(c *gin.Context, users []models.User) ([]types.UserResponse, bool) {
	ids := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	stats, err := h.userService.Stats(c.Request.Context(), ids...)
	if err != nil {
		respondError(c, err)
		return nil, false
	}

	out := make([]types.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, types.NewUserResponse(&users[i], stats[users[i].ID], false))
	}
	return out, true
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	filter := types.UserFilter{
		PageRequest: pageRequest(c, defaultUsersPerPage, maxUsersPerPage),
		ActiveOnly:  true,
	}
	users, pagination, err := h.userService.ListUsers(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	out, ok := h.userList(c, users)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, paginated("Users retrieved successfully", "users", out, pagination))
}

func (h *UserHandler) SearchUsers(c *gin.Context) {
	users, pagination, err := h.userService.SearchUsers(c.Request.Context(), c.Query("q"), pageRequest(c, defaultUsersPerPage, maxUsersPerPage))
	if err != nil {
		respondError(c, err)
		return
	}

	out, ok := h.userList(c, users)
	if !ok {
		return
	}
	body := paginated("Search completed successfully", "users", out, pagination)
	body["query"] = c.Query("q")
	c.JSON(http.StatusOK, body)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := pathID(c, "id", "User")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	user, err := h.userService.GetPublicUser(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	stats, err := h.userService.Stats(ctx, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "User retrieved successfully",
		"user":    types.NewUserResponse(user, stats[user.ID], false),
	})
}

func (h *UserHandler) GetUserRecipes(c *gin.Context) {
	id, ok := pathID(c, "id", "User")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if _, err := h.userService.GetPublicUser(ctx, id); err != nil {
		respondError(c, err)
		return
	}

	filter := types.RecipeFilter{
		PageRequest: pageRequest(c, service.DefaultRecipesPerPage, service.MaxRecipesPerPage),
		AuthorID:    &id,
	}
	recipes, pagination, err := h.recipeService.ListRecipes(ctx, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginated("User recipes retrieved successfully", "recipes", types.NewRecipeList(recipes), pagination))
}

// MyRecipes includes the caller's drafts
func (h *UserHandler) MyRecipes(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	filter := types.RecipeFilter{
		PageRequest:   pageRequest(c, service.DefaultRecipesPerPage, service.MaxRecipesPerPage),
		AuthorID:      &userID,
		IncludeDrafts: true,
	}
	recipes, pagination, err := h.recipeService.ListRecipes(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginated("Your recipes retrieved successfully", "recipes", types.NewRecipeList(recipes), pagination))
}

func (h *UserHandler) MyFavorites(c *gin.Context) {
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
