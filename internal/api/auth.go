package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cookeasy/backend/internal/middleware"
	"github.com/cookeasy/backend/internal/service"
	"github.com/cookeasy/backend/internal/types"
)

// AuthHandler serves registration, login and the caller's own account
type AuthHandler struct {
	authService  service.IAuthService
	userService  service.IUserService
	imageService service.IImageService

	loginLimiter    *middleware.RateLimiter
	registerLimiter *middleware.RateLimiter
}

func NewAuthHandler(authService service.IAuthService, userService service.IUserService, imageService service.IImageService, loginLimiter, registerLimiter *middleware.RateLimiter) *AuthHandler {
	return &AuthHandler{
		authService:     authService,
		userService:     userService,
		imageService:    imageService,
		loginLimiter:    loginLimiter,
		registerLimiter: registerLimiter,
	}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", h.registerLimiter.Middleware(middleware.ByClientIP), h.Register)
		auth.POST("/login", h.loginLimiter.Middleware(middleware.ByClientIP), h.Login)

		authed := auth.Group("")
		authed.Use(middleware.AuthMiddleware(h.authService), middleware.RequireActive(h.userService))
		authed.GET("/profile", h.GetProfile)
		authed.PUT("/profile", h.UpdateProfile)
		authed.POST("/profile/image", h.UploadProfileImage)
		authed.POST("/change-password", h.ChangePassword)
		authed.POST("/logout", h.Logout)
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, token, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "User registered successfully",
		"access_token": token,
		"user":         types.NewUserResponse(user, types.UserStats{}, true),
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	stats, err := h.userService.Stats(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Login successful",
		"access_token": token,
		"user":         types.NewUserResponse(user, stats[user.ID], true),
	})
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	h.writeProfile(c, http.StatusOK, "", userID)
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req types.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	if _, err := h.userService.UpdateProfile(c.Request.Context(), userID, &req); err != nil {
		respondError(c, err)
		return
	}
	h.writeProfile(c, http.StatusOK, "Profile updated successfully", userID)
}

func (h *AuthHandler) UploadProfileImage(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	file, ok := formImage(c)
	if !ok {
		return
	}
	defer file.Close()

	if _, err := h.imageService.UploadProfileImage(c.Request.Context(), userID, file); err != nil {
		respondError(c, err)
		return
	}
	h.writeProfile(c, http.StatusOK, "Profile image updated successfully", userID)
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req types.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		errorJSON(c, http.StatusUnauthorized, "Authentication required", "unauthorized")
		return
	}

	if err := h.authService.Logout(c.Request.Context(), claims); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// writeProfile reloads the user so stats and updated fields are current
func (h *AuthHandler) writeProfile(c *gin.Context, status int, message string, userID uuid.UUID) {
	ctx := c.Request.Context()
	user, err := h.userService.GetUserByID(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	stats, err := h.userService.Stats(ctx, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	body := gin.H{"user": types.NewUserResponse(user, stats[user.ID], true)}
	if message != "" {
		body["message"] = message
	}
	c.JSON(status, body)
}
