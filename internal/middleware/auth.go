package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cookeasy/backend/internal/models"
	"github.com/cookeasy/backend/internal/types"
)

// Context keys set by the auth and role middleware
const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
	ContextRole     = "role"
	ContextClaims   = "claims"
)

// TokenValidator is an interface for validating JWT tokens
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
}

// AuthMiddleware rejects requests without a valid bearer token
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c)
		if err != nil {
			abortJSON(c, http.StatusUnauthorized, err.Error(), "unauthorized")
			return
		}

		claims, err := validator.ValidateToken(c.Request.Context(), token)
		if err != nil {
			abortJSON(c, http.StatusUnauthorized, "Invalid or expired token", "unauthorized")
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuth attaches claims when a valid token is present and never aborts
func OptionalAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := bearerToken(c); err == nil {
			if claims, err := validator.ValidateToken(c.Request.Context(), token); err == nil {
				setClaims(c, claims)
			}
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", errors.New("Authorization header is required")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", errors.New("Authorization header must be Bearer <token>")
	}
	return strings.TrimSpace(parts[1]), nil
}

func setClaims(c *gin.Context, claims *types.TokenClaims) {
	c.Set(ContextClaims, claims)
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextUsername, claims.Username)
	c.Set(ContextRole, models.Role(claims.Role))
}

// UserID returns the authenticated user's id
func UserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// Role returns the caller's role; after RequireRoles it reflects the database
func Role(c *gin.Context) models.Role {
	if v, ok := c.Get(ContextRole); ok {
		if role, ok := v.(models.Role); ok {
			return role
		}
	}
	return ""
}

// Claims returns the validated token claims
func Claims(c *gin.Context) (*types.TokenClaims, bool) {
	v, ok := c.Get(ContextClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*types.TokenClaims)
	return claims, ok
}

func abortJSON(c *gin.Context, status int, message, code string) {
	c.AbortWithStatusJSON(status, gin.H{"message": message, "error": code})
}
