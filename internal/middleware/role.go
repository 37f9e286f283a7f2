package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cookeasy/backend/internal/models"
	"github.com/cookeasy/backend/internal/service"
)

// UserLoader loads the account behind a token
type UserLoader interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// RequireRoles reloads the caller and checks it is active and holds one of
// roles. With no roles any active account passes. Must run after AuthMiddleware.
func RequireRoles(users UserLoader, roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserID(c)
		if !ok {
			abortJSON(c, http.StatusUnauthorized, "Authentication required", "unauthorized")
			return
		}

		user, err := users.GetUserByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				abortJSON(c, http.StatusUnauthorized, "User not found", "unauthorized")
				return
			}
			logrus.WithError(err).WithField("user_id", userID).Error("failed to load user for role check")
			abortJSON(c, http.StatusInternalServerError, "Internal server error", "internal_error")
			return
		}
		if !user.IsActive {
			abortJSON(c, http.StatusUnauthorized, "Account is deactivated", "account_disabled")
			return
		}

		if len(roles) > 0 && !hasRole(user.Role, roles) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"message":        "Insufficient permissions",
				"error":          "forbidden",
				"required_roles": roles,
				"user_role":      user.Role,
			})
			return
		}

		c.Set(ContextRole, user.Role)
		c.Next()
	}
}

// RequireActive passes any active account
func RequireActive(users UserLoader) gin.HandlerFunc {
	return RequireRoles(users)
}

// AdminOnly passes only admins
func AdminOnly(users UserLoader) gin.HandlerFunc {
	return RequireRoles(users, models.RoleAdmin)
}

// ChefOrAdmin passes recipe authors
func ChefOrAdmin(users UserLoader) gin.HandlerFunc {
	return RequireRoles(users, models.RoleChef, models.RoleAdmin)
}

func hasRole(role models.Role, allowed []models.Role) bool {
	for _, r := range allowed {
		if role == r {
			return true
		}
	}
	return false
}
