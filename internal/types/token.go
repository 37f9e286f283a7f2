package types

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenClaims represents the claims in a CookEasy access token
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Role     string    `json:"role"`
}

// TokenID is the jti used for revocation
func (c *TokenClaims) TokenID() string {
	return c.RegisteredClaims.ID
}

// TimeToExpiry is how long the token stays valid; zero once expired
func (c *TokenClaims) TimeToExpiry(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	if d := c.ExpiresAt.Time.Sub(now); d > 0 {
		return d
	}
	return 0
}
