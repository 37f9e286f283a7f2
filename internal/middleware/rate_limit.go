package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Window is the fixed window length
	Window time.Duration
	// Limit is the maximum number of requests allowed in the window
	Limit int
	// KeyPrefix namespaces the Redis counters
	KeyPrefix string
	// Subject describes what is being limited in the 429 message
	Subject string
}

// KeyFunc picks the identity a request is counted against; "" skips limiting
type KeyFunc func(c *gin.Context) string

// ByUser counts per authenticated user
func ByUser(c *gin.Context) string {
	if id, ok := UserID(c); ok {
		return id.String()
	}
	return ""
}

// ByClientIP counts per remote address
func ByClientIP(c *gin.Context) string {
	return c.ClientIP()
}

// ByUserAndParam counts per user per value of a route parameter
func ByUserAndParam(param string) KeyFunc {
	return func(c *gin.Context) string {
		user := ByUser(c)
		if user == "" {
			return ""
		}
		return user + ":" + c.Param(param)
	}
}

// RateLimiter is a fixed-window counter in Redis. A nil *RateLimiter allows everything.
type RateLimiter struct {
	redis  *redis.Client
	config RateLimitConfig
	now    func() time.Time
}

// NewRateLimiter returns nil when redisClient is nil
func NewRateLimiter(redisClient *redis.Client, config RateLimitConfig) *RateLimiter {
	if redisClient == nil {
		return nil
	}
	return &RateLimiter{redis: redisClient, config: config, now: time.Now}
}

// Limit returns the configured request budget per window
func (rl *RateLimiter) Limit() int {
	if rl == nil {
		return 0
	}
	return rl.config.Limit
}

// Window returns the length of one counting window
func (rl *RateLimiter) Window() time.Duration {
	if rl == nil {
		return 0
	}
	return rl.config.Window
}

// Middleware enforces the limit for the identity chosen by key.
// Redis failures let the request through.
func (rl *RateLimiter) Middleware(key KeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl == nil {
			c.Next()
			return
		}
		id := key(c)
		if id == "" {
			c.Next()
			return
		}

		allowed, remaining, resetTime, err := rl.IsAllowed(c.Request.Context(), id)
		if err != nil {
			logrus.WithError(err).WithField("limiter", rl.config.KeyPrefix).Warn("rate limit check failed")
			c.Header("X-RateLimit-Error", "rate limit check failed")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			retryAfter := int(resetTime.Sub(rl.now()).Seconds())
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":                "rate_limited",
				"message":              fmt.Sprintf("You have exceeded the limit of %d %s per %v", rl.config.Limit, rl.config.Subject, rl.config.Window),
				"rate_limit_remaining": remaining,
				"rate_limit_reset":     resetTime.Unix(),
				"retry_after":          retryAfter,
			})
			return
		}

		c.Next()
	}
}

func (rl *RateLimiter) window() (string, time.Time) {
	start := rl.now().Truncate(rl.config.Window)
	return strconv.FormatInt(start.Unix(), 10), start.Add(rl.config.Window)
}

func (rl *RateLimiter) key(id, window string) string {
	return rl.config.KeyPrefix + ":" + id + ":" + window
}

// IsAllowed counts a request from id.
// Returns: allowed, remaining requests, reset time, error
func (rl *RateLimiter) IsAllowed(ctx context.Context, id string) (bool, int, time.Time, error) {
	window, resetTime := rl.window()
	key := rl.key(id, window)

	pipe := rl.redis.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, rl.config.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, err
	}

	count := int(incr.Val())
	remaining := rl.config.Limit - count
	if remaining < 0 {
		remaining = 0
	}
	return count <= rl.config.Limit, remaining, resetTime, nil
}

// GetRemainingRequests reports the budget left for id without consuming any
func (rl *RateLimiter) GetRemainingRequests(ctx context.Context, id string) (int, time.Time, error) {
	window, resetTime := rl.window()

	count, err := rl.redis.Get(ctx, rl.key(id, window)).Int()
	if err == redis.Nil {
		return rl.config.Limit, resetTime, nil
	}
	if err != nil {
		return 0, time.Time{}, err
	}

	remaining := rl.config.Limit - count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, resetTime, nil
}

// NewLoginRateLimiter allows 10 login attempts per client per 15 minutes
func NewLoginRateLimiter(redisClient *redis.Client) *RateLimiter {
	return NewRateLimiter(redisClient, RateLimitConfig{
		Window:    15 * time.Minute,
		Limit:     10,
		KeyPrefix: "rate_limit:login",
		Subject:   "login attempts",
	})
}

// NewRegistrationRateLimiter allows 5 sign-ups per client per hour
func NewRegistrationRateLimiter(redisClient *redis.Client) *RateLimiter {
	return NewRateLimiter(redisClient, RateLimitConfig{
		Window:    time.Hour,
		Limit:     5,
		KeyPrefix: "rate_limit:register",
		Subject:   "registrations",
	})
}

// NewRecipeCreationRateLimiter allows 20 new recipes per author per hour
func NewRecipeCreationRateLimiter(redisClient *redis.Client) *RateLimiter {
	return NewRateLimiter(redisClient, RateLimitConfig{
		Window:    time.Hour,
		Limit:     20,
		KeyPrefix: "rate_limit:recipe_creation",
		Subject:   "new recipes",
	})
}

// NewRecipeModificationRateLimiter allows 30 edits per recipe per user per hour
func NewRecipeModificationRateLimiter(redisClient *redis.Client) *RateLimiter {
	return NewRateLimiter(redisClient, RateLimitConfig{
		Window:    time.Hour,
		Limit:     30,
		KeyPrefix: "rate_limit:recipe_modification",
		Subject:   "modifications per recipe",
	})
}
