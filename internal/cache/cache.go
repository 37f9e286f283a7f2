// Package cache holds the Redis-backed JSON cache and token denylist.
// A Cache built from a nil client is disabled: reads miss and writes are dropped.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Keys shared between writers and invalidators
const (
	KeyActiveCategories = "categories:active"
	KeyPlatformStats    = "stats:platform"

	revokedPrefix = "auth:revoked:"
)

type Cache struct {
	client *redis.Client
}

func New(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Enabled reports whether a Redis client backs the cache
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// Ping checks Redis connectivity
func (c *Cache) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// GetJSON decodes key into dest; found is false on a miss or when disabled
func (c *Cache) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read cache key %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, fmt.Errorf("failed to decode cache key %s: %w", key, err)
	}
	return true, nil
}

// SetJSON stores value under key for ttl
func (c *Cache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache key %s: %w", key, err)
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

// Delete removes keys; missing keys are not an error
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if !c.Enabled() || len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// Remember returns the cached value for key, loading and storing it on a miss.
// Redis failures fall through to load so the cache never blocks a read.
func Remember[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, load func() (T, error)) (T, error) {
	var cached T
	if found, err := c.GetJSON(ctx, key, &cached); err == nil && found {
		return cached, nil
	}
	value, err := load()
	if err != nil {
		return value, err
	}
	_ = c.SetJSON(ctx, key, value, ttl)
	return value, nil
}

// Revoke denylists a token id until ttl elapses
func (c *Cache) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if !c.Enabled() || tokenID == "" || ttl <= 0 {
		return nil
	}
	return c.client.Set(ctx, revokedPrefix+tokenID, 1, ttl).Err()
}

// IsRevoked reports whether a token id was revoked
func (c *Cache) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if !c.Enabled() || tokenID == "" {
		return false, nil
	}
	n, err := c.client.Exists(ctx, revokedPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
