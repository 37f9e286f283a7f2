package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledCache(t *testing.T) {
	ctx := context.Background()
	for _, c := range []*Cache{nil, New(nil)} {
		assert.False(t, c.Enabled())
		assert.NoError(t, c.Ping(ctx))

		var out map[string]int
		found, err := c.GetJSON(ctx, "k", &out)
		assert.NoError(t, err)
		assert.False(t, found)

		assert.NoError(t, c.SetJSON(ctx, "k", map[string]int{"a": 1}, time.Minute))
		assert.NoError(t, c.Delete(ctx, "k"))
		assert.NoError(t, c.Revoke(ctx, "jti", time.Minute))

		revoked, err := c.IsRevoked(ctx, "jti")
		assert.NoError(t, err)
		assert.False(t, revoked)
	}
}

func TestRememberLoadsOnMiss(t *testing.T) {
	calls := 0
	load := func() ([]string, error) {
		calls++
		return []string{"soup"}, nil
	}

	got, err := Remember(context.Background(), New(nil), "k", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, []string{"soup"}, got)

	_, err = Remember(context.Background(), New(nil), "k", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRememberPropagatesLoadError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Remember(context.Background(), New(nil), "k", time.Minute, func() (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)
}
