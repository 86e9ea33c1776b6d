package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T) (*RateLimiter, *miniredis.Miniredis, *time.Time) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewRateLimiter(NewClientFromRedis(rdb))
	l.now = func() time.Time { return now }
	return l, mr, &now
}

func TestRateLimiter_AllowWithinWindow(t *testing.T) {
	l, _, _ := newTestLimiter(t)
	ctx := context.Background()
	key := BuildRateLimitKey("s1", "/ui/generate")

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, key, 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok, "request %d", i)
	}

	ok, err := l.Allow(ctx, key, 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	remaining, err := l.Remaining(ctx, key, 3, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)
}

func TestRateLimiter_WindowSlides(t *testing.T) {
	l, _, now := newTestLimiter(t)
	ctx := context.Background()
	key := BuildRateLimitKey("s1", "/v1/workspace/generate")

	ok, err := l.Allow(ctx, key, 1, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	ok, _ = l.Allow(ctx, key, 1, time.Minute)
	assert.False(t, ok)

	*now = now.Add(61 * time.Second)
	ok, err = l.Allow(ctx, key, 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	l, _, _ := newTestLimiter(t)
	ctx := context.Background()

	ok, _ := l.Allow(ctx, BuildRateLimitKey("a", "/g"), 1, time.Minute)
	assert.True(t, ok)
	ok, _ = l.Allow(ctx, BuildRateLimitKey("b", "/g"), 1, time.Minute)
	assert.True(t, ok)
}

func TestRateLimiter_Reset(t *testing.T) {
	l, mr, _ := newTestLimiter(t)
	ctx := context.Background()
	key := BuildRateLimitKey("s1", "/g")

	_, err := l.Allow(ctx, key, 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, mr.Exists(key))

	require.NoError(t, l.Reset(ctx, key))
	assert.False(t, mr.Exists(key))

	remaining, err := l.Remaining(ctx, key, 2, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 2, remaining)
}

func TestClient_HealthCheck(t *testing.T) {
	mr := miniredis.RunT(t)
	c := NewClientFromRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	defer c.Close()

	require.NoError(t, c.HealthCheck(context.Background()))

	mr.Close()
	assert.Error(t, c.HealthCheck(context.Background()))
}

func TestNewClient_Disabled(t *testing.T) {
	c, err := NewClient(nil)
	assert.NoError(t, err)
	assert.Nil(t, c)
}
