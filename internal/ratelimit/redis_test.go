package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisTestLimiter(t *testing.T) (*RedisLimiter, *time.Time) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	l := NewRedisLimiter(client)
	now := time.Now()
	l.now = func() time.Time { return now }
	return l, &now
}

func TestRedisLimiter_AllowsUpToLimit(t *testing.T) {
	l, _ := newRedisTestLimiter(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		ok, err := l.Allow(ctx, "send:a@b.com", 5, 10*time.Minute)
		require.NoError(t, err)
		assert.True(t, ok, "attempt %d should be allowed", i+1)
	}
	ok, err := l.Allow(ctx, "send:a@b.com", 5, 10*time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisLimiter_WindowElapses(t *testing.T) {
	l, now := newRedisTestLimiter(t)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		_, err := l.Allow(ctx, "k", 5, 10*time.Minute)
		require.NoError(t, err)
	}
	*now = now.Add(10*time.Minute + time.Second)
	ok, err := l.Allow(ctx, "k", 5, 10*time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "stale entries should be pruned by score")
}

func TestRedisLimiter_KeysAreIndependent(t *testing.T) {
	l, _ := newRedisTestLimiter(t)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		_, err := l.Allow(ctx, "send:a@b.com", 5, 10*time.Minute)
		require.NoError(t, err)
	}
	ok, err := l.Allow(ctx, "send:c@d.com", 5, 10*time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}
