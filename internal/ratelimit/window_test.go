package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(start time.Time) (*MemoryLimiter, *time.Time) {
	l := NewMemoryLimiter()
	now := start
	l.now = func() time.Time { return now }
	return l, &now
}

func TestMemoryLimiter_AllowsUpToLimit(t *testing.T) {
	l, _ := newTestLimiter(time.Now())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		ok, err := l.Allow(ctx, "send:a@b.com", 5, 10*time.Minute)
		require.NoError(t, err)
		assert.True(t, ok, "attempt %d should be allowed", i+1)
	}
	ok, err := l.Allow(ctx, "send:a@b.com", 5, 10*time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "attempt 6 should be rejected")
}

func TestMemoryLimiter_RejectedAttemptsStillCount(t *testing.T) {
	l, now := newTestLimiter(time.Now())
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		_, err := l.Allow(ctx, "k", 5, 10*time.Minute)
		require.NoError(t, err)
	}
	// 9 minutes later the first 5 attempts alone would have aged enough of
	// the budget back only if rejections were free. They are not.
	*now = now.Add(9 * time.Minute)
	ok, err := l.Allow(ctx, "k", 5, 10*time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryLimiter_WindowElapses(t *testing.T) {
	l, now := newTestLimiter(time.Now())
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		_, err := l.Allow(ctx, "k", 5, 10*time.Minute)
		require.NoError(t, err)
	}
	*now = now.Add(10*time.Minute + time.Second)
	ok, err := l.Allow(ctx, "k", 5, 10*time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "attempts should be allowed again after the window elapses")
}

func TestMemoryLimiter_KeysAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(time.Now())
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		_, err := l.Allow(ctx, "send:a@b.com", 5, 10*time.Minute)
		require.NoError(t, err)
	}
	ok, err := l.Allow(ctx, "verify:a@b.com", 5, 10*time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "a different action keeps its own window")
}
