// Package ratelimit implements sliding-window request counters keyed by
// (identifier, action). The attempt is recorded whether or not it is
// allowed, so rejected retries keep the window full and a retry storm
// cannot ride the limit.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter is a sliding-window counter shared by the auth service. Allow
// records an attempt for key and reports whether the count stays within
// limit for the window.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// MemoryLimiter keeps per-key attempt timestamps in process memory.
type MemoryLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	now      func() time.Time
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{
		attempts: make(map[string][]time.Time),
		now:      time.Now,
	}
}

func (l *MemoryLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-window)

	recent := l.attempts[key][:0]
	for _, t := range l.attempts[key] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}
	recent = append(recent, now)
	l.attempts[key] = recent

	return len(recent) <= limit, nil
}
