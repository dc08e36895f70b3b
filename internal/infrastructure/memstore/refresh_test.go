package memstore

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medexpress/auth-api/internal/domain"
)

func testRecord(tokenID string) *domain.RefreshRecord {
	return &domain.RefreshRecord{
		TokenID:   tokenID,
		Email:     "a@b.com",
		ExpiresAt: time.Now().Add(7 * 24 * time.Hour).Unix(),
	}
}

func TestRefreshStore_ConsumeReturnsRecord(t *testing.T) {
	s := NewRefreshStore()
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, testRecord("t1")))

	rec, err := s.Consume(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", rec.Email)
}

func TestRefreshStore_ConsumeIsOneShot(t *testing.T) {
	s := NewRefreshStore()
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, testRecord("t1")))

	_, err := s.Consume(ctx, "t1")
	require.NoError(t, err)

	_, err = s.Consume(ctx, "t1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestRefreshStore_ConsumeUnknownID(t *testing.T) {
	s := NewRefreshStore()
	_, err := s.Consume(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestRefreshStore_DeleteIsIdempotent(t *testing.T) {
	s := NewRefreshStore()
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, testRecord("t1")))
	require.NoError(t, s.Delete(ctx, "t1"))
	require.NoError(t, s.Delete(ctx, "t1"))

	_, err := s.Consume(ctx, "t1")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestRefreshStore_ConcurrentConsume_ExactlyOneSucceeds(t *testing.T) {
	s := NewRefreshStore()
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, testRecord("t1")))

	const workers = 16
	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Consume(ctx, "t1")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	successes := 0
	for err := range results {
		if err == nil {
			successes++
		}
	}
	assert.Equal(t, 1, successes, "exactly one concurrent refresh may win the record")
}
