package memstore

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCodeStore(ttl time.Duration) (*CodeStore, *time.Time) {
	s := NewCodeStore(ttl)
	now := time.Now()
	s.now = func() time.Time { return now }
	return s, &now
}

func TestCodeStore_IssueShape(t *testing.T) {
	s, _ := newTestCodeStore(15 * time.Minute)
	code, err := s.Issue(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^\d{6}$`), code)
}

func TestCodeStore_ConsumeHappyPath(t *testing.T) {
	s, _ := newTestCodeStore(15 * time.Minute)
	ctx := context.Background()
	code, err := s.Issue(ctx, "a@b.com")
	require.NoError(t, err)

	ok, err := s.Consume(ctx, "a@b.com", code)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCodeStore_CodeIsSingleUse(t *testing.T) {
	s, _ := newTestCodeStore(15 * time.Minute)
	ctx := context.Background()
	code, err := s.Issue(ctx, "a@b.com")
	require.NoError(t, err)

	ok, err := s.Consume(ctx, "a@b.com", code)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.Consume(ctx, "a@b.com", code)
	require.NoError(t, err)
	assert.False(t, ok, "second consume of the same code must fail")
}

func TestCodeStore_ReissueSupersedes(t *testing.T) {
	s, _ := newTestCodeStore(15 * time.Minute)
	ctx := context.Background()
	first, err := s.Issue(ctx, "a@b.com")
	require.NoError(t, err)
	second, err := s.Issue(ctx, "a@b.com")
	require.NoError(t, err)

	if first != second {
		ok, err := s.Consume(ctx, "a@b.com", first)
		require.NoError(t, err)
		assert.False(t, ok, "superseded code must not verify")
	}
	ok, err := s.Consume(ctx, "a@b.com", second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCodeStore_ExpiredCodeFails(t *testing.T) {
	s, now := newTestCodeStore(15 * time.Minute)
	ctx := context.Background()
	code, err := s.Issue(ctx, "a@b.com")
	require.NoError(t, err)

	*now = now.Add(15*time.Minute + time.Second)
	ok, err := s.Consume(ctx, "a@b.com", code)
	require.NoError(t, err)
	assert.False(t, ok, "a code older than the TTL must fail even when correct")
}

func TestCodeStore_WrongCodeFails(t *testing.T) {
	s, _ := newTestCodeStore(15 * time.Minute)
	ctx := context.Background()
	code, err := s.Issue(ctx, "a@b.com")
	require.NoError(t, err)

	wrong := "000000"
	if code == wrong {
		wrong = "000001"
	}
	ok, err := s.Consume(ctx, "a@b.com", wrong)
	require.NoError(t, err)
	assert.False(t, ok)

	// The pending code survives a wrong guess.
	ok, err = s.Consume(ctx, "a@b.com", code)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCodeStore_ConcurrentConsume_ExactlyOneSucceeds(t *testing.T) {
	s, _ := newTestCodeStore(15 * time.Minute)
	ctx := context.Background()
	code, err := s.Issue(ctx, "a@b.com")
	require.NoError(t, err)

	const workers = 16
	var wg sync.WaitGroup
	results := make(chan bool, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := s.Consume(ctx, "a@b.com", code)
			assert.NoError(t, err)
			results <- ok
		}()
	}
	wg.Wait()
	close(results)

	successes := 0
	for ok := range results {
		if ok {
			successes++
		}
	}
	assert.Equal(t, 1, successes, "exactly one concurrent verify may succeed")
}
