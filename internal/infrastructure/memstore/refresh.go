package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/medexpress/auth-api/internal/domain"
)

// RefreshStore is the in-memory refresh-token registry, keyed by token ID.
type RefreshStore struct {
	mu      sync.Mutex
	records map[string]domain.RefreshRecord
}

func NewRefreshStore() *RefreshStore {
	return &RefreshStore{records: make(map[string]domain.RefreshRecord)}
}

func (s *RefreshStore) Put(ctx context.Context, rec *domain.RefreshRecord) error {
	s.mu.Lock()
	s.records[rec.TokenID] = *rec
	s.mu.Unlock()
	return nil
}

// Consume removes and returns the record for tokenID in one step. Of two
// concurrent calls bearing the same token ID, exactly one receives the
// record; the other gets ErrNotFound. This is what makes refresh rotation
// one-time-use.
func (s *RefreshStore) Consume(ctx context.Context, tokenID string) (*domain.RefreshRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[tokenID]
	if !ok {
		return nil, fmt.Errorf("refresh record %s: %w", tokenID, domain.ErrNotFound)
	}
	delete(s.records, tokenID)
	return &rec, nil
}

// Delete removes the record if present. Idempotent; used by logout.
func (s *RefreshStore) Delete(ctx context.Context, tokenID string) error {
	s.mu.Lock()
	delete(s.records, tokenID)
	s.mu.Unlock()
	return nil
}
