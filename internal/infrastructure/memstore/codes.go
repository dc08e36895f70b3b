package memstore

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/medexpress/auth-api/internal/domain"
)

// CodeStore keeps pending verification codes in process memory, one per
// email. Suitable for single-instance deployments and tests; the dynamo
// package provides the durable equivalent behind the same interface.
type CodeStore struct {
	mu    sync.Mutex
	codes map[string]domain.PendingCode
	ttl   time.Duration
	now   func() time.Time
}

func NewCodeStore(ttl time.Duration) *CodeStore {
	return &CodeStore{
		codes: make(map[string]domain.PendingCode),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Issue generates a uniformly random 6-digit zero-padded code and stores it,
// overwriting any pending code for the same email (resend semantics).
func (s *CodeStore) Issue(ctx context.Context, email string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	code := fmt.Sprintf("%06d", n.Int64())

	s.mu.Lock()
	s.codes[email] = domain.PendingCode{
		Email:    email,
		Code:     code,
		IssuedAt: s.now().Unix(),
	}
	s.mu.Unlock()
	return code, nil
}

// Consume deletes the pending code and reports success only when a code
// exists, matches exactly, and is younger than the TTL. Check and delete
// happen under one lock so a code can never be redeemed twice, and the
// caller learns nothing about which check failed.
func (s *CodeStore) Consume(ctx context.Context, email, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.codes[email]
	if !ok {
		return false, nil
	}
	if entry.Code != code {
		return false, nil
	}
	if s.now().Unix()-entry.IssuedAt >= int64(s.ttl.Seconds()) {
		return false, nil
	}
	delete(s.codes, email)
	return true, nil
}
