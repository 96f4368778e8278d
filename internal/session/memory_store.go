package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process RevocationStore, used when Redis is not
// configured and in tests.
type MemoryStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (s *MemoryStore) Revoke(_ context.Context, tokenID string, until time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !until.After(s.now()) {
		return nil
	}
	s.revoked[tokenID] = until
	return nil
}

func (s *MemoryStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	until, ok := s.revoked[tokenID]
	if !ok {
		return false, nil
	}
	if !until.After(s.now()) {
		delete(s.revoked, tokenID)
		return false, nil
	}
	return true, nil
}
