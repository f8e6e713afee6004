package revocation

import (
	"context"
	"sync"
	"time"
)

// memoryStore is an in-process Store for single-instance deployments and
// tests. Expiry is checked lazily on read; writes opportunistically drop
// entries that have lapsed, keeping the map bounded by the number of
// not-yet-expired revocations.
type memoryStore struct {
	mu      sync.RWMutex
	entries map[string]time.Time
}

// NewMemoryStore returns an in-process denylist.
func NewMemoryStore() Store {
	return &memoryStore{entries: map[string]time.Time{}}
}

func (s *memoryStore) Blacklist(_ context.Context, token string, ttl time.Duration) error {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, exp := range s.entries {
		if !exp.After(now) {
			delete(s.entries, k)
		}
	}
	s.entries[token] = now.Add(ttl)
	return nil
}

func (s *memoryStore) IsBlacklisted(_ context.Context, token string) (bool, error) {
	s.mu.RLock()
	exp, ok := s.entries[token]
	s.mu.RUnlock()

	return ok && exp.After(time.Now()), nil
}

func (s *memoryStore) Close() error {
	s.mu.Lock()
	s.entries = map[string]time.Time{}
	s.mu.Unlock()
	return nil
}
