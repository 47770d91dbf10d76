package lease

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store for local mode and tests. It is
// only safe against races within a single process, which matches local
// single-binary deployments.
type MemoryStore struct {
	mu     sync.Mutex
	leases map[string]time.Time
	now    func() time.Time
}

// NewMemoryStore creates an in-memory lease store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		leases: make(map[string]time.Time),
		now:    time.Now,
	}
}

// Acquire takes the lease unless an unexpired one exists.
func (s *MemoryStore) Acquire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if expiry, ok := s.leases[key]; ok && expiry.After(now) {
		return false, nil
	}
	s.leases[key] = now.Add(ttl)
	return true, nil
}

// Release removes the lease.
func (s *MemoryStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.leases, key)
	return nil
}
