package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultMaxEntries bounds the in-memory store before expired windows are
// swept.
const DefaultMaxEntries = 10000

type window struct {
	count   int64
	resetAt time.Time
}

// MemoryStore keeps windows in a process-local map. Counts are per instance;
// deployments that need shared limits use the Redis store instead.
type MemoryStore struct {
	mu         sync.Mutex
	windows    map[string]window
	maxEntries int
	clock      clockwork.Clock
}

// NewMemoryStore builds an in-memory store. maxEntries <= 0 applies
// DefaultMaxEntries.
func NewMemoryStore(maxEntries int) *MemoryStore {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &MemoryStore{
		windows:    make(map[string]window),
		maxEntries: maxEntries,
		clock:      clockwork.NewRealClock(),
	}
}

// Increment implements Store. An expired window is replaced, never extended,
// so a client's first request after a quiet hour starts a fresh count.
func (s *MemoryStore) Increment(_ context.Context, key string, d time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()

	w, ok := s.windows[key]
	if !ok || now.After(w.resetAt) {
		if !ok && len(s.windows) >= s.maxEntries {
			s.sweep(now)
		}
		s.windows[key] = window{count: 1, resetAt: now.Add(d)}
		return 1, nil
	}

	w.count++
	s.windows[key] = w
	return w.count, nil
}

// Reset implements Store.
func (s *MemoryStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.windows, key)
	return nil
}

// Len reports how many windows are held, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}

// sweep drops expired windows. Called with the lock held when the map is at
// capacity; keeps memory proportional to currently active clients.
func (s *MemoryStore) sweep(now time.Time) {
	for key, w := range s.windows {
		if now.After(w.resetAt) {
			delete(s.windows, key)
		}
	}
}
