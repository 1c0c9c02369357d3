// Package cache provides small TTL caches for upstream payloads: an
// in-process map for the proxy and a file-backed store for the dashboard
// client, which outlives process restarts the way browser storage would.
package cache

import (
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Cache stores opaque payloads under string keys for a bounded time.
type Cache interface {
	// Get returns the payload for key. Expired or absent entries are a miss;
	// an expired entry is evicted on observation.
	Get(key string) ([]byte, bool)
	// Set stores data under key for ttl.
	Set(key string, data []byte, ttl time.Duration)
}

// Entry is the stored form: payload plus expiry bookkeeping. The file store
// persists exactly this shape; Data holds any payload, not just JSON, so it
// serializes as base64.
type Entry struct {
	Data      []byte    `json:"data"`
	Expiry    time.Time `json:"expiry"`
	Timestamp time.Time `json:"timestamp"`
}

// DefaultMaxEntries bounds the in-memory cache before eviction kicks in.
const DefaultMaxEntries = 1000

// Memory is a mutex-guarded TTL cache.
type Memory struct {
	mu         sync.Mutex
	entries    map[string]Entry
	maxEntries int
	clock      clockwork.Clock
}

// NewMemory builds an in-memory cache. maxEntries <= 0 applies
// DefaultMaxEntries.
func NewMemory(maxEntries int) *Memory {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Memory{
		entries:    make(map[string]Entry),
		maxEntries: maxEntries,
		clock:      clockwork.NewRealClock(),
	}
}

// Get implements Cache.
func (m *Memory) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if m.clock.Now().After(e.Expiry) {
		delete(m.entries, key)
		return nil, false
	}
	return e.Data, true
}

// Set implements Cache. At capacity, expired entries are swept first; if the
// map is still full the entry closest to expiry is evicted.
func (m *Memory) Set(key string, data []byte, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()

	if _, exists := m.entries[key]; !exists && len(m.entries) >= m.maxEntries {
		m.sweep(now)
		if len(m.entries) >= m.maxEntries {
			m.evictSoonest()
		}
	}

	m.entries[key] = Entry{Data: data, Expiry: now.Add(ttl), Timestamp: now}
}

// Len reports how many entries are held, expired ones included.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *Memory) sweep(now time.Time) {
	for key, e := range m.entries {
		if now.After(e.Expiry) {
			delete(m.entries, key)
		}
	}
}

func (m *Memory) evictSoonest() {
	var (
		victim string
		first  = true
		oldest time.Time
	)
	for key, e := range m.entries {
		if first || e.Expiry.Before(oldest) {
			victim, oldest, first = key, e.Expiry, false
		}
	}
	if victim != "" {
		delete(m.entries, victim)
	}
}

// hashKey collapses an arbitrary key (usually a URL) into a short filename-
// and log-safe token.
func hashKey(key string) string {
	h := fnv.New64a()
	h.Write([]byte(key))
	return strconv.FormatUint(h.Sum64(), 16)
}
