package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"
)

// filePrefix marks cache files so a shared directory stays recognizable.
const filePrefix = "boatsafe_"

// Dir persists entries as JSON files under a directory, one file per key.
// A file that fails to decode is evicted and treated as a miss rather than
// surfacing an error: the cache must never be the reason a fetch fails.
type Dir struct {
	dir   string
	clock clockwork.Clock
}

// NewDir builds a file-backed cache rooted at dir, creating it if needed.
func NewDir(dir string) (*Dir, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &Dir{dir: dir, clock: clockwork.NewRealClock()}, nil
}

// Get implements Cache.
func (d *Dir) Get(key string) ([]byte, bool) {
	path := d.path(key)

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		os.Remove(path)
		return nil, false
	}

	if d.clock.Now().After(e.Expiry) {
		os.Remove(path)
		return nil, false
	}
	return e.Data, true
}

// Set implements Cache. Write failures are swallowed: a read-only cache
// directory degrades to fetching every time.
func (d *Dir) Set(key string, data []byte, ttl time.Duration) {
	now := d.clock.Now()
	e := Entry{Data: data, Expiry: now.Add(ttl), Timestamp: now}

	raw, err := json.Marshal(e)
	if err != nil {
		return
	}
	_ = os.WriteFile(d.path(key), raw, 0o644)
}

func (d *Dir) path(key string) string {
	return filepath.Join(d.dir, filePrefix+hashKey(key)+".json")
}
