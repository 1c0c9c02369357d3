package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// incrScript increments a counter and starts its expiry on the first hit in
// one atomic step. Split INCR/EXPIRE calls can leave an immortal counter if
// the process dies between them.
var incrScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
    redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return current`)

// RedisStore counts windows in Redis so limits hold across instances.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore wraps an existing client; the caller owns its lifecycle.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// Increment implements Store. Windows shorter than a second round up to one:
// EXPIRE has whole-second resolution.
func (s *RedisStore) Increment(ctx context.Context, key string, d time.Duration) (int64, error) {
	seconds := int64(d / time.Second)
	if seconds < 1 {
		seconds = 1
	}

	count, err := incrScript.Run(ctx, s.client, []string{key}, seconds).Int64()
	if err != nil {
		return 0, fmt.Errorf("increment %q: %w", key, err)
	}
	return count, nil
}

// Reset implements Store.
func (s *RedisStore) Reset(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("reset %q: %w", key, err)
	}
	return nil
}
