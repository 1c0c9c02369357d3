//go:build integration

package integration_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/yarimitsu/boatsafe-sub000/internal/ratelimit"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startRedis runs a disposable Redis and returns a connected client.
func startRedis(ctx context.Context, t *testing.T) *redis.Client {
	t.Helper()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err, "start redis container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	connStr, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	opts, err := redis.ParseURL(connStr)
	require.NoError(t, err)

	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.Ping(ctx).Err())
	return client
}

// TestRedisStore verifies the Redis window store against a real server: the
// Lua increment path, expiry, resets, and the cross-instance sharing that
// justifies running Redis at all.
func TestRedisStore(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	client := startRedis(ctx, t)
	fresh := func(t *testing.T) { require.NoError(t, client.FlushAll(ctx).Err()) }

	t.Run("counts accumulate within a window", func(t *testing.T) {
		fresh(t)
		store := ratelimit.NewRedisStore(client)

		for want := int64(1); want <= 3; want++ {
			count, err := store.Increment(ctx, "marine-forecast:203.0.113.9", time.Hour)
			require.NoError(t, err)
			assert.Equal(t, want, count)
		}
	})

	t.Run("keys count independently", func(t *testing.T) {
		fresh(t)
		store := ratelimit.NewRedisStore(client)

		_, err := store.Increment(ctx, "marine-forecast:203.0.113.9", time.Hour)
		require.NoError(t, err)

		count, err := store.Increment(ctx, "tides:203.0.113.9", time.Hour)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("reset opens a new window", func(t *testing.T) {
		fresh(t)
		store := ratelimit.NewRedisStore(client)

		for i := 0; i < 5; i++ {
			_, err := store.Increment(ctx, "buoy:203.0.113.9", time.Hour)
			require.NoError(t, err)
		}
		require.NoError(t, store.Reset(ctx, "buoy:203.0.113.9"))

		count, err := store.Increment(ctx, "buoy:203.0.113.9", time.Hour)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("window expires server side", func(t *testing.T) {
		fresh(t)
		store := ratelimit.NewRedisStore(client)

		count, err := store.Increment(ctx, "alerts:203.0.113.9", time.Second)
		require.NoError(t, err)
		require.Equal(t, int64(1), count)

		time.Sleep(1500 * time.Millisecond)

		count, err = store.Increment(ctx, "alerts:203.0.113.9", time.Second)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count, "expired window should restart at one")
	})

	t.Run("counts are shared across store instances", func(t *testing.T) {
		fresh(t)
		one := ratelimit.NewRedisStore(client)
		two := ratelimit.NewRedisStore(client)

		count, err := one.Increment(ctx, "coastal-forecast:203.0.113.9", time.Hour)
		require.NoError(t, err)
		require.Equal(t, int64(1), count)

		count, err = two.Increment(ctx, "coastal-forecast:203.0.113.9", time.Hour)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count, "a second instance must see the first's count")
	})

	t.Run("concurrent increments never lose a count", func(t *testing.T) {
		fresh(t)
		store := ratelimit.NewRedisStore(client)

		const workers, perWorker = 20, 5

		var wg sync.WaitGroup
		errs := make(chan error, workers*perWorker)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < perWorker; j++ {
					if _, err := store.Increment(ctx, "weather-forecast:203.0.113.9", time.Hour); err != nil {
						errs <- err
					}
				}
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		count, err := store.Increment(ctx, "weather-forecast:203.0.113.9", time.Hour)
		require.NoError(t, err)
		assert.Equal(t, int64(workers*perWorker+1), count)
	})
}

// TestLimiterWithRedisStore drives the fixed-window limiter the proxy mounts
// through the shared store.
func TestLimiterWithRedisStore(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	client := startRedis(ctx, t)
	store := ratelimit.NewRedisStore(client)
	limiter := ratelimit.New(store, 3, time.Hour, discardLogger())

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow(ctx, "marine-forecast:198.51.100.7"), "request %d should pass", i+1)
	}
	assert.False(t, limiter.Allow(ctx, "marine-forecast:198.51.100.7"), "limit exceeded")

	assert.True(t, limiter.Allow(ctx, "marine-forecast:198.51.100.8"), "other clients are unaffected")

	require.NoError(t, store.Reset(ctx, "marine-forecast:198.51.100.7"))
	assert.True(t, limiter.Allow(ctx, "marine-forecast:198.51.100.7"), "reset reopens the window")
}
