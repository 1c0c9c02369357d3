package ratelimit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubStore scripts Increment results for limiter tests.
type stubStore struct {
	count int64
	err   error
	calls int
}

func (s *stubStore) Increment(context.Context, string, time.Duration) (int64, error) {
	s.calls++
	if s.err != nil {
		return 0, s.err
	}
	s.count++
	return s.count, nil
}

func (s *stubStore) Reset(context.Context, string) error {
	s.count = 0
	return nil
}

func TestLimiterAllow(t *testing.T) {
	ctx := context.Background()

	t.Run("allows up to the limit", func(t *testing.T) {
		store := &stubStore{}
		limiter := New(store, 3, time.Hour, testLogger())

		for i := 0; i < 3; i++ {
			assert.True(t, limiter.Allow(ctx, "1.2.3.4"), "request %d should be allowed", i+1)
		}
		assert.False(t, limiter.Allow(ctx, "1.2.3.4"), "request over the limit should be denied")
	})

	t.Run("denied requests still count", func(t *testing.T) {
		store := &stubStore{}
		limiter := New(store, 1, time.Hour, testLogger())

		limiter.Allow(ctx, "1.2.3.4")
		limiter.Allow(ctx, "1.2.3.4")
		limiter.Allow(ctx, "1.2.3.4")

		assert.Equal(t, 3, store.calls)
	})

	t.Run("fails open on store errors", func(t *testing.T) {
		store := &stubStore{err: errors.New("connection refused")}
		limiter := New(store, 1, time.Hour, testLogger())

		assert.True(t, limiter.Allow(ctx, "1.2.3.4"))
		assert.True(t, limiter.Allow(ctx, "1.2.3.4"))
	})
}
