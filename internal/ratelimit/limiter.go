// Package ratelimit enforces per-client fixed-window request limits.
package ratelimit

import (
	"context"
	"log/slog"
	"time"
)

// Store counts requests per key within a fixed window.
type Store interface {
	// Increment adds one request to key's current window, starting a new
	// window when none is active, and returns the count including this
	// request.
	Increment(ctx context.Context, key string, window time.Duration) (int64, error)
	// Reset discards key's current window.
	Reset(ctx context.Context, key string) error
}

// Limiter applies a fixed-window limit on top of a Store. Limits are
// approximate: each store instance counts independently, and a window resets
// in full rather than sliding.
type Limiter struct {
	store  Store
	max    int64
	window time.Duration
	logger *slog.Logger
}

// New builds a limiter allowing max requests per window per key.
func New(store Store, max int64, window time.Duration, logger *slog.Logger) *Limiter {
	return &Limiter{store: store, max: max, window: window, logger: logger}
}

// Allow records one request for key and reports whether it is within the
// limit. A store failure allows the request: the proxy prefers serving
// weather data over enforcing limits strictly.
func (l *Limiter) Allow(ctx context.Context, key string) bool {
	count, err := l.store.Increment(ctx, key, l.window)
	if err != nil {
		l.logger.Warn("rate limit store unavailable, allowing request", "key", key, "error", err)
		return true
	}
	return count <= l.max
}
