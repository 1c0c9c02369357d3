// Package client is the fetch layer the dashboard widgets share: a NOAA
// fetcher wrapped with an optional persistent cache and per-call retry.
// The proxy caches per endpoint family; widgets instead pick a TTL per
// call, so stale-tolerant panels (forecasts) and fresh-only panels
// (observations) can share one store.
package client

import (
	"context"
	"log/slog"
	"time"

	"github.com/yarimitsu/boatsafe-sub000/internal/adapter/noaa"
	"github.com/yarimitsu/boatsafe-sub000/internal/cache"
)

// DefaultTimeout bounds a single fetch attempt when Options.Timeout is zero.
const DefaultTimeout = 10 * time.Second

// Exponential backoff between retries: start at 500ms, double each attempt,
// cap at 8s.
const (
	initialBackoff = 500 * time.Millisecond
	maxBackoff     = 8 * time.Second
)

// Options control one Get call.
type Options struct {
	// CacheTTL is how long a fetched body stays reusable. Zero disables
	// caching for the call.
	CacheTTL time.Duration

	// SkipCache bypasses the cache read but still stores the fresh body,
	// so a forced refresh repopulates the cache for later calls.
	SkipCache bool

	// Timeout bounds each attempt. Zero means DefaultTimeout.
	Timeout time.Duration

	// Retries is the number of additional attempts after the first.
	// tgftp products briefly 404 while an office reissues them, so
	// status errors are retried like transport errors.
	Retries int
}

// Client fetches NOAA URLs with caching and retry.
type Client struct {
	fetcher noaa.Fetcher
	cache   cache.Cache
	logger  *slog.Logger
}

// New creates a client around a fetcher and a cache store.
func New(fetcher noaa.Fetcher, store cache.Cache, logger *slog.Logger) *Client {
	return &Client{
		fetcher: fetcher,
		cache:   store,
		logger:  logger,
	}
}

// Get fetches one URL, consulting the cache first and retrying failures
// with exponential backoff. When every attempt fails the last error is
// returned.
func (c *Client) Get(ctx context.Context, url string, opts Options) ([]byte, error) {
	if opts.CacheTTL > 0 && !opts.SkipCache {
		if body, ok := c.cache.Get(url); ok {
			return body, nil
		}
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	backoff := initialBackoff
	var lastErr error

	for attempt := 0; attempt <= opts.Retries; attempt++ {
		if attempt > 0 {
			c.logger.Warn("retrying fetch", "url", url, "attempt", attempt, "backoff", backoff)
			if !sleepWithContext(ctx, backoff) {
				return nil, ctx.Err()
			}
			backoff = nextBackoff(backoff, maxBackoff)
		}

		body, err := c.fetchOnce(ctx, url, timeout)
		if err == nil {
			if opts.CacheTTL > 0 && len(body) > 0 {
				c.cache.Set(url, body, opts.CacheTTL)
			}
			return body, nil
		}

		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return nil, lastErr
}

// fetchOnce bounds a single attempt so one hung connection cannot consume
// the whole retry budget.
func (c *Client) fetchOnce(ctx context.Context, url string, timeout time.Duration) ([]byte, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.fetcher.Get(attemptCtx, url)
}

func nextBackoff(backoff, maxBackoff time.Duration) time.Duration {
	next := backoff * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
