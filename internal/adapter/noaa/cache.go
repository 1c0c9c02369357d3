package noaa

import (
	"context"
	"errors"
	"time"

	"github.com/yarimitsu/boatsafe-sub000/internal/cache"
	"github.com/yarimitsu/boatsafe-sub000/internal/observability"
)

// CachedFetcher wraps a Fetcher with a TTL cache keyed by URL. Each
// decorator carries its own TTL so endpoint families with different
// refresh cadences can share one underlying store.
type CachedFetcher struct {
	inner   Fetcher
	cache   cache.Cache
	ttl     time.Duration
	family  string
	metrics *observability.Metrics
}

// NewCachedFetcher creates a cache decorator around a fetcher. A zero ttl
// disables caching but keeps the upstream metrics. The family label names
// the endpoint family in the recorded metrics.
func NewCachedFetcher(inner Fetcher, store cache.Cache, ttl time.Duration, family string, metrics *observability.Metrics) *CachedFetcher {
	return &CachedFetcher{
		inner:   inner,
		cache:   store,
		ttl:     ttl,
		family:  family,
		metrics: metrics,
	}
}

// TTL reports the decorator's cache lifetime.
func (c *CachedFetcher) TTL() time.Duration {
	return c.ttl
}

func (c *CachedFetcher) Get(ctx context.Context, url string) ([]byte, error) {
	if c.ttl > 0 {
		if body, ok := c.cache.Get(url); ok {
			c.metrics.CacheLookups.WithLabelValues(c.family, "hit").Inc()
			return body, nil
		}
		c.metrics.CacheLookups.WithLabelValues(c.family, "miss").Inc()
	}

	start := time.Now()
	body, err := c.inner.Get(ctx, url)
	c.metrics.UpstreamDuration.WithLabelValues(c.family).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(c.family, outcome(err)).Inc()
		return nil, err
	}
	c.metrics.UpstreamRequests.WithLabelValues(c.family, "success").Inc()

	// Only cache non-empty bodies so truncated upstream responses can be retried.
	if c.ttl > 0 && len(body) > 0 {
		c.cache.Set(url, body, c.ttl)
	}
	return body, nil
}

func outcome(err error) string {
	var upstream *Error
	if errors.As(err, &upstream) && upstream.Timeout {
		return "timeout"
	}
	return "error"
}
