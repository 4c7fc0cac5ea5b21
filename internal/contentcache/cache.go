// Package contentcache caches resolved localized content with per-kind
// staleness, request coalescing and prefix invalidation.
package contentcache

import (
	"context"
	"log/slog"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/culturalatlas/heritage-go/internal/conf"
	"github.com/culturalatlas/heritage-go/internal/errors"
	"github.com/culturalatlas/heritage-go/internal/logging"
	"github.com/culturalatlas/heritage-go/internal/observability/metrics"
)

// ResolverFunc produces the value for a cache key. It must honor ctx
// cancellation; the cache applies the per-kind deadline through it.
type ResolverFunc func(ctx context.Context) (any, error)

// Cache wraps resolver invocations with a TTL value store and a singleflight
// group. The value store is the only shared mutable state; entry creation
// and eviction are atomic with respect to concurrent Get calls.
type Cache struct {
	entries  *gocache.Cache
	group    singleflight.Group
	settings *conf.CacheSettings
	metrics  *metrics.ContentCacheMetrics
	logger   *slog.Logger
	debug    bool
}

// New creates a content cache. The metrics argument may be nil, for tools
// and tests that run without a registry.
func New(settings *conf.CacheSettings, m *metrics.ContentCacheMetrics) *Cache {
	return &Cache{
		entries:  gocache.New(gocache.NoExpiration, 10*time.Minute),
		settings: settings,
		metrics:  m,
		logger:   logging.ForService("contentcache"),
		debug:    settings.Debug,
	}
}

// Get returns the cached value for key, resolving it at most once per
// refresh window. Concurrent calls for the same key attach to a single
// in-flight resolution. A caller abandoning its wait (ctx done) receives the
// context error while the shared resolution keeps running for the remaining
// waiters. Failed resolutions are never stored.
func (c *Cache) Get(ctx context.Context, kind ResourceKind, key string, resolve ResolverFunc) (any, error) {
	if value, ok := c.entries.Get(key); ok {
		if c.metrics != nil {
			c.metrics.IncrementCacheHits()
		}
		return value, nil
	}
	if c.metrics != nil {
		c.metrics.IncrementCacheMisses()
	}

	ch := c.group.DoChan(key, func() (any, error) {
		return c.resolveWithRetry(kind, key, resolve)
	})

	select {
	case <-ctx.Done():
		// The shared resolution continues for the other waiters.
		return nil, ctx.Err()
	case res := <-ch:
		if res.Shared && c.metrics != nil {
			c.metrics.IncrementCoalescedWaits()
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val, nil
	}
}

// Invalidate evicts every entry whose key starts with the resource kind
// prefix and returns the number of evicted entries. Called after mutating
// operations on that kind.
func (c *Cache) Invalidate(kind ResourceKind) int {
	prefix := Prefix(kind)
	evicted := 0
	for key := range c.entries.Items() {
		if strings.HasPrefix(key, prefix) {
			c.entries.Delete(key)
			evicted++
		}
	}
	if c.metrics != nil && evicted > 0 {
		c.metrics.AddEvictions(evicted)
	}
	if c.debug && c.logger != nil {
		c.logger.Debug("Invalidated cache entries",
			"resource_kind", string(kind),
			"evicted", evicted)
	}
	return evicted
}

// Flush drops every cached entry.
func (c *Cache) Flush() {
	c.entries.Flush()
}

// resolveWithRetry runs one resolution cycle for the coalesced callers,
// retrying timed out attempts within the configured retry budget. Errors of
// any other category surface immediately.
func (c *Cache) resolveWithRetry(kind ResourceKind, key string, resolve ResolverFunc) (any, error) {
	attempts := c.settings.Retry.Attempts + 1
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			if c.debug && c.logger != nil {
				c.logger.Debug("Retrying timed out resolution",
					"key", key,
					"attempt", attempt+1)
			}
			time.Sleep(c.settings.Retry.Backoff)
		}

		value, err := c.resolveOnce(kind, resolve)
		if err == nil {
			c.entries.Set(key, value, c.settings.StaleTimeFor(string(kind)))
			return value, nil
		}
		lastErr = err
		if !errors.IsTimeout(err) {
			break
		}
	}
	return nil, lastErr
}

// resolveOnce invokes the resolver under the per-kind deadline. The shared
// resolution uses a detached context: a caller abandoning its wait must not
// cancel work other waiters depend on.
func (c *Cache) resolveOnce(kind ResourceKind, resolve ResolverFunc) (any, error) {
	timeout := c.settings.ResolveTimeoutFor(string(kind))
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if c.metrics != nil {
		c.metrics.IncrementResolutions()
	}
	startTime := time.Now()

	type result struct {
		value any
		err   error
	}
	done := make(chan result, 1)
	go func() {
		value, err := resolve(ctx)
		done <- result{value: value, err: err}
	}()

	select {
	case <-ctx.Done():
		if c.metrics != nil {
			c.metrics.IncrementResolutionErrors()
		}
		return nil, errors.Newf("resolution did not complete within %s", timeout).
			Component("contentcache").
			Category(errors.CategoryTimeout).
			Context("resource_kind", string(kind)).
			Timing("resolve", time.Since(startTime)).
			Build()
	case res := <-done:
		if c.metrics != nil {
			c.metrics.ObserveResolutionDuration(time.Since(startTime).Seconds())
			if res.err != nil {
				c.metrics.IncrementResolutionErrors()
			}
		}
		return res.value, res.err
	}
}
