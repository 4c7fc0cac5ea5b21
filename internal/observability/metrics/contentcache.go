// Package metrics provides custom Prometheus metrics for various components of the heritage-go application.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// ContentCacheMetrics contains all Prometheus metrics related to the content cache.
type ContentCacheMetrics struct {
	CacheHits          prometheus.Counter
	CacheMisses        prometheus.Counter
	CoalescedWaits     prometheus.Counter
	Resolutions        prometheus.Counter
	ResolutionErrors   prometheus.Counter
	ResolutionDuration prometheus.Histogram
	Evictions          prometheus.Counter
	registry           *prometheus.Registry
}

// NewContentCacheMetrics creates a new instance of ContentCacheMetrics.
// It requires a Prometheus registry to register the metrics.
// It returns an error if metric registration fails.
func NewContentCacheMetrics(registry *prometheus.Registry) (*ContentCacheMetrics, error) {
	m := &ContentCacheMetrics{registry: registry}
	if err := m.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to initialize ContentCache metrics: %w", err)
	}
	collectors := []prometheus.Collector{
		m.CacheHits, m.CacheMisses, m.CoalescedWaits,
		m.Resolutions, m.ResolutionErrors, m.ResolutionDuration, m.Evictions,
	}
	for _, collector := range collectors {
		if err := registry.Register(collector); err != nil {
			return nil, fmt.Errorf("failed to register ContentCache metrics: %w", err)
		}
	}
	return m, nil
}

// initMetrics initializes all metrics for ContentCacheMetrics.
func (m *ContentCacheMetrics) initMetrics() error {
	m.CacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "content_cache_hits_total",
		Help: "Total number of content cache hits.",
	})

	m.CacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "content_cache_misses_total",
		Help: "Total number of content cache misses.",
	})

	m.CoalescedWaits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "content_cache_coalesced_waits_total",
		Help: "Total number of callers attached to an in-flight resolution.",
	})

	m.Resolutions = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "content_cache_resolutions_total",
		Help: "Total number of resolver invocations.",
	})

	m.ResolutionErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "content_cache_resolution_errors_total",
		Help: "Total number of failed resolver invocations.",
	})

	m.ResolutionDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "content_cache_resolution_duration_seconds",
		Help:    "Duration of resolver invocations in seconds.",
		Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
	})

	m.Evictions = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "content_cache_evictions_total",
		Help: "Total number of entries evicted by invalidation.",
	})

	return nil
}

// IncrementCacheHits increases the cache hit counter by one.
func (m *ContentCacheMetrics) IncrementCacheHits() {
	m.CacheHits.Inc()
}

// IncrementCacheMisses increases the cache miss counter by one.
func (m *ContentCacheMetrics) IncrementCacheMisses() {
	m.CacheMisses.Inc()
}

// IncrementCoalescedWaits increases the coalesced waiter counter by one.
func (m *ContentCacheMetrics) IncrementCoalescedWaits() {
	m.CoalescedWaits.Inc()
}

// IncrementResolutions increases the resolver invocation counter by one.
func (m *ContentCacheMetrics) IncrementResolutions() {
	m.Resolutions.Inc()
}

// IncrementResolutionErrors increases the failed resolution counter by one.
func (m *ContentCacheMetrics) IncrementResolutionErrors() {
	m.ResolutionErrors.Inc()
}

// ObserveResolutionDuration records the duration of a resolver invocation.
// The duration should be provided in seconds.
func (m *ContentCacheMetrics) ObserveResolutionDuration(durationSeconds float64) {
	m.ResolutionDuration.Observe(durationSeconds)
}

// AddEvictions increases the eviction counter by count.
func (m *ContentCacheMetrics) AddEvictions(count int) {
	m.Evictions.Add(float64(count))
}
