// Package observability wires Prometheus metrics for the application.
package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/culturalatlas/heritage-go/internal/observability/metrics"
)

// Metrics aggregates the per-component metric sets behind one registry.
type Metrics struct {
	ContentCache *metrics.ContentCacheMetrics
	registry     *prometheus.Registry
}

// NewMetrics creates the shared metrics instance with a fresh registry.
func NewMetrics() (*Metrics, error) {
	registry := prometheus.NewRegistry()

	contentCache, err := metrics.NewContentCacheMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("creating content cache metrics: %w", err)
	}

	return &Metrics{
		ContentCache: contentCache,
		registry:     registry,
	}, nil
}

// Handler returns an HTTP handler exposing the registry in Prometheus format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
