// Package metrics exposes Prometheus instrumentation for cubby.
//
// A nil *Metrics (metrics disabled) is valid everywhere: the accessors
// return nil collectors and every observe method is a no-op on a nil
// receiver, so instrumented code never branches on whether metrics are on.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns the registry and the collector groups cubby exports.
type Metrics struct {
	registry *prometheus.Registry
	vault    *VaultMetrics
	http     *HTTPMetrics
}

// New creates a registry with process/runtime collectors plus the cubby
// collector groups.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Metrics{
		registry: registry,
		vault:    newVaultMetrics(registry),
		http:     newHTTPMetrics(registry),
	}
}

// Vault returns the vault collector group.
func (m *Metrics) Vault() *VaultMetrics {
	if m == nil {
		return nil
	}
	return m.vault
}

// HTTP returns the HTTP collector group.
func (m *Metrics) HTTP() *HTTPMetrics {
	if m == nil {
		return nil
	}
	return m.http
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
