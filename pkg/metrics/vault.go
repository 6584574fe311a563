package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// VaultMetrics instruments vault operations (upload, download, move,
// delete, bundle, verify).
//
// All methods are safe to call on a nil receiver.
type VaultMetrics struct {
	operations   *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	bytesWritten prometheus.Counter
	bytesServed  prometheus.Counter
}

func newVaultMetrics(reg *prometheus.Registry) *VaultMetrics {
	return &VaultMetrics{
		operations: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "cubby_vault_operations_total",
				Help: "Total vault operations by type and outcome",
			},
			[]string{"op", "outcome"}, // outcome: "success", "skipped", "failure"
		),
		duration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cubby_vault_operation_duration_seconds",
				Help:    "Vault operation latency by type",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"},
		),
		bytesWritten: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "cubby_vault_bytes_written_total",
				Help: "Total payload bytes written by uploads",
			},
		),
		bytesServed: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "cubby_vault_bytes_served_total",
				Help: "Total payload bytes served by downloads and bundles",
			},
		),
	}
}

// ObserveOperation records one vault operation with its outcome and latency.
func (m *VaultMetrics) ObserveOperation(op, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(op, outcome).Inc()
	m.duration.WithLabelValues(op).Observe(duration.Seconds())
}

// RecordBytesWritten adds to the uploaded-payload byte counter.
func (m *VaultMetrics) RecordBytesWritten(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.bytesWritten.Add(float64(n))
}

// RecordBytesServed adds to the served-payload byte counter.
func (m *VaultMetrics) RecordBytesServed(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.bytesServed.Add(float64(n))
}
