package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the job.
type Metrics struct {
	Invocations     *prometheus.CounterVec
	RowsProcessed   *prometheus.CounterVec
	ProviderCalls   *prometheus.CounterVec
	ProviderLatency *prometheus.HistogramVec
	CursorRow       prometheus.Gauge
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewMetrics creates metrics and registers them with reg. Pass
// prometheus.DefaultRegisterer to expose them on /metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Invocations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rateshop_invocations_total",
				Help: "Total job invocations by outcome (scheduled, done, failed)",
			},
			[]string{"outcome"},
		),
		RowsProcessed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rateshop_rows_processed_total",
				Help: "Total dataset rows processed by status",
			},
			[]string{"status"},
		),
		ProviderCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rateshop_provider_calls_total",
				Help: "Total rate provider calls by carrier and outcome",
			},
			[]string{"carrier", "outcome"},
		),
		ProviderLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rateshop_provider_call_duration_seconds",
				Help:    "Rate provider call duration in seconds by carrier",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"carrier"},
		),
		CursorRow: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "rateshop_cursor_row",
				Help: "Row the next invocation starts at, 0 when the dataset is done",
			},
		),
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rateshop_requests_total",
				Help: "Total GraphQL requests by operation and status",
			},
			[]string{"operation", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rateshop_request_duration_seconds",
				Help:    "GraphQL request duration in seconds by operation",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordCall records one rate provider call.
func (m *Metrics) RecordCall(carrier, outcome string, seconds float64) {
	m.ProviderCalls.WithLabelValues(carrier, outcome).Inc()
	m.ProviderLatency.WithLabelValues(carrier).Observe(seconds)
}

// RecordRow records one processed row.
func (m *Metrics) RecordRow(status string) {
	m.RowsProcessed.WithLabelValues(status).Inc()
}

// RecordInvocation records one finished invocation and the resulting cursor.
func (m *Metrics) RecordInvocation(outcome string, nextRow int) {
	m.Invocations.WithLabelValues(outcome).Inc()
	m.CursorRow.Set(float64(nextRow))
}

// RecordRequest records one GraphQL field resolution.
func (m *Metrics) RecordRequest(operation, status string, duration float64) {
	m.RequestsTotal.WithLabelValues(operation, status).Inc()
	m.RequestDuration.WithLabelValues(operation).Observe(duration)
}
