// Package metrics exports query counters and latencies in Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/domain"
	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/ports"
)

// Exporter records one sample per submitted query.
type Exporter struct {
	registry *prometheus.Registry

	queries  *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	inFlight prometheus.Gauge
}

// Config configures the exporter.
type Config struct {
	// Registry to use (if nil, creates a new one)
	Registry *prometheus.Registry

	// Buckets for the latency histogram (in seconds)
	LatencyBuckets []float64
}

// DefaultConfig returns buckets sized for model-backed queries, which may
// take tens of seconds.
func DefaultConfig() Config {
	return Config{
		LatencyBuckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
	}
}

func NewExporter(cfg Config) *Exporter {
	if len(cfg.LatencyBuckets) == 0 {
		cfg.LatencyBuckets = DefaultConfig().LatencyBuckets
	}

	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	e := &Exporter{registry: registry}

	e.queries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "querydesk",
			Name:      "queries_total",
			Help:      "Total number of submitted queries by outcome",
		},
		[]string{"outcome"},
	)

	e.latency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "querydesk",
			Name:      "query_duration_seconds",
			Help:      "Time from submit to rendered page in seconds",
			Buckets:   cfg.LatencyBuckets,
		},
		[]string{"outcome"},
	)

	e.inFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "querydesk",
			Name:      "queries_in_flight",
			Help:      "Number of queries waiting on the backend",
		},
	)

	registry.MustRegister(e.queries, e.latency, e.inFlight)
	return e
}

var _ ports.Observer = (*Exporter)(nil)

func (e *Exporter) ObserveQuery(outcome domain.Outcome, elapsed time.Duration) {
	e.queries.WithLabelValues(string(outcome)).Inc()
	e.latency.WithLabelValues(string(outcome)).Observe(elapsed.Seconds())
}

// Track marks a query as in flight until the returned func is called.
func (e *Exporter) Track() func() {
	e.inFlight.Inc()
	return e.inFlight.Dec
}

// Registry exposes the underlying registry for tests and extra collectors.
func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}

// Handler serves the registry in the Prometheus text format.
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}
