package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
)

// Registry holds the Prometheus collectors for the LabelRank engine.
// Passing one to labelrank.Options instruments runs and sweeps; the
// engine works without it.
type Registry struct {
	registry *prometheus.Registry

	RunsTotal            prometheus.Counter
	RunDuration          prometheus.Histogram
	RunIterations        prometheus.Histogram
	CommunitiesDetected  prometheus.Gauge
	SweepDuration        prometheus.Histogram
	SweepUpdatedVertices prometheus.Histogram
}

// NewRegistry creates a registry with all engine collectors registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Registry{
		registry: reg,
		RunsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "labelrank_runs_total",
			Help: "Total number of completed LabelRank runs",
		}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "labelrank_run_duration_seconds",
			Help:    "Mean wall-clock duration of one full LabelRank computation",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 12),
		}),
		RunIterations: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "labelrank_run_iterations",
			Help:    "Number of iterations until termination",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		CommunitiesDetected: factory.NewGauge(prometheus.GaugeOpts{
			Name: "labelrank_communities_detected",
			Help: "Number of communities found by the most recent run",
		}),
		SweepDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "labelrank_sweep_duration_seconds",
			Help:    "Duration of one full vertex sweep",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 12),
		}),
		SweepUpdatedVertices: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "labelrank_sweep_updated_vertices",
			Help:    "Vertices that failed the stability test and were recomputed in one sweep",
			Buckets: prometheus.ExponentialBuckets(1, 4, 12),
		}),
	}
}

// RecordSweep records one vertex sweep.
func (r *Registry) RecordSweep(updated int, duration time.Duration) {
	r.SweepDuration.Observe(duration.Seconds())
	r.SweepUpdatedVertices.Observe(float64(updated))
}

// RecordRun records one completed run.
func (r *Registry) RecordRun(iterations, communities int, duration time.Duration) {
	r.RunsTotal.Inc()
	r.RunDuration.Observe(duration.Seconds())
	r.RunIterations.Observe(float64(iterations))
	r.CommunitiesDetected.Set(float64(communities))
}

// Handler returns an HTTP handler exposing the collected metrics.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Gather exposes the underlying gatherer, mainly for tests.
func (r *Registry) Gather() ([]*dto.MetricFamily, error) {
	return r.registry.Gather()
}
