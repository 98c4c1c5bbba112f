// Package metrics exposes Prometheus instruments for trial execution.
//
// Each Metrics value owns its registry so several runs (and tests) can
// coexist in one process without colliding on the global default registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "distsplit"

// Metrics records trial outcomes.
type Metrics struct {
	registry *prometheus.Registry

	trials   *prometheus.CounterVec
	failures *prometheus.CounterVec
	duration prometheus.Histogram
	inFlight prometheus.Gauge
}

// New creates a Metrics value with all instruments registered.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		// trials counts finished trials by the label they produced.
		trials: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trials_total",
			Help:      "Total successful trials by chosen distribution",
		}, []string{"label"}),
		// failures counts failed trials by error kind.
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trial_failures_total",
			Help:      "Total failed trials by error kind",
		}, []string{"kind"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "trial_duration_seconds",
			Help:      "Wall time of a single generate, score and classify pipeline",
			Buckets:   []float64{1e-6, 5e-6, 1e-5, 5e-5, 1e-4, 5e-4, 1e-3, 1e-2},
		}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "trials_in_flight",
			Help:      "Trials currently executing",
		}),
	}
	m.registry.MustRegister(m.trials, m.failures, m.duration, m.inFlight)
	return m
}

// TrialStarted implements harness.Observer.
func (m *Metrics) TrialStarted() {
	m.inFlight.Inc()
}

// TrialFinished implements harness.Observer.
func (m *Metrics) TrialFinished(d time.Duration) {
	m.inFlight.Dec()
	m.duration.Observe(d.Seconds())
}

// TrialRecorded implements harness.Observer. label is empty for a failed
// trial, kind is empty for a successful one.
func (m *Metrics) TrialRecorded(label, kind string) {
	if kind != "" {
		m.failures.WithLabelValues(kind).Inc()
		return
	}
	m.trials.WithLabelValues(label).Inc()
}

// Registry returns the registry backing these metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
