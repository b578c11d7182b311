// Package telemetry provides the operator logger and the harness metrics.
package telemetry

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/moguls753/termbench/internal/benchmark"
	"github.com/moguls753/termbench/internal/harness"
)

// Outcome label values of termbench_invocations_total.
const (
	outcomeOK      = "ok"
	outcomeFailed  = "failed"
	outcomeTimeout = "timeout"
)

// Metrics counts invocations and benchmark state transitions. It owns a private
// registry so several instances never collide.
type Metrics struct {
	registry    *prometheus.Registry
	invocations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	transitions *prometheus.CounterVec
}

// NewMetrics registers the collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.invocations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "termbench_invocations_total",
			Help: "Timed command runs by outcome",
		},
		[]string{"terminal", "benchmark", "outcome"},
	)

	m.duration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "termbench_invocation_duration_seconds",
			Help:    "Wall-clock duration of timed command runs",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 16),
		},
		[]string{"terminal", "benchmark"},
	)

	m.transitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "termbench_benchmark_transitions_total",
			Help: "Benchmark state transitions by target state",
		},
		[]string{"terminal", "state"},
	)

	m.registry.MustRegister(m.invocations, m.duration, m.transitions)
	return m
}

// ObserveRun implements harness.Observer.
func (m *Metrics) ObserveRun(labels harness.Labels, elapsed time.Duration, err error) {
	outcome := outcomeOK
	var invErr *benchmark.InvocationError
	switch {
	case errors.As(err, &invErr) && invErr.TimedOut:
		outcome = outcomeTimeout
	case err != nil:
		outcome = outcomeFailed
	default:
		m.duration.WithLabelValues(labels.Target, labels.Benchmark).Observe(elapsed.Seconds())
	}
	m.invocations.WithLabelValues(labels.Target, labels.Benchmark, outcome).Inc()
}

// ObserveTransition counts runner state changes; use it as Runner.OnTransition.
func (m *Metrics) ObserveTransition(t benchmark.Transition) {
	m.transitions.WithLabelValues(t.Target, t.To.String()).Inc()
}

// Registry exposes the private registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// WriteTextfile writes the metrics in the node-exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
