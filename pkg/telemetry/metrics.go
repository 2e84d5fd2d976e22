package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects Prometheus metrics for pipeline runs. A disabled
// Metrics is a no-op, so call sites never branch.
type Metrics struct {
	enabled bool

	runsStarted   prometheus.Counter
	runsCompleted *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec

	componentBuilds  *prometheus.CounterVec
	validationErrors prometheus.Counter

	registry *prometheus.Registry
}

// Pipeline stages, used as the stage label.
const (
	StageParse    = "parse"
	StageResolve  = "resolve"
	StageValidate = "validate"
	StageInvoke   = "invoke"
)

// NewMetrics creates a metrics collector.
func NewMetrics(cfg MetricsConfig) *Metrics {
	if !cfg.Enabled {
		return &Metrics{}
	}

	registry := prometheus.NewRegistry()
	m := &Metrics{
		enabled:  true,
		registry: registry,
		runsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "runs_started_total",
			Help:      "Total number of pipeline runs started",
		}),
		runsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "runs_completed_total",
			Help:      "Total number of pipeline runs completed",
		}, []string{"status", "algorithm"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),
		componentBuilds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "component_builds_total",
			Help:      "Components constructed, by kind",
		}, []string{"kind"}),
		validationErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "validation_errors_total",
			Help:      "Validation errors reported across all runs",
		}),
	}

	registry.MustRegister(
		m.runsStarted,
		m.runsCompleted,
		m.stageDuration,
		m.componentBuilds,
		m.validationErrors,
	)
	return m
}

// RunStarted records the start of a pipeline run.
func (m *Metrics) RunStarted() {
	if m.enabled {
		m.runsStarted.Inc()
	}
}

// RunCompleted records the outcome of a pipeline run.
func (m *Metrics) RunCompleted(status, algorithm string) {
	if m.enabled {
		m.runsCompleted.WithLabelValues(status, algorithm).Inc()
	}
}

// ObserveStage records the duration of one pipeline stage.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m.enabled {
		m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
	}
}

// ComponentBuilt records the construction of a component.
func (m *Metrics) ComponentBuilt(kind string) {
	if m.enabled {
		m.componentBuilds.WithLabelValues(kind).Inc()
	}
}

// ValidationErrors adds to the validation error counter.
func (m *Metrics) ValidationErrors(n int) {
	if m.enabled && n > 0 {
		m.validationErrors.Add(float64(n))
	}
}

// Handler returns the /metrics HTTP handler, nil when disabled.
func (m *Metrics) Handler() http.Handler {
	if !m.enabled {
		return nil
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
