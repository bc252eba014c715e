package scheduler

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/weft/pkg/fiber"
)

// MetricsConfig configures scheduler metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "weft").
	Namespace string

	// Subsystem is the metrics subsystem (default: "scheduler").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for walk and commit duration.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures scheduler metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "weft",
		Subsystem: "scheduler",
		Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05, .1},
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the scheduler's Prometheus collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	workUnits      *prometheus.CounterVec
	slices         prometheus.Counter
	steps          prometheus.Counter
	commits        prometheus.Counter
	effects        *prometheus.CounterVec
	walkDuration   prometheus.Histogram
	commitDuration prometheus.Histogram
	queueDepth     prometheus.Gauge
}

// NewMetrics registers scheduler metrics.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		workUnits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "work_units_total",
			Help:        "Total number of work units dequeued",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		slices: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "slices_total",
			Help:        "Total number of idle slices used",
			ConstLabels: config.ConstLabels,
		}),

		steps: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "fiber_steps_total",
			Help:        "Total number of fibers visited by the work loop",
			ConstLabels: config.ConstLabels,
		}),

		commits: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "commits_total",
			Help:        "Total number of commits",
			ConstLabels: config.ConstLabels,
		}),

		effects: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effects_total",
			Help:        "Total number of effects applied, by tag",
			ConstLabels: config.ConstLabels,
		}, []string{"tag"}),

		walkDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "walk_duration_seconds",
			Help:        "Time from dequeuing a work unit to its commit",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		commitDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "commit_duration_seconds",
			Help:        "Time spent applying effects to the output target",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		queueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "queue_depth",
			Help:        "Number of work units waiting to be dequeued",
			ConstLabels: config.ConstLabels,
		}),
	}
}

func (m *Metrics) recordUnit(kind WorkKind) {
	if m == nil {
		return
	}
	m.workUnits.WithLabelValues(kind.String()).Inc()
}

func (m *Metrics) recordSlice() {
	if m == nil {
		return
	}
	m.slices.Inc()
}

func (m *Metrics) recordStep() {
	if m == nil {
		return
	}
	m.steps.Inc()
}

func (m *Metrics) recordEffect(tag fiber.EffectTag) {
	if m == nil {
		return
	}
	m.effects.WithLabelValues(tag.String()).Inc()
}

func (m *Metrics) recordCommit(walk, commit time.Duration) {
	if m == nil {
		return
	}
	m.commits.Inc()
	m.walkDuration.Observe(walk.Seconds())
	m.commitDuration.Observe(commit.Seconds())
}

func (m *Metrics) setQueueDepth(n int) {
	if m == nil {
		return
	}
	m.queueDepth.Set(float64(n))
}
