// Package metrics exports reactive engine activity as Prometheus metrics.
//
// Register a Probe with the runtime to be measured:
//
//	probe := metrics.New(metrics.WithRegistry(reg))
//	rt := reactive.NewRuntime(reactive.WithProbe(probe))
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/reactive/pkg/reactive"
)

// Config configures the Prometheus probe.
type Config struct {
	// Namespace is the metrics namespace (default: "reactive").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for run durations.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the Prometheus probe.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "reactive",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Probe is a reactive.Probe that records engine events.
//
// Metrics:
//   - events_total{event, kind}: every observed event
//   - run_duration_seconds{event, kind}: evaluations, effect runs, notifications
//   - failures_total{kind, reason}: failed runs by error class
//   - storms_total: flushes aborted by the effect run budget
type Probe struct {
	events   *prometheus.CounterVec
	duration *prometheus.HistogramVec
	failures *prometheus.CounterVec
	storms   prometheus.Counter
}

var _ reactive.Probe = (*Probe)(nil)

// New creates a Probe and registers its metrics. Registering two probes
// with the same namespace on one registry panics, as promauto does.
func New(opts ...Option) *Probe {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Probe{
		events: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "events_total",
			Help:        "Total number of reactive engine events",
			ConstLabels: config.ConstLabels,
		}, []string{"event", "kind"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "run_duration_seconds",
			Help:        "Duration of computed evaluations, effect runs and watcher notifications",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"event", "kind"}),

		failures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "failures_total",
			Help:        "Total number of failed runs",
			ConstLabels: config.ConstLabels,
		}, []string{"kind", "reason"}),

		storms: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "storms_total",
			Help:        "Total number of flushes aborted by the effect run budget",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// Observe implements reactive.Probe.
func (p *Probe) Observe(ev reactive.Event) {
	event, kind := ev.Kind.String(), ev.NodeKind.String()
	p.events.WithLabelValues(event, kind).Inc()

	switch ev.Kind {
	case reactive.EventEvaluate, reactive.EventEffectRun, reactive.EventNotify:
		p.duration.WithLabelValues(event, kind).Observe(ev.Duration.Seconds())
	case reactive.EventStorm:
		p.storms.Inc()
		return
	}

	if ev.Err != nil {
		p.failures.WithLabelValues(kind, categorize(ev.Err)).Inc()
	}
}

// categorize maps a failure to a low-cardinality reason label.
func categorize(err error) string {
	switch {
	case errors.Is(err, reactive.ErrCycle):
		return "cycle"
	case errors.Is(err, reactive.ErrDisposed):
		return "disposed"
	case errors.Is(err, reactive.ErrEffectStorm):
		return "storm"
	default:
		var ce *reactive.ComputeError
		if errors.As(err, &ce) {
			return "panic"
		}
		return "other"
	}
}
