// Package tracing records reactive engine runs as OpenTelemetry spans.
//
// Every Computed evaluation, Effect run and Watcher notification becomes
// one span, timed with the run's own start and duration:
//
//	rt := reactive.NewRuntime(reactive.WithProbe(tracing.New()))
//
// The probe uses the global OpenTelemetry tracer provider unless one is
// given with WithTracerProvider. Configure it in main() first:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/reactive/pkg/reactive"
)

// Default tracer name.
const defaultTracerName = "reactive"

// Config configures the tracing probe.
type Config struct {
	// TracerName is the name of the tracer (default: "reactive").
	TracerName string

	// TracerProvider supplies the tracer. If nil, the global provider is used.
	TracerProvider trace.TracerProvider

	// Filter determines which events to trace.
	// Return true to trace the event, false to skip.
	// If nil, all runs are traced.
	Filter func(ev reactive.Event) bool

	// Context is the parent context of every span (default: context.Background()).
	Context context.Context
}

// Option configures the tracing probe.
type Option func(*Config)

// WithTracerName sets the tracer name.
func WithTracerName(name string) Option {
	return func(c *Config) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Config) {
		c.TracerProvider = tp
	}
}

// WithFilter sets a filter function for events.
func WithFilter(filter func(ev reactive.Event) bool) Option {
	return func(c *Config) {
		c.Filter = filter
	}
}

// WithContext sets the parent context of the recorded spans.
func WithContext(ctx context.Context) Option {
	return func(c *Config) {
		c.Context = ctx
	}
}

func defaultConfig() Config {
	return Config{
		TracerName: defaultTracerName,
		Context:    context.Background(),
	}
}

// Probe is a reactive.Probe that emits spans.
type Probe struct {
	config Config
	tracer trace.Tracer
}

var _ reactive.Probe = (*Probe)(nil)

// New creates a tracing probe.
func New(opts ...Option) *Probe {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.Context == nil {
		config.Context = context.Background()
	}

	tp := config.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &Probe{config: config, tracer: tp.Tracer(config.TracerName)}
}

// Observe implements reactive.Probe. Writes, reuses and disposals are
// skipped; a storm becomes a zero-length error span.
func (p *Probe) Observe(ev reactive.Event) {
	switch ev.Kind {
	case reactive.EventEvaluate, reactive.EventEffectRun, reactive.EventNotify, reactive.EventStorm:
	default:
		return
	}
	if p.config.Filter != nil && !p.config.Filter(ev) {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.Int64("reactive.node_id", int64(ev.Node)),
		attribute.String("reactive.node_kind", ev.NodeKind.String()),
	}
	if ev.Name != "" {
		attrs = append(attrs, attribute.String("reactive.node_name", ev.Name))
	}
	if ev.Kind == reactive.EventEvaluate {
		attrs = append(attrs, attribute.Bool("reactive.changed", ev.Changed))
	}

	_, span := p.tracer.Start(
		p.config.Context,
		spanName(ev),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
		trace.WithTimestamp(ev.Start),
	)
	if ev.Err != nil {
		span.RecordError(ev.Err)
		span.SetStatus(codes.Error, ev.Err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End(trace.WithTimestamp(ev.Start.Add(ev.Duration)))
}

// spanName creates a span name from the event.
func spanName(ev reactive.Event) string {
	if ev.Name != "" {
		return fmt.Sprintf("reactive.%s %s", ev.Kind, ev.Name)
	}
	return fmt.Sprintf("reactive.%s", ev.Kind)
}
