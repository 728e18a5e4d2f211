package match

import (
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type options struct {
	now            func() time.Time
	publishLog     PublishLog
	metrics        *Metrics
	tracerProvider trace.TracerProvider
}

// Option configures an Exchange and the components it builds.
type Option func(*options)

func newOptions(opts []Option) options {
	o := options{
		now:            time.Now,
		publishLog:     NewDiscardPublishLog(),
		tracerProvider: otel.GetTracerProvider(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.metrics == nil {
		o.metrics = NewMetrics(nil)
	}
	return o
}

// WithClock replaces time.Now as the source of acceptance, expiry and trade times.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithPublishLog sets the sink receiving book events.
func WithPublishLog(publishLog PublishLog) Option {
	return func(o *options) {
		o.publishLog = publishLog
	}
}

// WithMetrics sets the collectors to record into.
func WithMetrics(metrics *Metrics) Option {
	return func(o *options) {
		o.metrics = metrics
	}
}

// WithTracerProvider sets the provider for matching-pass spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.tracerProvider = tp
	}
}
