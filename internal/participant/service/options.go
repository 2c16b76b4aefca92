package service

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	participantmetrics "golfbot/internal/participant/metrics"
)

// serviceConfig holds optional dependencies for the service.
type serviceConfig struct {
	logger    *slog.Logger
	metrics   *participantmetrics.Metrics
	publisher EventPublisher
	tracer    trace.Tracer
}

// Option configures a service.
type Option func(c *serviceConfig)

func WithLogger(logger *slog.Logger) Option {
	return func(c *serviceConfig) {
		c.logger = logger
	}
}

func WithMetrics(m *participantmetrics.Metrics) Option {
	return func(c *serviceConfig) {
		c.metrics = m
	}
}

// WithPublisher enables change events after successful mutations.
func WithPublisher(p EventPublisher) Option {
	return func(c *serviceConfig) {
		c.publisher = p
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(c *serviceConfig) {
		c.tracer = t
	}
}
