// Package observability wires logging, Prometheus metrics and OpenTelemetry
// tracing for the alignment service. Metrics and tracing degrade to no-ops
// when disabled or when their backends fail to initialize; logging is always
// configured.
package observability

import (
	"context"
	"os"

	apperrors "github.com/nimyab/word-aligner/internal/errors"
	"github.com/nimyab/word-aligner/internal/logging"
)

// Observability manages all observability components.
type Observability struct {
	Metrics *MetricsCollector
	Tracer  *TracerProvider

	logger logging.Logger
	config Config
}

// New applies the logging configuration to the process-wide sink and
// initializes metrics and tracing. A broken metrics or tracing backend is
// logged and replaced with a no-op so the service still comes up.
func New(config Config) (*Observability, error) {
	level, err := logging.ParseLevel(config.Logging.Level)
	if err != nil {
		return nil, apperrors.NewConfig("observability.logging.level", "%v", err)
	}
	logging.Configure(level, os.Stderr)

	logger := logging.NewComponentLogger("observability")

	metrics, err := NewMetricsCollector(config.Metrics, logger)
	if err != nil {
		logger.Error("Failed to initialize metrics, continuing without: %v", err)
		metrics = &MetricsCollector{logger: logger}
	}

	tracer, err := NewTracerProvider(config.Tracing)
	if err != nil {
		logger.Error("Failed to initialize tracing, continuing without: %v", err)
		tracer, _ = NewTracerProvider(TracingConfig{Enabled: false})
	}

	logger.Info("Observability initialized: log_level=%s metrics_enabled=%t tracing_enabled=%t",
		config.Logging.Level, config.Metrics.Enabled, config.Tracing.Enabled)

	return &Observability{
		Metrics: metrics,
		Tracer:  tracer,
		logger:  logger,
		config:  config,
	}, nil
}

// Shutdown gracefully shuts down all observability components.
func (o *Observability) Shutdown(ctx context.Context) error {
	o.logger.Info("Shutting down observability")

	if err := o.Metrics.Shutdown(ctx); err != nil {
		o.logger.Error("Failed to shutdown metrics: %v", err)
	}

	if err := o.Tracer.Shutdown(ctx); err != nil {
		o.logger.Error("Failed to shutdown tracing: %v", err)
	}

	return nil
}

// Config returns the configuration the components were built from.
func (o *Observability) Config() Config {
	return o.config
}
