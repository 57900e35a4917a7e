// Package app hosts the service layer between the HTTP handlers and the
// alignment pipeline: the coordinator that decorates alignment calls with
// logging, metrics and tracing, and the health checker.
package app

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/nimyab/word-aligner/internal/align"
	apperrors "github.com/nimyab/word-aligner/internal/errors"
	"github.com/nimyab/word-aligner/internal/logging"
	"github.com/nimyab/word-aligner/internal/matching"
	"github.com/nimyab/word-aligner/internal/observability"
	"github.com/nimyab/word-aligner/internal/server/ports"
)

// unknownMethodLabel is recorded in place of unparseable method
// strings, keeping the metric label set bounded.
const unknownMethodLabel = "unknown"

// Coordinator implements ports.AlignmentService on top of the aligner,
// recording metrics and spans around every request.
type Coordinator struct {
	aligner *align.Aligner
	logger  logging.Logger
	obs     *observability.Observability
}

// CoordinatorOption configures optional coordinator behavior.
type CoordinatorOption func(*Coordinator)

// WithObservability wires metrics and tracing into the coordinator.
func WithObservability(obs *observability.Observability) CoordinatorOption {
	return func(c *Coordinator) {
		c.obs = obs
	}
}

// WithLogger replaces the coordinator logger.
func WithLogger(logger logging.Logger) CoordinatorOption {
	return func(c *Coordinator) {
		if !logging.IsNil(logger) {
			c.logger = logger
		}
	}
}

// NewCoordinator creates the coordinator for an aligner.
func NewCoordinator(aligner *align.Aligner, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		aligner: aligner,
		logger:  logging.NewComponentLogger("coordinator"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Align parses the requested method, runs the pipeline and records the
// outcome. An empty method selects the configured default.
func (c *Coordinator) Align(ctx context.Context, sourceText, targetText, method string) (*align.Result, error) {
	var m matching.Method
	if strings.TrimSpace(method) != "" {
		parsed, err := matching.ParseMethod(method)
		if err != nil {
			verr := apperrors.NewValidation("%v", err)
			// Not the raw request string: the method metric label
			// must stay bounded to the enum plus this sentinel.
			c.record(ctx, unknownMethodLabel, 0, nil, verr)
			return nil, verr
		}
		m = parsed
	} else {
		m = c.aligner.DefaultMethod()
	}

	var span trace.Span
	if c.obs != nil {
		ctx, span = c.obs.Tracer.StartSpan(ctx, observability.SpanAlign, observability.MethodAttrs(string(m))...)
		defer span.End()
	}

	start := time.Now()
	result, err := c.aligner.Align(ctx, sourceText, targetText, m)
	latency := time.Since(start)

	if span != nil {
		if err != nil {
			span.SetAttributes(observability.ErrorAttrs(err)...)
		} else {
			span.SetAttributes(observability.ResultAttrs(
				len(result.SourceTokens), len(result.TargetTokens), len(result.Records))...)
		}
	}
	c.record(ctx, string(m), latency, result, err)

	if err != nil {
		return nil, err
	}

	c.logger.Info("Aligned %d source and %d target words into %d pairs with %s in %v",
		len(result.SourceTokens), len(result.TargetTokens), len(result.Records), result.Method, latency)
	return result, nil
}

// Methods lists the supported matching methods in stable order.
func (c *Coordinator) Methods() []ports.MethodInfo {
	methods := matching.Methods()
	infos := make([]ports.MethodInfo, len(methods))
	for i, m := range methods {
		infos[i] = ports.MethodInfo{Name: m.String(), Description: m.Description()}
	}
	return infos
}

// DefaultMethod returns the method used when a request names none.
func (c *Coordinator) DefaultMethod() string {
	return string(c.aligner.DefaultMethod())
}

func (c *Coordinator) record(ctx context.Context, method string, latency time.Duration, result *align.Result, err error) {
	if err != nil {
		if apperrors.IsValidation(err) {
			c.logger.Warn("Alignment rejected: %v", err)
		} else {
			c.logger.Error("Alignment failed with %s: %v", method, err)
		}
	}

	if c.obs == nil {
		return
	}

	status := statusLabel(err)
	var sourceTokens, targetTokens, pairs int
	if result != nil {
		sourceTokens = len(result.SourceTokens)
		targetTokens = len(result.TargetTokens)
		pairs = len(result.Records)
	}
	c.obs.Metrics.RecordAlignment(ctx, method, status, latency, sourceTokens, targetTokens, pairs)

	if result != nil && result.ProviderTime > 0 {
		c.obs.Metrics.RecordProviderLatency(ctx, c.aligner.Provider().Name(), result.ProviderTime)
	}
}

func statusLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case apperrors.IsValidation(err):
		return "invalid"
	case apperrors.IsUpstream(err):
		return "upstream"
	default:
		return "error"
	}
}

var _ ports.AlignmentService = (*Coordinator)(nil)
