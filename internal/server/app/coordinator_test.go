package app

import (
	"context"
	"strings"
	"testing"

	"github.com/nimyab/word-aligner/internal/align"
	apperrors "github.com/nimyab/word-aligner/internal/errors"
	"github.com/nimyab/word-aligner/internal/logging"
	"github.com/nimyab/word-aligner/internal/matching"
	"github.com/nimyab/word-aligner/internal/observability"
	"github.com/nimyab/word-aligner/internal/similarity"
)

func newTestCoordinator(t *testing.T, opts ...CoordinatorOption) *Coordinator {
	t.Helper()
	aligner, err := align.New(similarity.NewLexical(), align.Config{
		DefaultMethod: matching.MethodMaxWeight,
		Logger:        logging.Nop(),
	})
	if err != nil {
		t.Fatalf("align.New() error = %v", err)
	}
	opts = append(opts, WithLogger(logging.Nop()))
	return NewCoordinator(aligner, opts...)
}

func TestCoordinatorAlignUsesDefaultMethod(t *testing.T) {
	c := newTestCoordinator(t)

	result, err := c.Align(context.Background(), "the cat", "the cat", "")
	if err != nil {
		t.Fatalf("Align() error = %v", err)
	}
	if result.Method != matching.MethodMaxWeight {
		t.Errorf("result.Method = %q, want %q", result.Method, matching.MethodMaxWeight)
	}
	if len(result.Records) != 2 {
		t.Fatalf("len(Records) = %d, want 2", len(result.Records))
	}
	if result.Records[0].SourceWord != "the" || result.Records[0].TargetWord != "the" {
		t.Errorf("Records[0] = %+v, want the/the", result.Records[0])
	}
}

func TestCoordinatorAlignParsesAliases(t *testing.T) {
	c := newTestCoordinator(t)

	result, err := c.Align(context.Background(), "one two", "one two", "a")
	if err != nil {
		t.Fatalf("Align() error = %v", err)
	}
	if result.Method != matching.MethodIntersection {
		t.Errorf("result.Method = %q, want %q", result.Method, matching.MethodIntersection)
	}
}

func TestCoordinatorAlignRejectsUnknownMethod(t *testing.T) {
	c := newTestCoordinator(t)

	_, err := c.Align(context.Background(), "one", "two", "bogus")
	if err == nil {
		t.Fatal("Align() error = nil, want validation error")
	}
	if !apperrors.IsValidation(err) {
		t.Errorf("IsValidation(%v) = false, want true", err)
	}
	if !strings.Contains(err.Error(), "unknown matching method") {
		t.Errorf("error = %q, want mention of unknown matching method", err)
	}
}

func TestCoordinatorAlignPropagatesEmptyInputError(t *testing.T) {
	c := newTestCoordinator(t)

	_, err := c.Align(context.Background(), "   ", "target", "")
	if err == nil {
		t.Fatal("Align() error = nil, want validation error")
	}
	if !apperrors.IsValidation(err) {
		t.Errorf("IsValidation(%v) = false, want true", err)
	}
	if got := err.Error(); got != "Source or target text is empty" {
		t.Errorf("error = %q, want canonical empty-input message", got)
	}
}

func TestCoordinatorMethods(t *testing.T) {
	c := newTestCoordinator(t)

	methods := c.Methods()
	if len(methods) != 5 {
		t.Fatalf("len(Methods()) = %d, want 5", len(methods))
	}
	if methods[0].Name != "fwd" {
		t.Errorf("Methods()[0].Name = %q, want %q", methods[0].Name, "fwd")
	}
	for _, info := range methods {
		if info.Description == "" {
			t.Errorf("method %q has empty description", info.Name)
		}
	}

	if got := c.DefaultMethod(); got != "mwmf" {
		t.Errorf("DefaultMethod() = %q, want %q", got, "mwmf")
	}
}

func TestCoordinatorRecordsWithObservability(t *testing.T) {
	tracer, err := observability.NewTracerProvider(observability.TracingConfig{Enabled: false})
	if err != nil {
		t.Fatalf("NewTracerProvider() error = %v", err)
	}
	obs := &observability.Observability{
		Metrics: &observability.MetricsCollector{},
		Tracer:  tracer,
	}

	c := newTestCoordinator(t, WithObservability(obs))

	if _, err := c.Align(context.Background(), "the cat", "the cat", "inter"); err != nil {
		t.Fatalf("Align() error = %v", err)
	}
	if _, err := c.Align(context.Background(), "", "x", ""); err == nil {
		t.Fatal("Align() error = nil, want validation error")
	}
}
