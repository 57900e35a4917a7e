package align

import (
	"context"
	"errors"
	"reflect"
	"testing"

	apperrors "github.com/nimyab/word-aligner/internal/errors"
	"github.com/nimyab/word-aligner/internal/matching"
	"github.com/nimyab/word-aligner/internal/similarity"
	"github.com/nimyab/word-aligner/internal/tokenize"
)

// fixedProvider returns a canned matrix and records whether it was
// called, for the must-not-reach-provider assertions.
type fixedProvider struct {
	matrix matching.Matrix
	err    error
	called bool
}

func (p *fixedProvider) Matrix(_ context.Context, _, _ []string) (matching.Matrix, error) {
	p.called = true
	return p.matrix, p.err
}

func (p *fixedProvider) Name() string { return "fixed" }

func newAligner(t *testing.T, p similarity.Provider, method matching.Method) *Aligner {
	t.Helper()
	a, err := New(p, Config{DefaultMethod: method})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return a
}

func TestAlignDiagonalScenario(t *testing.T) {
	// The cat/sat x kot/sidel scenario: the diagonal dominates, so
	// every method agrees on {(0,0), (1,1)}.
	p := &fixedProvider{matrix: matching.Matrix{{0.9, 0.1}, {0.2, 0.8}}}

	for _, method := range matching.Methods() {
		a := newAligner(t, p, method)
		res, err := a.Align(context.Background(), "cat sat", "kot sidel", method)
		if err != nil {
			t.Fatalf("%s: Align: %v", method, err)
		}
		want := []Record{
			{SourceWord: "cat", TargetWord: "kot", SourceSpan: [2]int{0, 3}, TargetSpan: [2]int{0, 3}},
			{SourceWord: "sat", TargetWord: "sidel", SourceSpan: [2]int{4, 7}, TargetSpan: [2]int{4, 9}},
		}
		if !reflect.DeepEqual(res.Records, want) {
			t.Errorf("%s: records = %+v, want %+v", method, res.Records, want)
		}
	}
}

func TestAlignEmptyInputFailsBeforeProvider(t *testing.T) {
	tests := []struct {
		name   string
		source string
		target string
	}{
		{name: "empty source", source: "", target: "anything"},
		{name: "whitespace source", source: "   ", target: "anything"},
		{name: "empty target", source: "anything", target: ""},
		{name: "whitespace target", source: "anything", target: " \t\n"},
		{name: "both empty", source: "", target: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fixedProvider{matrix: matching.Matrix{{1}}}
			a := newAligner(t, p, matching.MethodForward)

			_, err := a.Align(context.Background(), tt.source, tt.target, "")
			if !apperrors.IsValidation(err) {
				t.Fatalf("Align() error = %v, want ValidationError", err)
			}
			if err.Error() != "Source or target text is empty" {
				t.Errorf("error message = %q", err.Error())
			}
			if p.called {
				t.Error("provider was called for degenerate input")
			}
		})
	}
}

func TestAlignSingleWordPair(t *testing.T) {
	p := &fixedProvider{matrix: matching.Matrix{{0.7}}}
	a := newAligner(t, p, matching.MethodForward)

	res, err := a.Align(context.Background(), "a", "b", "")
	if err != nil {
		t.Fatalf("Align: %v", err)
	}
	want := []Record{{SourceWord: "a", TargetWord: "b", SourceSpan: [2]int{0, 1}, TargetSpan: [2]int{0, 1}}}
	if !reflect.DeepEqual(res.Records, want) {
		t.Errorf("records = %+v, want %+v", res.Records, want)
	}
	if res.Method != matching.MethodForward {
		t.Errorf("method = %s, want fwd", res.Method)
	}
}

func TestAlignUsesDefaultMethodWhenUnset(t *testing.T) {
	p := &fixedProvider{matrix: matching.Matrix{{0.9, 0.1}}}
	a := newAligner(t, p, matching.MethodMaxWeight)

	res, err := a.Align(context.Background(), "one", "один раз", "")
	if err != nil {
		t.Fatalf("Align: %v", err)
	}
	if res.Method != matching.MethodMaxWeight {
		t.Errorf("method = %s, want mwmf", res.Method)
	}
}

func TestAlignTokenLimit(t *testing.T) {
	p := &fixedProvider{matrix: matching.Matrix{{1}}}
	a, err := New(p, Config{DefaultMethod: matching.MethodForward, MaxTokensPerSide: 2})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = a.Align(context.Background(), "one two three", "raz", "")
	if !apperrors.IsValidation(err) {
		t.Fatalf("Align() error = %v, want ValidationError", err)
	}
	if p.called {
		t.Error("provider was called for oversized input")
	}
}

func TestAlignWrapsProviderFailure(t *testing.T) {
	p := &fixedProvider{err: errors.New("boom")}
	a := newAligner(t, p, matching.MethodForward)

	_, err := a.Align(context.Background(), "a", "b", "")
	if !apperrors.IsUpstream(err) {
		t.Fatalf("Align() error = %v, want UpstreamError", err)
	}
}

func TestAlignRejectsWrongMatrixShape(t *testing.T) {
	tests := []struct {
		name   string
		matrix matching.Matrix
	}{
		{name: "too few rows", matrix: matching.Matrix{{0.5}}},
		{name: "too many cols", matrix: matching.Matrix{{0.5, 0.5}, {0.5, 0.5}}},
		{name: "ragged", matrix: matching.Matrix{{0.5}, {0.5, 0.7}}},
		{name: "nan", matrix: matching.Matrix{{0.5}, {nan()}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fixedProvider{matrix: tt.matrix}
			a := newAligner(t, p, matching.MethodForward)

			_, err := a.Align(context.Background(), "one two", "raz", "")
			if !apperrors.IsUpstream(err) {
				t.Fatalf("Align() error = %v, want UpstreamError", err)
			}
		})
	}
}

func nan() float64 {
	zero := 0.0
	return zero / zero
}

func TestAlignRejectsUnknownMethod(t *testing.T) {
	p := &fixedProvider{matrix: matching.Matrix{{1}}}
	a := newAligner(t, p, matching.MethodForward)

	_, err := a.Align(context.Background(), "a", "b", matching.Method("bogus"))
	if !apperrors.IsValidation(err) {
		t.Fatalf("Align() error = %v, want ValidationError", err)
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	p := &fixedProvider{}

	if _, err := New(nil, Config{DefaultMethod: matching.MethodForward}); !apperrors.IsConfig(err) {
		t.Errorf("New(nil provider) error = %v, want ConfigError", err)
	}
	if _, err := New(p, Config{DefaultMethod: "bogus"}); !apperrors.IsConfig(err) {
		t.Errorf("New(bogus method) error = %v, want ConfigError", err)
	}
	if _, err := New(p, Config{DefaultMethod: matching.MethodForward, MaxTokensPerSide: -1}); !apperrors.IsConfig(err) {
		t.Errorf("New(negative limit) error = %v, want ConfigError", err)
	}
}

func TestAssemblePreservesPairOrder(t *testing.T) {
	src := tokenize.Tokenize("b a")
	tgt := tokenize.Tokenize("x y")
	// Deliberately not sorted by source index.
	pairs := []matching.Pair{{Source: 1, Target: 0}, {Source: 0, Target: 1}}

	records := Assemble(src, tgt, pairs)
	want := []Record{
		{SourceWord: "a", TargetWord: "x", SourceSpan: [2]int{2, 3}, TargetSpan: [2]int{0, 1}},
		{SourceWord: "b", TargetWord: "y", SourceSpan: [2]int{0, 1}, TargetSpan: [2]int{2, 3}},
	}
	if !reflect.DeepEqual(records, want) {
		t.Errorf("records = %+v, want %+v", records, want)
	}
}

func TestRecordSpansRoundTrip(t *testing.T) {
	source := "Невеста МакГрегора вышла на связь"
	target := "McGregor's fiancee got in touch"

	p := &fixedProvider{}
	srcTokens := tokenize.Tokenize(source)
	tgtTokens := tokenize.Tokenize(target)
	m := matching.NewMatrix(len(srcTokens), len(tgtTokens))
	for i := range m {
		m[i][min(i, len(m[i])-1)] = 0.9
	}
	p.matrix = m

	a := newAligner(t, p, matching.MethodForward)
	res, err := a.Align(context.Background(), source, target, "")
	if err != nil {
		t.Fatalf("Align: %v", err)
	}
	if len(res.Records) == 0 {
		t.Fatal("no records")
	}
	for _, r := range res.Records {
		if got := source[r.SourceSpan[0]:r.SourceSpan[1]]; got != r.SourceWord {
			t.Errorf("source span %v resolves to %q, want %q", r.SourceSpan, got, r.SourceWord)
		}
		if got := target[r.TargetSpan[0]:r.TargetSpan[1]]; got != r.TargetWord {
			t.Errorf("target span %v resolves to %q, want %q", r.TargetSpan, got, r.TargetWord)
		}
	}
}

func TestAlignEndToEndWithLexicalProvider(t *testing.T) {
	a := newAligner(t, similarity.NewLexical(), matching.MethodIterMax)

	res, err := a.Align(context.Background(), "the cat sat", "the cat sat", "")
	if err != nil {
		t.Fatalf("Align: %v", err)
	}
	// Identical sentences: every word mutual-best-matches itself.
	set := make(map[Record]bool, len(res.Records))
	for _, r := range res.Records {
		set[r] = true
	}
	for _, want := range []Record{
		{SourceWord: "the", TargetWord: "the", SourceSpan: [2]int{0, 3}, TargetSpan: [2]int{0, 3}},
		{SourceWord: "cat", TargetWord: "cat", SourceSpan: [2]int{4, 7}, TargetSpan: [2]int{4, 7}},
		{SourceWord: "sat", TargetWord: "sat", SourceSpan: [2]int{8, 11}, TargetSpan: [2]int{8, 11}},
	} {
		if !set[want] {
			t.Errorf("missing record %+v in %+v", want, res.Records)
		}
	}
}
