// Package align orchestrates the alignment pipeline: tokenize both
// sentences, obtain a similarity matrix from the provider, run the
// requested matching policy, and resolve the index pairs back to
// words with their original byte spans.
package align

import (
	"context"
	"fmt"
	"time"

	apperrors "github.com/nimyab/word-aligner/internal/errors"
	"github.com/nimyab/word-aligner/internal/logging"
	"github.com/nimyab/word-aligner/internal/matching"
	"github.com/nimyab/word-aligner/internal/similarity"
	"github.com/nimyab/word-aligner/internal/tokenize"
)

// Record is one aligned word pair. The spans are byte offsets into
// the original request texts, so text[Span[0]:Span[1]] recovers the
// word exactly.
type Record struct {
	SourceWord string
	TargetWord string
	SourceSpan [2]int
	TargetSpan [2]int
}

// Result carries the alignment records together with the token tables
// they were resolved against. ProviderTime is how long the similarity
// matrix took; it is the only potentially-remote step in the pipeline
// and the number callers want in their logs.
type Result struct {
	Method       matching.Method
	Records      []Record
	SourceTokens []tokenize.Token
	TargetTokens []tokenize.Token
	ProviderTime time.Duration
}

// Config configures an Aligner.
type Config struct {
	// DefaultMethod is used when a request does not name a method.
	DefaultMethod matching.Method
	// MaxTokensPerSide rejects oversized sentences before the
	// provider is called. Zero means no limit.
	MaxTokensPerSide int
	Logger           logging.Logger
}

// Aligner computes word alignments. It is stateless apart from its
// injected provider and safe for concurrent use.
type Aligner struct {
	provider      similarity.Provider
	defaultMethod matching.Method
	maxTokens     int
	logger        logging.Logger
}

// New creates an Aligner. The default method must be one of the
// supported labels; an unknown one is a ConfigError so the process
// fails at startup rather than per request.
func New(provider similarity.Provider, cfg Config) (*Aligner, error) {
	if provider == nil {
		return nil, apperrors.NewConfig("provider", "similarity provider is required")
	}
	if _, err := matching.ParseMethod(string(cfg.DefaultMethod)); err != nil {
		return nil, apperrors.NewConfig("default_method", "%v", err)
	}
	if cfg.MaxTokensPerSide < 0 {
		return nil, apperrors.NewConfig("max_tokens_per_side", "must not be negative, got %d", cfg.MaxTokensPerSide)
	}
	return &Aligner{
		provider:      provider,
		defaultMethod: cfg.DefaultMethod,
		maxTokens:     cfg.MaxTokensPerSide,
		logger:        logging.OrNop(cfg.Logger),
	}, nil
}

// DefaultMethod returns the method used when a request does not name
// one.
func (a *Aligner) DefaultMethod() matching.Method {
	return a.defaultMethod
}

// Provider returns the injected similarity provider.
func (a *Aligner) Provider() similarity.Provider {
	return a.provider
}

// Align aligns the words of sourceText and targetText. An empty
// method selects the configured default. Returns a ValidationError
// when either side tokenizes to zero words or exceeds the token
// limit, and an UpstreamError when the provider fails or returns a
// malformed matrix. No partial results: on error the Result is nil.
func (a *Aligner) Align(ctx context.Context, sourceText, targetText string, method matching.Method) (*Result, error) {
	if method == "" {
		method = a.defaultMethod
	}

	srcTokens := tokenize.Tokenize(sourceText)
	tgtTokens := tokenize.Tokenize(targetText)
	// The precondition check runs before the provider so degenerate
	// input never reaches the upstream.
	if len(srcTokens) == 0 || len(tgtTokens) == 0 {
		return nil, apperrors.NewValidation("Source or target text is empty")
	}
	if a.maxTokens > 0 {
		if len(srcTokens) > a.maxTokens {
			return nil, apperrors.NewValidation("source text has %d words, limit is %d", len(srcTokens), a.maxTokens)
		}
		if len(tgtTokens) > a.maxTokens {
			return nil, apperrors.NewValidation("target text has %d words, limit is %d", len(tgtTokens), a.maxTokens)
		}
	}

	start := time.Now()
	m, err := a.provider.Matrix(ctx, tokenize.Words(srcTokens), tokenize.Words(tgtTokens))
	providerTime := time.Since(start)
	if err != nil {
		if apperrors.IsUpstream(err) || apperrors.IsValidation(err) {
			return nil, err
		}
		return nil, apperrors.NewUpstream("similarity matrix", err)
	}
	if err := checkMatrix(m, len(srcTokens), len(tgtTokens)); err != nil {
		return nil, apperrors.NewUpstream("similarity matrix", err)
	}

	pairs, err := matching.Compute(m, method)
	if err != nil {
		// The HTTP and CLI layers validate the label before calling;
		// reaching this point means the caller passed an unchecked
		// value, which is still that caller's input problem.
		return nil, apperrors.NewValidation("%v", err)
	}

	a.logger.Debug("aligned %d x %d tokens with %s: %d pairs, matrix in %v",
		len(srcTokens), len(tgtTokens), method, len(pairs), providerTime)

	return &Result{
		Method:       method,
		Records:      Assemble(srcTokens, tgtTokens, pairs),
		SourceTokens: srcTokens,
		TargetTokens: tgtTokens,
		ProviderTime: providerTime,
	}, nil
}

// Assemble resolves matcher pairs against the token tables,
// preserving the order in which the matcher emitted them. Indices
// are guaranteed in range by the matcher contract; an out-of-range
// index is a programming error and panics.
func Assemble(srcTokens, tgtTokens []tokenize.Token, pairs []matching.Pair) []Record {
	records := make([]Record, len(pairs))
	for i, p := range pairs {
		src := srcTokens[p.Source]
		tgt := tgtTokens[p.Target]
		records[i] = Record{
			SourceWord: src.Text,
			TargetWord: tgt.Text,
			SourceSpan: [2]int{src.Start, src.End},
			TargetSpan: [2]int{tgt.Start, tgt.End},
		}
	}
	return records
}

// checkMatrix enforces the provider contract at the boundary: the
// matrix must be S×T, rectangular, finite and non-negative.
func checkMatrix(m matching.Matrix, srcLen, tgtLen int) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if m.Rows() != srcLen || m.Cols() != tgtLen {
		return fmt.Errorf("matrix is %dx%d, want %dx%d", m.Rows(), m.Cols(), srcLen, tgtLen)
	}
	return nil
}
