// Package similarity computes token-to-token similarity matrices. A
// Provider takes the word sequences of both sentences and returns the
// matrix that the matching policies consume. The embedding-backed
// provider is the production path; the lexical provider is a
// dependency-free fallback for the CLI and tests.
package similarity

import (
	"context"

	"github.com/nimyab/word-aligner/internal/matching"
)

// Provider computes an S×T similarity matrix for a pair of non-empty
// token sequences. Values must be finite and non-negative.
// Implementations must be safe for concurrent use and accept tokens
// in any script.
type Provider interface {
	Matrix(ctx context.Context, source, target []string) (matching.Matrix, error)

	// Name identifies the provider in logs and health reports.
	Name() string
}
