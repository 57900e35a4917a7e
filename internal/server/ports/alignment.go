// Package ports defines the interfaces the HTTP layer is written
// against, keeping handlers decoupled from the concrete pipeline.
package ports

import (
	"context"

	"github.com/nimyab/word-aligner/internal/align"
)

// AlignmentService aligns a source and a target sentence.
type AlignmentService interface {
	// Align runs the full pipeline. An empty method selects the
	// configured default.
	Align(ctx context.Context, sourceText, targetText, method string) (*align.Result, error)

	// Methods lists the supported matching methods in stable order.
	Methods() []MethodInfo

	// DefaultMethod returns the method used when a request names none.
	DefaultMethod() string
}

// MethodInfo describes one matching method for discovery endpoints.
type MethodInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
