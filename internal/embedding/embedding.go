// Package embedding provides the token embedding clients behind the
// similarity provider. An Embedder turns a batch of token strings into
// dense float32 vectors; implementations exist for the OpenAI
// embeddings API (and any OpenAI-compatible endpoint), a local Ollama
// server, and a deterministic mock for tests.
package embedding

import (
	"context"
	"errors"
)

// Embedder converts token strings into dense float32 vectors.
// Implementations must be safe for concurrent use: the aligner embeds
// the source and target sides of one request in parallel.
type Embedder interface {
	// EmbedBatch returns one vector per input text, in input order.
	// Implementations may split large batches into several API calls
	// transparently.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the vector dimensionality, or 0 when it is
	// not known until the first call.
	Dimensions() int

	// Model returns the model identifier, used in cache keys and logs.
	Model() string
}

// ErrEmptyBatch is returned when EmbedBatch is called with no texts.
var ErrEmptyBatch = errors.New("embedding: empty batch")
