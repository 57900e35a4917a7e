package similarity

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/nimyab/word-aligner/internal/embedding"
	apperrors "github.com/nimyab/word-aligner/internal/errors"
	"github.com/nimyab/word-aligner/internal/matching"
)

const defaultEmbedBatchSize = 64

// EmbeddingProvider fills the similarity matrix with the cosine
// similarity of contextual-free token embeddings. The source and
// target sides are embedded concurrently; failures surface as
// UpstreamError.
type EmbeddingProvider struct {
	embedder  embedding.Embedder
	batchSize int
}

var _ Provider = (*EmbeddingProvider)(nil)

// NewEmbeddingProvider creates a provider on top of the given
// embedder. A non-positive batchSize falls back to the default.
func NewEmbeddingProvider(embedder embedding.Embedder, batchSize int) *EmbeddingProvider {
	if batchSize <= 0 {
		batchSize = defaultEmbedBatchSize
	}
	return &EmbeddingProvider{embedder: embedder, batchSize: batchSize}
}

// Matrix embeds both token lists and returns the cosine similarity of
// every source/target pair, clamped to [0, 1].
func (p *EmbeddingProvider) Matrix(ctx context.Context, source, target []string) (matching.Matrix, error) {
	var srcVecs, tgtVecs [][]float32

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		vecs, err := p.embedAll(gctx, source)
		srcVecs = vecs
		return err
	})
	g.Go(func() error {
		vecs, err := p.embedAll(gctx, target)
		tgtVecs = vecs
		return err
	})
	if err := g.Wait(); err != nil {
		if apperrors.IsUpstream(err) || apperrors.IsValidation(err) {
			return nil, err
		}
		return nil, apperrors.NewUpstream("embed tokens", err)
	}

	if err := checkVectors(srcVecs, len(source)); err != nil {
		return nil, apperrors.NewUpstream("source embeddings", err)
	}
	if err := checkVectors(tgtVecs, len(target)); err != nil {
		return nil, apperrors.NewUpstream("target embeddings", err)
	}
	if len(srcVecs) > 0 && len(tgtVecs) > 0 && len(srcVecs[0]) != len(tgtVecs[0]) {
		return nil, apperrors.NewUpstream("embeddings",
			fmt.Errorf("dimension mismatch: source %d, target %d", len(srcVecs[0]), len(tgtVecs[0])))
	}

	m := matching.NewMatrix(len(source), len(target))
	for i, sv := range srcVecs {
		for j, tv := range tgtVecs {
			m[i][j] = cosine01(sv, tv)
		}
	}
	return m, nil
}

// Name identifies this provider by its embedding model.
func (p *EmbeddingProvider) Name() string {
	return "embedding/" + p.embedder.Model()
}

// embedAll chunks the texts so a long sentence never exceeds the
// upstream request limits.
func (p *EmbeddingProvider) embedAll(ctx context.Context, texts []string) ([][]float32, error) {
	vecs := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += p.batchSize {
		end := min(start+p.batchSize, len(texts))
		batch, err := p.embedder.EmbedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		vecs = append(vecs, batch...)
	}
	return vecs, nil
}

func checkVectors(vecs [][]float32, want int) error {
	if len(vecs) != want {
		return fmt.Errorf("got %d vectors for %d tokens", len(vecs), want)
	}
	for i, v := range vecs {
		if len(v) == 0 {
			return fmt.Errorf("empty vector at index %d", i)
		}
		if len(v) != len(vecs[0]) {
			return fmt.Errorf("inconsistent dimensions: vector %d has %d, vector 0 has %d", i, len(v), len(vecs[0]))
		}
	}
	return nil
}

// cosine01 is cosine similarity clamped to [0, 1]: the matrix
// invariant requires non-negative values, and anti-correlated tokens
// carry no alignment signal anyway. Accumulates in float64 to avoid
// drift on long vectors. A zero-norm vector has no direction and
// scores 0 against everything.
func cosine01(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		ai, bi := float64(a[i]), float64(b[i])
		dot += ai * bi
		normA += ai * ai
		normB += bi * bi
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	s := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}
