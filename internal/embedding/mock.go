package embedding

import (
	"context"
	"hash/fnv"
	"math"
)

const mockDefaultDim = 64

// Mock is a deterministic in-process embedder for tests and the
// "mock" provider setting. Equal texts always map to equal vectors,
// so identical words across the two sides align with similarity 1.
type Mock struct {
	dim int
}

var _ Embedder = (*Mock)(nil)

// NewMock creates a mock embedder. A non-positive dim falls back to
// the default.
func NewMock(dim int) *Mock {
	if dim <= 0 {
		dim = mockDefaultDim
	}
	return &Mock{dim: dim}
}

// EmbedBatch returns one deterministic unit vector per text.
func (m *Mock) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, ErrEmptyBatch
	}
	vecs := make([][]float32, len(texts))
	for i, text := range texts {
		vecs[i] = m.vector(text)
	}
	return vecs, nil
}

// Dimensions returns the configured dimensionality.
func (m *Mock) Dimensions() int {
	return m.dim
}

// Model returns a stable identifier for cache keys.
func (m *Mock) Model() string {
	return "mock"
}

// vector derives a unit-length vector from the FNV hash of the text
// using a splitmix64 sequence, so nearby strings do not collide.
func (m *Mock) vector(text string) []float32 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	state := h.Sum64()

	vec := make([]float32, m.dim)
	var norm float64
	for i := range vec {
		state += 0x9e3779b97f4a7c15
		z := state
		z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
		z = (z ^ (z >> 27)) * 0x94d049bb133111eb
		z ^= z >> 31
		// Map to (-1, 1).
		v := float64(int64(z)) / float64(math.MaxInt64)
		vec[i] = float32(v)
		norm += v * v
	}

	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= scale
		}
	}
	return vec
}
