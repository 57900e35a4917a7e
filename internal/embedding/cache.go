package embedding

import (
	"context"
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultCacheSize = 10000

// Cached wraps an Embedder with an LRU cache keyed by model and text.
// Word-level inputs repeat heavily across alignment requests, so the
// cache absorbs most upstream traffic after a short warm-up.
type Cached struct {
	inner Embedder
	cache *lru.Cache[string, []float32]

	hits   atomic.Uint64
	misses atomic.Uint64
}

var _ Embedder = (*Cached)(nil)

// NewCached wraps inner with an LRU cache of the given size. A
// non-positive size falls back to the default.
func NewCached(inner Embedder, size int) (*Cached, error) {
	if size <= 0 {
		size = defaultCacheSize
	}
	cache, err := lru.New[string, []float32](size)
	if err != nil {
		return nil, fmt.Errorf("create embedding cache: %w", err)
	}
	return &Cached{inner: inner, cache: cache}, nil
}

// EmbedBatch serves cached vectors where possible and fetches only
// the uncached remainder from the wrapped embedder.
func (c *Cached) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, ErrEmptyBatch
	}

	results := make([][]float32, len(texts))
	var uncachedIdx []int
	var uncached []string

	for i, text := range texts {
		if vec, ok := c.cache.Get(c.key(text)); ok {
			results[i] = vec
			continue
		}
		uncachedIdx = append(uncachedIdx, i)
		uncached = append(uncached, text)
	}
	c.hits.Add(uint64(len(texts) - len(uncached)))
	c.misses.Add(uint64(len(uncached)))

	if len(uncached) == 0 {
		return results, nil
	}

	vecs, err := c.inner.EmbedBatch(ctx, uncached)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(uncached) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(vecs), len(uncached))
	}

	for i, idx := range uncachedIdx {
		c.cache.Add(c.key(texts[idx]), vecs[i])
		results[idx] = vecs[i]
	}
	return results, nil
}

// Dimensions reports the wrapped embedder's dimensionality.
func (c *Cached) Dimensions() int {
	return c.inner.Dimensions()
}

// Model reports the wrapped embedder's model identifier.
func (c *Cached) Model() string {
	return c.inner.Model()
}

// Stats returns the cumulative cache hit and miss counts.
func (c *Cached) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}

// Len returns the number of cached vectors.
func (c *Cached) Len() int {
	return c.cache.Len()
}

// The model name is part of the key so a model switch cannot serve
// stale vectors.
func (c *Cached) key(text string) string {
	return c.inner.Model() + "\x1f" + text
}
