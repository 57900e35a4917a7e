package embedding

import (
	"context"
	"sync/atomic"
	"testing"
)

// countingEmbedder wraps Mock and counts how many texts reach it.
type countingEmbedder struct {
	*Mock
	embedded atomic.Int64
}

func (c *countingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	c.embedded.Add(int64(len(texts)))
	return c.Mock.EmbedBatch(ctx, texts)
}

func TestCachedServesRepeatsFromCache(t *testing.T) {
	inner := &countingEmbedder{Mock: NewMock(8)}
	cached, err := NewCached(inner, 100)
	if err != nil {
		t.Fatalf("NewCached: %v", err)
	}

	ctx := context.Background()
	first, err := cached.EmbedBatch(ctx, []string{"cat", "sat", "cat"})
	if err != nil {
		t.Fatalf("EmbedBatch: %v", err)
	}
	// "cat" repeats inside the batch: the second occurrence is a miss
	// too because the cache fills only after the upstream call.
	if got := inner.embedded.Load(); got != 3 {
		t.Fatalf("first batch embedded %d texts upstream, want 3", got)
	}

	second, err := cached.EmbedBatch(ctx, []string{"cat", "sat"})
	if err != nil {
		t.Fatalf("EmbedBatch: %v", err)
	}
	if got := inner.embedded.Load(); got != 3 {
		t.Errorf("second batch went upstream, embedded %d texts total", got)
	}

	for i, want := range first[:2] {
		got := second[i]
		if len(got) != len(want) {
			t.Fatalf("vector %d length changed between calls", i)
		}
		for j := range want {
			if got[j] != want[j] {
				t.Fatalf("vector %d differs at %d: %v != %v", i, j, got[j], want[j])
			}
		}
	}

	hits, misses := cached.Stats()
	if hits != 2 || misses != 3 {
		t.Errorf("Stats() = (%d, %d), want (2, 3)", hits, misses)
	}
	if cached.Len() != 2 {
		t.Errorf("Len() = %d, want 2", cached.Len())
	}
}

func TestCachedPartialBatch(t *testing.T) {
	inner := &countingEmbedder{Mock: NewMock(8)}
	cached, err := NewCached(inner, 100)
	if err != nil {
		t.Fatalf("NewCached: %v", err)
	}

	ctx := context.Background()
	if _, err := cached.EmbedBatch(ctx, []string{"cat"}); err != nil {
		t.Fatalf("EmbedBatch: %v", err)
	}
	vecs, err := cached.EmbedBatch(ctx, []string{"dog", "cat", "sat"})
	if err != nil {
		t.Fatalf("EmbedBatch: %v", err)
	}
	if len(vecs) != 3 {
		t.Fatalf("got %d vectors, want 3", len(vecs))
	}
	for i, v := range vecs {
		if len(v) != 8 {
			t.Errorf("vector %d has dim %d, want 8", i, len(v))
		}
	}
	// Only dog and sat were uncached.
	if got := inner.embedded.Load(); got != 3 {
		t.Errorf("embedded %d texts upstream, want 3", got)
	}
}

func TestCachedDelegatesMetadata(t *testing.T) {
	cached, err := NewCached(NewMock(16), 0)
	if err != nil {
		t.Fatalf("NewCached: %v", err)
	}
	if cached.Dimensions() != 16 {
		t.Errorf("Dimensions() = %d, want 16", cached.Dimensions())
	}
	if cached.Model() != "mock" {
		t.Errorf("Model() = %q, want mock", cached.Model())
	}
}

func TestMockIsDeterministic(t *testing.T) {
	m := NewMock(32)
	a, err := m.EmbedBatch(context.Background(), []string{"word"})
	if err != nil {
		t.Fatalf("EmbedBatch: %v", err)
	}
	b, err := m.EmbedBatch(context.Background(), []string{"word"})
	if err != nil {
		t.Fatalf("EmbedBatch: %v", err)
	}
	for i := range a[0] {
		if a[0][i] != b[0][i] {
			t.Fatalf("mock vectors differ at %d", i)
		}
	}

	other, err := m.EmbedBatch(context.Background(), []string{"different"})
	if err != nil {
		t.Fatalf("EmbedBatch: %v", err)
	}
	same := true
	for i := range a[0] {
		if a[0][i] != other[0][i] {
			same = false
			break
		}
	}
	if same {
		t.Error("mock produced identical vectors for different texts")
	}
}
