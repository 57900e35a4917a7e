package similarity

import (
	"context"
	"strings"

	"github.com/nimyab/word-aligner/internal/matching"
)

// Lexical scores token pairs with the Dice coefficient over character
// bigrams. It needs no upstream service, which makes it the default
// for the CLI and a fast stand-in for tests. Case is folded so
// "Cat"/"cat" score 1; beyond that no normalization is applied.
type Lexical struct{}

var _ Provider = (*Lexical)(nil)

// NewLexical creates the lexical provider.
func NewLexical() *Lexical {
	return &Lexical{}
}

// Matrix fills the S×T grid with pairwise Dice scores.
func (l *Lexical) Matrix(_ context.Context, source, target []string) (matching.Matrix, error) {
	srcGrams := make([]map[string]int, len(source))
	for i, w := range source {
		srcGrams[i] = bigrams(w)
	}
	tgtGrams := make([]map[string]int, len(target))
	for j, w := range target {
		tgtGrams[j] = bigrams(w)
	}

	m := matching.NewMatrix(len(source), len(target))
	for i := range source {
		for j := range target {
			m[i][j] = dice(srcGrams[i], tgtGrams[j])
		}
	}
	return m, nil
}

// Name identifies the lexical provider.
func (l *Lexical) Name() string {
	return "lexical"
}

// bigrams returns the multiset of adjacent rune pairs in the folded
// word. A single-rune word contributes itself, so "a" vs "a" still
// scores 1.
func bigrams(word string) map[string]int {
	runes := []rune(strings.ToLower(word))
	grams := make(map[string]int)
	if len(runes) == 1 {
		grams[string(runes)] = 1
		return grams
	}
	for i := 0; i+1 < len(runes); i++ {
		grams[string(runes[i:i+2])]++
	}
	return grams
}

// dice is 2·|A∩B| / (|A|+|B|) over bigram multisets.
func dice(a, b map[string]int) float64 {
	sizeA, sizeB := 0, 0
	for _, n := range a {
		sizeA += n
	}
	for _, n := range b {
		sizeB += n
	}
	if sizeA == 0 || sizeB == 0 {
		return 0
	}

	common := 0
	for gram, na := range a {
		if nb, ok := b[gram]; ok {
			common += min(na, nb)
		}
	}
	return 2 * float64(common) / float64(sizeA+sizeB)
}
