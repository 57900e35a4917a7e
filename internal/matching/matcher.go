// Package matching turns token similarity matrices into discrete word
// alignments. Every method is a deterministic pure function of the
// matrix: the input is never mutated, ties in similarity resolve to
// the lowest index, and callers get pairs back in a documented order.
package matching

import (
	"fmt"
	"sort"
)

// Pair aligns source token index Source with target token index
// Target. Indices are zero-based positions in the tokenized
// sentences.
type Pair struct {
	Source int
	Target int
}

// Compute runs the matcher selected by method over m. The matrix must
// already satisfy Matrix.Validate.
func Compute(m Matrix, method Method) ([]Pair, error) {
	switch method {
	case MethodForward:
		return Forward(m), nil
	case MethodReverse:
		return Reverse(m), nil
	case MethodIntersection:
		return Intersection(m), nil
	case MethodIterMax:
		return IterMax(m), nil
	case MethodMaxWeight:
		return MaxWeight(m), nil
	default:
		return nil, fmt.Errorf("unknown matching method %q", method)
	}
}

// Forward aligns every source token to its most similar target token.
// Exactly Rows() pairs, in ascending source order. A target may be
// chosen by several sources.
func Forward(m Matrix) []Pair {
	pairs := make([]Pair, 0, m.Rows())
	for i := range m {
		pairs = append(pairs, Pair{Source: i, Target: rowArgmax(m, i)})
	}
	return pairs
}

// Reverse aligns every target token to its most similar source token.
// Exactly Cols() pairs, in ascending target order.
func Reverse(m Matrix) []Pair {
	pairs := make([]Pair, 0, m.Cols())
	for j := 0; j < m.Cols(); j++ {
		pairs = append(pairs, Pair{Source: colArgmax(m, j), Target: j})
	}
	return pairs
}

// Intersection keeps the pairs on which Forward and Reverse agree:
// (i, j) survives only when j is the best target for i and i is the
// best source for j. Ascending source order. May be empty.
func Intersection(m Matrix) []Pair {
	rowBest := make([]int, m.Rows())
	for i := range m {
		rowBest[i] = rowArgmax(m, i)
	}
	colBest := make([]int, m.Cols())
	for j := range colBest {
		colBest[j] = colArgmax(m, j)
	}

	pairs := make([]Pair, 0)
	for i, j := range rowBest {
		if colBest[j] == i {
			pairs = append(pairs, Pair{Source: i, Target: j})
		}
	}
	return pairs
}

// IterMax starts from Intersection and runs up to two extra rounds.
// Each round hides the rows and columns already matched, recomputes
// mutual best matches on what remains, and adds the new pairs. A
// round that adds nothing ends the loop. The result is a superset of
// Intersection; pairs appear round by round, ascending source within
// each round.
func IterMax(m Matrix) []Pair {
	pairs := Intersection(m)
	matchedSrc := make([]bool, m.Rows())
	matchedTgt := make([]bool, m.Cols())
	for _, p := range pairs {
		matchedSrc[p.Source] = true
		matchedTgt[p.Target] = true
	}

	for round := 0; round < 2; round++ {
		rowBest := maskedRowBest(m, matchedSrc, matchedTgt)
		colBest := maskedColBest(m, matchedSrc, matchedTgt)

		added := 0
		for i, j := range rowBest {
			if j < 0 || colBest[j] != i {
				continue
			}
			pairs = append(pairs, Pair{Source: i, Target: j})
			matchedSrc[i] = true
			matchedTgt[j] = true
			added++
		}
		if added == 0 {
			break
		}
	}
	return pairs
}

// MaxWeight computes the maximum-weight one-to-one matching between
// source and target tokens. Every token on the smaller side is
// matched exactly once, so the result has min(Rows, Cols) pairs, in
// ascending source order. Implemented as a minimum-cost assignment
// over negated similarities.
func MaxWeight(m Matrix) []Pair {
	rows, cols := m.Rows(), m.Cols()
	work := m
	transposed := rows > cols
	if transposed {
		work = m.transpose()
	}

	cost := make([][]float64, len(work))
	for i, row := range work {
		cost[i] = make([]float64, len(row))
		for j, v := range row {
			cost[i][j] = -v
		}
	}

	assign := solveAssignment(cost)
	pairs := make([]Pair, len(assign))
	for i, j := range assign {
		if transposed {
			pairs[i] = Pair{Source: j, Target: i}
		} else {
			pairs[i] = Pair{Source: i, Target: j}
		}
	}
	if transposed {
		sort.Slice(pairs, func(a, b int) bool { return pairs[a].Source < pairs[b].Source })
	}
	return pairs
}

// rowArgmax returns the column with the highest value in row i, the
// lowest such column on ties.
func rowArgmax(m Matrix, i int) int {
	best := 0
	for j := 1; j < len(m[i]); j++ {
		if m[i][j] > m[i][best] {
			best = j
		}
	}
	return best
}

// colArgmax returns the row with the highest value in column j, the
// lowest such row on ties.
func colArgmax(m Matrix, j int) int {
	best := 0
	for i := 1; i < len(m); i++ {
		if m[i][j] > m[best][j] {
			best = i
		}
	}
	return best
}

// maskedRowBest computes, for every unmatched row, the best unmatched
// column (lowest index on ties). Matched rows and rows with no
// candidate left get -1.
func maskedRowBest(m Matrix, matchedSrc, matchedTgt []bool) []int {
	best := make([]int, m.Rows())
	for i := range best {
		best[i] = -1
		if matchedSrc[i] {
			continue
		}
		for j := 0; j < m.Cols(); j++ {
			if matchedTgt[j] {
				continue
			}
			if best[i] < 0 || m[i][j] > m[i][best[i]] {
				best[i] = j
			}
		}
	}
	return best
}

// maskedColBest is the column-wise counterpart of maskedRowBest.
func maskedColBest(m Matrix, matchedSrc, matchedTgt []bool) []int {
	best := make([]int, m.Cols())
	for j := range best {
		best[j] = -1
		if matchedTgt[j] {
			continue
		}
		for i := 0; i < m.Rows(); i++ {
			if matchedSrc[i] {
				continue
			}
			if best[j] < 0 || m[i][j] > m[best[j]][j] {
				best[j] = i
			}
		}
	}
	return best
}
