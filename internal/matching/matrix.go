package matching

import (
	"fmt"
	"math"
)

// Matrix is a source-by-target similarity matrix. m[i][j] holds the
// similarity between source token i and target token j and must be a
// finite, non-negative value.
type Matrix [][]float64

// NewMatrix allocates a rows x cols matrix initialized to zero.
func NewMatrix(rows, cols int) Matrix {
	m := make(Matrix, rows)
	for i := range m {
		m[i] = make([]float64, cols)
	}
	return m
}

// Rows returns the number of source tokens covered by the matrix.
func (m Matrix) Rows() int {
	return len(m)
}

// Cols returns the number of target tokens covered by the matrix.
// Zero for an empty matrix.
func (m Matrix) Cols() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// Validate checks the structural invariants: at least one row and one
// column, rectangular shape, and finite non-negative values. Matchers
// require a valid matrix; callers validate at the provider boundary.
func (m Matrix) Validate() error {
	if len(m) == 0 {
		return fmt.Errorf("matrix has no rows")
	}
	cols := len(m[0])
	if cols == 0 {
		return fmt.Errorf("matrix has no columns")
	}
	for i, row := range m {
		if len(row) != cols {
			return fmt.Errorf("matrix row %d has %d columns, want %d", i, len(row), cols)
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("matrix value at [%d][%d] is not finite", i, j)
			}
			if v < 0 {
				return fmt.Errorf("matrix value at [%d][%d] is negative: %v", i, j, v)
			}
		}
	}
	return nil
}

// transpose returns a new matrix with rows and columns swapped. The
// receiver is not modified.
func (m Matrix) transpose() Matrix {
	t := NewMatrix(m.Cols(), m.Rows())
	for i, row := range m {
		for j, v := range row {
			t[j][i] = v
		}
	}
	return t
}
