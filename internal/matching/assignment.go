package matching

import "math"

// solveAssignment finds a minimum-cost assignment of every row to a
// distinct column for a cost matrix with len(cost) <= len(cost[0]).
// It is the Hungarian algorithm in the potentials formulation, which
// runs in O(rows^2 * cols). Columns are scanned in ascending order,
// so equal-cost solutions resolve deterministically. Returns
// assign[row] = column.
func solveAssignment(cost [][]float64) []int {
	n := len(cost)
	if n == 0 {
		return nil
	}
	m := len(cost[0])

	// 1-based arrays with index 0 as the sentinel column.
	u := make([]float64, n+1)
	v := make([]float64, m+1)
	match := make([]int, m+1) // match[j] = row occupying column j, 0 when free
	way := make([]int, m+1)

	for i := 1; i <= n; i++ {
		match[0] = i
		j0 := 0
		minv := make([]float64, m+1)
		used := make([]bool, m+1)
		for j := range minv {
			minv[j] = math.Inf(1)
		}

		// Grow an alternating tree from row i until a free column is
		// reached, updating the dual potentials along the way.
		for {
			used[j0] = true
			i0 := match[j0]
			delta := math.Inf(1)
			j1 := 0
			for j := 1; j <= m; j++ {
				if used[j] {
					continue
				}
				reduced := cost[i0-1][j-1] - u[i0] - v[j]
				if reduced < minv[j] {
					minv[j] = reduced
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= m; j++ {
				if used[j] {
					u[match[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if match[j0] == 0 {
				break
			}
		}

		// Augment: flip the matching along the found path.
		for j0 != 0 {
			j1 := way[j0]
			match[j0] = match[j1]
			j0 = j1
		}
	}

	assign := make([]int, n)
	for j := 1; j <= m; j++ {
		if match[j] > 0 {
			assign[match[j]-1] = j - 1
		}
	}
	return assign
}
