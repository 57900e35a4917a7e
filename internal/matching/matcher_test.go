package matching

import (
	"reflect"
	"testing"
)

// pairSet builds a lookup for subset assertions where order is not
// part of the contract.
func pairSet(pairs []Pair) map[Pair]bool {
	set := make(map[Pair]bool, len(pairs))
	for _, p := range pairs {
		set[p] = true
	}
	return set
}

func TestForwardCoversEverySourceToken(t *testing.T) {
	m := Matrix{
		{0.9, 0.1, 0.3},
		{0.2, 0.8, 0.4},
	}
	got := Forward(m)
	want := []Pair{{0, 0}, {1, 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Forward() = %v, want %v", got, want)
	}
	if len(got) != m.Rows() {
		t.Errorf("Forward() returned %d pairs, want %d", len(got), m.Rows())
	}
}

func TestForwardTieBreaksToLowestTarget(t *testing.T) {
	m := Matrix{{0.5, 0.5}}
	got := Forward(m)
	want := []Pair{{0, 0}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Forward() = %v, want %v", got, want)
	}
}

func TestReverseCoversEveryTargetToken(t *testing.T) {
	m := Matrix{
		{0.9, 0.1},
		{0.8, 0.7},
		{0.3, 0.6},
	}
	got := Reverse(m)
	want := []Pair{{0, 0}, {1, 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Reverse() = %v, want %v", got, want)
	}
	if len(got) != m.Cols() {
		t.Errorf("Reverse() returned %d pairs, want %d", len(got), m.Cols())
	}
}

func TestReverseTieBreaksToLowestSource(t *testing.T) {
	m := Matrix{{0.5}, {0.5}}
	got := Reverse(m)
	want := []Pair{{0, 0}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Reverse() = %v, want %v", got, want)
	}
}

func TestIntersectionIsSubsetOfBothDirections(t *testing.T) {
	m := Matrix{
		{0.9, 0.8, 0.1},
		{0.85, 0.7, 0.2},
		{0.1, 0.2, 0.6},
	}
	inter := Intersection(m)
	want := []Pair{{0, 0}, {2, 2}}
	if !reflect.DeepEqual(inter, want) {
		t.Fatalf("Intersection() = %v, want %v", inter, want)
	}

	fwd := pairSet(Forward(m))
	rev := pairSet(Reverse(m))
	for _, p := range inter {
		if !fwd[p] {
			t.Errorf("pair %v missing from forward alignment", p)
		}
		if !rev[p] {
			t.Errorf("pair %v missing from reverse alignment", p)
		}
	}
}

func TestIntersectionTransposeSymmetry(t *testing.T) {
	m := Matrix{
		{0.9, 0.8, 0.1},
		{0.85, 0.7, 0.2},
		{0.1, 0.2, 0.6},
	}
	direct := pairSet(Intersection(m))

	flipped := make([]Pair, 0)
	for _, p := range Intersection(m.transpose()) {
		flipped = append(flipped, Pair{Source: p.Target, Target: p.Source})
	}
	if !reflect.DeepEqual(direct, pairSet(flipped)) {
		t.Errorf("Intersection(m) = %v, Intersection(m^T) flipped = %v", direct, pairSet(flipped))
	}
}

func TestIterMaxGrowsIntersection(t *testing.T) {
	m := Matrix{
		{0.9, 0.8, 0.1},
		{0.85, 0.7, 0.2},
		{0.1, 0.2, 0.6},
	}
	got := IterMax(m)
	want := []Pair{{0, 0}, {2, 2}, {1, 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("IterMax() = %v, want %v", got, want)
	}

	iter := pairSet(got)
	for _, p := range Intersection(m) {
		if !iter[p] {
			t.Errorf("IterMax() dropped intersection pair %v", p)
		}
	}
}

func TestIterMaxStopsAfterTwoExtraRounds(t *testing.T) {
	// One mutual best per round: the fourth diagonal pair would need a
	// third round and must not appear.
	m := Matrix{
		{0.9, 0.8, 0.7, 0.6},
		{0.8, 0.7, 0.6, 0.5},
		{0.7, 0.6, 0.5, 0.4},
		{0.6, 0.5, 0.4, 0.3},
	}
	got := IterMax(m)
	want := []Pair{{0, 0}, {1, 1}, {2, 2}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("IterMax() = %v, want %v", got, want)
	}
}

func TestIterMaxNoDuplicateRowsOrColumnsAcrossRounds(t *testing.T) {
	m := Matrix{
		{0.9, 0.8, 0.1},
		{0.85, 0.7, 0.2},
		{0.1, 0.2, 0.6},
	}
	seenSrc := make(map[int]int)
	seenTgt := make(map[int]int)
	for _, p := range IterMax(m) {
		seenSrc[p.Source]++
		seenTgt[p.Target]++
	}
	for s, n := range seenSrc {
		if n > 1 {
			t.Errorf("source %d matched %d times in itermax rounds", s, n)
		}
	}
	for tgt, n := range seenTgt {
		if n > 1 {
			t.Errorf("target %d matched %d times in itermax rounds", tgt, n)
		}
	}
}

func TestMaxWeightPrefersGlobalOptimum(t *testing.T) {
	// Greedy mutual-best picks (0,0) for 0.9, but the heaviest full
	// matching routes source 0 to target 1 instead.
	m := Matrix{
		{0.9, 0.8, 0.1},
		{0.85, 0.7, 0.2},
		{0.1, 0.2, 0.6},
	}
	got := MaxWeight(m)
	want := []Pair{{0, 1}, {1, 0}, {2, 2}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MaxWeight() = %v, want %v", got, want)
	}
}

func TestMaxWeightKnownOptimum4x4(t *testing.T) {
	m := Matrix{
		{0.7, 0.9, 0.1, 0.2},
		{0.8, 0.9, 0.3, 0.1},
		{0.2, 0.8, 0.75, 0.9},
		{0.1, 0.7, 0.9, 0.8},
	}
	got := MaxWeight(m)
	want := []Pair{{0, 1}, {1, 0}, {2, 3}, {3, 2}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MaxWeight() = %v, want %v", got, want)
	}
}

func TestMaxWeightMatchesSmallerSideExactlyOnce(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix
	}{
		{"wide", Matrix{{0.1, 0.9, 0.3, 0.2, 0.5}}},
		{"tall", Matrix{{0.1}, {0.9}, {0.3}, {0.2}, {0.5}}},
		{"more sources", Matrix{
			{0.9, 0.1},
			{0.8, 0.7},
			{0.3, 0.6},
		}},
		{"more targets", Matrix{
			{0.2, 0.9, 0.4, 0.1},
			{0.7, 0.3, 0.8, 0.2},
			{0.1, 0.5, 0.2, 0.9},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pairs := MaxWeight(tt.m)
			small := tt.m.Rows()
			if tt.m.Cols() < small {
				small = tt.m.Cols()
			}
			if len(pairs) != small {
				t.Fatalf("MaxWeight() returned %d pairs, want min(S,T)=%d", len(pairs), small)
			}
			srcSeen := make(map[int]bool)
			tgtSeen := make(map[int]bool)
			for _, p := range pairs {
				if srcSeen[p.Source] {
					t.Errorf("source %d matched twice", p.Source)
				}
				if tgtSeen[p.Target] {
					t.Errorf("target %d matched twice", p.Target)
				}
				srcSeen[p.Source] = true
				tgtSeen[p.Target] = true
			}
			for i := 1; i < len(pairs); i++ {
				if pairs[i-1].Source >= pairs[i].Source {
					t.Errorf("pairs not in ascending source order: %v", pairs)
					break
				}
			}
		})
	}
}

func TestMaxWeightSingleRowTieBreaksToLowestTarget(t *testing.T) {
	m := Matrix{{0.5, 0.5}}
	got := MaxWeight(m)
	want := []Pair{{0, 0}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MaxWeight() = %v, want %v", got, want)
	}
}

func TestAllMethodsAgreeOnClearDiagonal(t *testing.T) {
	m := Matrix{
		{0.9, 0.1},
		{0.2, 0.8},
	}
	want := pairSet([]Pair{{0, 0}, {1, 1}})
	for _, method := range Methods() {
		got, err := Compute(m, method)
		if err != nil {
			t.Fatalf("Compute(%s) error: %v", method, err)
		}
		if !reflect.DeepEqual(pairSet(got), want) {
			t.Errorf("Compute(%s) = %v, want diagonal", method, got)
		}
	}
}

func TestMatchersDoNotMutateInput(t *testing.T) {
	m := Matrix{
		{0.9, 0.8, 0.1},
		{0.85, 0.7, 0.2},
		{0.1, 0.2, 0.6},
	}
	snapshot := make(Matrix, len(m))
	for i, row := range m {
		snapshot[i] = append([]float64(nil), row...)
	}
	for _, method := range Methods() {
		if _, err := Compute(m, method); err != nil {
			t.Fatalf("Compute(%s) error: %v", method, err)
		}
		if !reflect.DeepEqual(m, snapshot) {
			t.Fatalf("Compute(%s) mutated the input matrix", method)
		}
	}
}

func TestComputeUnknownMethod(t *testing.T) {
	m := Matrix{{1}}
	if _, err := Compute(m, Method("nope")); err == nil {
		t.Error("Compute() with unknown method should fail")
	}
}
