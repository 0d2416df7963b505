package routing

import (
	"sort"
	"testing"

	"allpairs/pkg/ch"
	"allpairs/pkg/edgelist"
	"allpairs/pkg/graph"
)

// strategies builds both backends over the same edge list so properties
// can be checked for each.
func strategies(t *testing.T, edges []edgelist.WeightedEdge) map[string]Strategy {
	t.Helper()
	g := graph.Build(edges)
	return map[string]Strategy{
		"direct":       NewDirect(g),
		"preprocessed": NewContracted(ch.Contract(g)),
	}
}

// asMap indexes results by ordered pair for direct lookup.
func asMap(results []Result) map[[2]uint32]uint64 {
	m := make(map[[2]uint32]uint64, len(results))
	for _, r := range results {
		m[[2]uint32{r.Src, r.Dst}] = r.Length
	}
	return m
}

func sortResults(results []Result) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Src != results[j].Src {
			return results[i].Src < results[j].Src
		}
		return results[i].Dst < results[j].Dst
	})
}

// denseRing builds a connected fixture with parallel paths and uneven
// weights: a 12-node ring plus chords.
func denseRing() []edgelist.WeightedEdge {
	var edges []edgelist.WeightedEdge
	for i := uint64(0); i < 12; i++ {
		edges = append(edges, edgelist.WeightedEdge{Src: i, Dst: (i + 1) % 12, Weight: float64(i%5 + 1)})
	}
	edges = append(edges,
		edgelist.WeightedEdge{Src: 0, Dst: 6, Weight: 4},
		edgelist.WeightedEdge{Src: 2, Dst: 9, Weight: 3},
		edgelist.WeightedEdge{Src: 4, Dst: 11, Weight: 7},
	)
	return edges
}

func TestCheaperTwoHopPathWins(t *testing.T) {
	// (0,1,1), (1,2,2), (0,2,5): the two-hop route 0-1-2 costs 3, beating
	// the direct edge of 5.
	edges := []edgelist.WeightedEdge{
		{Src: 0, Dst: 1, Weight: 1.0},
		{Src: 1, Dst: 2, Weight: 2.0},
		{Src: 0, Dst: 2, Weight: 5.0},
	}

	want := map[[2]uint32]uint64{
		{0, 1}: 1, {1, 0}: 1,
		{1, 2}: 2, {2, 1}: 2,
		{0, 2}: 3, {2, 0}: 3,
	}

	for name, s := range strategies(t, edges) {
		got := asMap(AllPairs(s, 1))
		if len(got) != len(want) {
			t.Errorf("%s: %d pairs, want %d", name, len(got), len(want))
		}
		for pair, length := range want {
			if got[pair] != length {
				t.Errorf("%s: length(%d,%d) = %d, want %d", name, pair[0], pair[1], got[pair], length)
			}
		}
	}
}

func TestStrategyEquivalence(t *testing.T) {
	g := graph.Build(denseRing())
	direct := AllPairs(NewDirect(g), 1)
	contracted := AllPairs(NewContracted(ch.Contract(g)), 1)

	dm := asMap(direct)
	cm := asMap(contracted)

	if len(dm) != len(cm) {
		t.Fatalf("pair counts differ: direct=%d preprocessed=%d", len(dm), len(cm))
	}
	for pair, length := range dm {
		if cm[pair] != length {
			t.Errorf("pair (%d,%d): direct=%d preprocessed=%d", pair[0], pair[1], length, cm[pair])
		}
	}
}

func TestSymmetry(t *testing.T) {
	for name, s := range strategies(t, denseRing()) {
		m := asMap(AllPairs(s, 1))
		for pair, length := range m {
			rev := [2]uint32{pair[1], pair[0]}
			back, ok := m[rev]
			if !ok {
				t.Errorf("%s: (%d,%d) present but reverse missing", name, pair[0], pair[1])
				continue
			}
			if back != length {
				t.Errorf("%s: length(%d,%d)=%d but length(%d,%d)=%d", name, pair[0], pair[1], length, pair[1], pair[0], back)
			}
		}
	}
}

func TestDisconnectedComponents(t *testing.T) {
	// Components of size 3 and 2: exactly 3*2 + 2*1 = 8 ordered pairs,
	// none crossing.
	edges := []edgelist.WeightedEdge{
		{Src: 0, Dst: 1, Weight: 1},
		{Src: 1, Dst: 2, Weight: 1},
		{Src: 10, Dst: 11, Weight: 1},
	}

	for name, s := range strategies(t, edges) {
		results := AllPairs(s, 1)
		if len(results) != 8 {
			t.Errorf("%s: %d pairs, want 8", name, len(results))
		}
		// Dense indices 0,1,2 are the first component, 3,4 the second.
		for _, r := range results {
			if (r.Src < 3) != (r.Dst < 3) {
				t.Errorf("%s: pair (%d,%d) crosses components", name, r.Src, r.Dst)
			}
		}
	}
}

func TestMultiEdgeKeepsCheaper(t *testing.T) {
	edges := []edgelist.WeightedEdge{
		{Src: 0, Dst: 1, Weight: 7},
		{Src: 0, Dst: 1, Weight: 4},
	}

	for name, s := range strategies(t, edges) {
		m := asMap(AllPairs(s, 1))
		if m[[2]uint32{0, 1}] != 4 || m[[2]uint32{1, 0}] != 4 {
			t.Errorf("%s: parallel edges gave lengths %d/%d, want 4", name, m[[2]uint32{0, 1}], m[[2]uint32{1, 0}])
		}
	}
}

func TestLengthsBeyondArcCostRange(t *testing.T) {
	// Two max-heavy arcs in a row: the path sum does not fit in 32 bits
	// even though each arc cost does.
	edges := []edgelist.WeightedEdge{
		{Src: 0, Dst: 1, Weight: 3_000_000_000},
		{Src: 1, Dst: 2, Weight: 3_000_000_000},
	}

	for name, s := range strategies(t, edges) {
		m := asMap(AllPairs(s, 1))
		if got := m[[2]uint32{0, 2}]; got != 6_000_000_000 {
			t.Errorf("%s: length(0,2) = %d, want 6000000000", name, got)
		}
		if got := m[[2]uint32{2, 0}]; got != 6_000_000_000 {
			t.Errorf("%s: length(2,0) = %d, want 6000000000", name, got)
		}
	}
}

func TestMaxArcCostEdge(t *testing.T) {
	// A single arc at the top of the representable cost range must not be
	// mistaken for "unreachable".
	edges := []edgelist.WeightedEdge{
		{Src: 0, Dst: 1, Weight: 4294967295},
	}

	for name, s := range strategies(t, edges) {
		m := asMap(AllPairs(s, 1))
		got, ok := m[[2]uint32{0, 1}]
		if !ok {
			t.Fatalf("%s: pair (0,1) missing", name)
		}
		if got != 4294967295 {
			t.Errorf("%s: length(0,1) = %d, want 4294967295", name, got)
		}
	}
}

func TestEquivalenceOnDenseHub(t *testing.T) {
	// A 4-cycle where every side is a thick bundle of parallel edges. The
	// hub nodes produce a huge worst-case shortcut count during
	// contraction; the preprocessed answers must still match the direct
	// ones, in particular the cheap route 1-0-3 around the cycle.
	var edges []edgelist.WeightedEdge
	for i := 0; i < 23; i++ {
		edges = append(edges,
			edgelist.WeightedEdge{Src: 0, Dst: 1, Weight: 1},
			edgelist.WeightedEdge{Src: 1, Dst: 2, Weight: 1000},
			edgelist.WeightedEdge{Src: 2, Dst: 3, Weight: 1000},
			edgelist.WeightedEdge{Src: 3, Dst: 0, Weight: 1},
		)
	}

	g := graph.Build(edges)
	dm := asMap(AllPairs(NewDirect(g), 1))
	cm := asMap(AllPairs(NewContracted(ch.Contract(g)), 1))

	if len(dm) != len(cm) {
		t.Fatalf("pair counts differ: direct=%d preprocessed=%d", len(dm), len(cm))
	}
	for pair, length := range dm {
		if cm[pair] != length {
			t.Errorf("pair (%d,%d): direct=%d preprocessed=%d", pair[0], pair[1], length, cm[pair])
		}
	}
	if got := cm[[2]uint32{1, 3}]; got != 2 {
		t.Errorf("length(1,3) = %d, want 2", got)
	}
}

func TestSingleNodeGraph(t *testing.T) {
	// A self-loop introduces one node and no pairs: self-pairs are never
	// reported.
	edges := []edgelist.WeightedEdge{{Src: 5, Dst: 5, Weight: 3}}

	g := graph.Build(edges)
	if g.NumNodes != 1 {
		t.Fatalf("NumNodes = %d, want 1", g.NumNodes)
	}

	for name, s := range strategies(t, edges) {
		if results := AllPairs(s, 1); len(results) != 0 {
			t.Errorf("%s: %d results for single-node graph, want 0", name, len(results))
		}
	}
}

func TestEmptyGraph(t *testing.T) {
	for name, s := range strategies(t, nil) {
		if results := AllPairs(s, 1); len(results) != 0 {
			t.Errorf("%s: %d results for empty graph, want 0", name, len(results))
		}
	}
}

func TestParallelMatchesSerial(t *testing.T) {
	for name, s := range strategies(t, denseRing()) {
		serial := AllPairs(s, 1)
		parallel := AllPairs(s, 4)

		sortResults(serial)
		sortResults(parallel)

		if len(serial) != len(parallel) {
			t.Fatalf("%s: serial=%d parallel=%d results", name, len(serial), len(parallel))
		}
		for i := range serial {
			if serial[i] != parallel[i] {
				t.Errorf("%s: result %d differs: serial=%+v parallel=%+v", name, i, serial[i], parallel[i])
			}
		}
	}
}

func TestIdempotence(t *testing.T) {
	for name, s := range strategies(t, denseRing()) {
		first := AllPairs(s, 2)
		second := AllPairs(s, 2)

		sortResults(first)
		sortResults(second)

		if len(first) != len(second) {
			t.Fatalf("%s: run sizes differ: %d vs %d", name, len(first), len(second))
		}
		for i := range first {
			if first[i] != second[i] {
				t.Errorf("%s: result %d differs across runs: %+v vs %+v", name, i, first[i], second[i])
			}
		}
	}
}
