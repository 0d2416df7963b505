package routing

import (
	"math"

	"allpairs/pkg/graph"
)

// SearchState holds reusable state for one-to-all Dijkstra. Reset walks
// only the touched nodes, so repeated searches on a large graph do not
// re-zero the whole distance array.
type SearchState struct {
	dist    []uint64
	touched []uint32
	pq      MinHeap
}

// NewSearchState creates a SearchState for a graph with n nodes.
func NewSearchState(n uint32) *SearchState {
	dist := make([]uint64, n)
	for i := range dist {
		dist[i] = math.MaxUint64
	}
	return &SearchState{
		dist: dist,
		pq:   MinHeap{items: make([]PQItem, 0, 256)},
	}
}

// Reset clears only the touched entries for fast reuse.
func (st *SearchState) Reset() {
	for _, node := range st.touched {
		st.dist[node] = math.MaxUint64
	}
	st.touched = st.touched[:0]
	st.pq.Reset()
}

// Direct is the per-source Dijkstra strategy: no index, every source runs
// a full label-setting search over the base graph.
type Direct struct {
	g *graph.Graph
}

// NewDirect creates the direct strategy over a frozen graph.
func NewDirect(g *graph.Graph) *Direct {
	return &Direct{g: g}
}

func (d *Direct) NumNodes() uint32 { return d.g.NumNodes }

// NewSolver returns a solver with its own search state. Each worker gets
// one; the state is mutable and must not be shared.
func (d *Direct) NewSolver() Solver {
	return &directSolver{g: d.g, st: NewSearchState(d.g.NumNodes)}
}

type directSolver struct {
	g  *graph.Graph
	st *SearchState
}

// From runs one-to-all Dijkstra from src and emits every reachable
// destination with its shortest length. Unreachable nodes are never
// visited, so they are naturally omitted; src itself is skipped.
func (s *directSolver) From(src uint32, emit func(dst uint32, length uint64)) {
	g := s.g
	st := s.st
	st.Reset()

	st.dist[src] = 0
	st.touched = append(st.touched, src)
	st.pq.Push(src, 0)

	for st.pq.Len() > 0 {
		cur := st.pq.Pop()

		// Skip stale entries.
		if cur.Dist > st.dist[cur.Node] {
			continue
		}

		start, end := g.EdgesFrom(cur.Node)
		for e := start; e < end; e++ {
			v := g.Head[e]
			newDist := cur.Dist + uint64(g.Weight[e])
			if newDist < st.dist[v] {
				if st.dist[v] == math.MaxUint64 {
					st.touched = append(st.touched, v)
				}
				st.dist[v] = newDist
				st.pq.Push(v, newDist)
			}
		}
	}

	for _, node := range st.touched {
		if node == src {
			continue
		}
		emit(node, st.dist[node])
	}
}
