package routing

import (
	"math"

	"allpairs/pkg/graph"
)

// QueryState holds per-query state for bidirectional CH Dijkstra. One
// instance is reused across many queries; reset walks only the touched
// nodes.
type QueryState struct {
	distFwd []uint64
	distBwd []uint64
	touched []uint32
	fwdPQ   MinHeap
	bwdPQ   MinHeap
}

// NewQueryState creates a QueryState for an overlay with n nodes.
func NewQueryState(n uint32) *QueryState {
	distFwd := make([]uint64, n)
	distBwd := make([]uint64, n)
	for i := range distFwd {
		distFwd[i] = math.MaxUint64
		distBwd[i] = math.MaxUint64
	}
	return &QueryState{
		distFwd: distFwd,
		distBwd: distBwd,
		touched: make([]uint32, 0, 1024),
		fwdPQ:   MinHeap{items: make([]PQItem, 0, 256)},
		bwdPQ:   MinHeap{items: make([]PQItem, 0, 256)},
	}
}

// Reset clears only the touched entries for fast reuse.
func (qs *QueryState) Reset() {
	for _, node := range qs.touched {
		qs.distFwd[node] = math.MaxUint64
		qs.distBwd[node] = math.MaxUint64
	}
	qs.touched = qs.touched[:0]
	qs.fwdPQ.Reset()
	qs.bwdPQ.Reset()
}

func (qs *QueryState) touchFwd(node uint32, dist uint64) {
	if qs.distFwd[node] == math.MaxUint64 && qs.distBwd[node] == math.MaxUint64 {
		qs.touched = append(qs.touched, node)
	}
	qs.distFwd[node] = dist
}

func (qs *QueryState) touchBwd(node uint32, dist uint64) {
	if qs.distFwd[node] == math.MaxUint64 && qs.distBwd[node] == math.MaxUint64 {
		qs.touched = append(qs.touched, node)
	}
	qs.distBwd[node] = dist
}

// Query returns the shortest-path length from src to dst over the CH
// overlay. The second return is false when dst is unreachable. src == dst
// returns zero trivially.
func (qs *QueryState) Query(chg *graph.CHGraph, src, dst uint32) (uint64, bool) {
	if src == dst {
		return 0, true
	}

	qs.Reset()
	qs.touchFwd(src, 0)
	qs.fwdPQ.Push(src, 0)
	qs.touchBwd(dst, 0)
	qs.bwdPQ.Push(dst, 0)

	mu := uint64(math.MaxUint64)

	for qs.fwdPQ.Len() > 0 || qs.bwdPQ.Len() > 0 {
		// Forward step.
		if qs.fwdPQ.Len() > 0 && qs.fwdPQ.PeekDist() < mu {
			item := qs.fwdPQ.Pop()
			u := item.Node
			d := item.Dist

			if d <= qs.distFwd[u] {
				// Meet condition: settled from both sides.
				if qs.distBwd[u] < math.MaxUint64 {
					if candidate := d + qs.distBwd[u]; candidate < mu {
						mu = candidate
					}
				}

				// Relax forward upward arcs.
				for e := chg.FwdFirstOut[u]; e < chg.FwdFirstOut[u+1]; e++ {
					v := chg.FwdHead[e]
					newDist := d + chg.FwdWeight[e]
					if newDist < qs.distFwd[v] {
						qs.touchFwd(v, newDist)
						qs.fwdPQ.Push(v, newDist)
					}
				}
			}
		}

		// Backward step.
		if qs.bwdPQ.Len() > 0 && qs.bwdPQ.PeekDist() < mu {
			item := qs.bwdPQ.Pop()
			u := item.Node
			d := item.Dist

			if d <= qs.distBwd[u] {
				if qs.distFwd[u] < math.MaxUint64 {
					if candidate := qs.distFwd[u] + d; candidate < mu {
						mu = candidate
					}
				}

				// Relax backward upward arcs.
				for e := chg.BwdFirstOut[u]; e < chg.BwdFirstOut[u+1]; e++ {
					v := chg.BwdHead[e]
					newDist := d + chg.BwdWeight[e]
					if newDist < qs.distBwd[v] {
						qs.touchBwd(v, newDist)
						qs.bwdPQ.Push(v, newDist)
					}
				}
			}
		}

		// Both frontiers past the best meeting point: done.
		if qs.fwdPQ.PeekDist() >= mu && qs.bwdPQ.PeekDist() >= mu {
			break
		}
	}

	if mu == math.MaxUint64 {
		return 0, false
	}
	return mu, true
}

// Contracted is the preprocessed strategy: point-to-point queries against
// a contraction-hierarchy overlay built once before any query.
type Contracted struct {
	chg *graph.CHGraph
}

// NewContracted creates the preprocessed strategy over a frozen overlay.
func NewContracted(chg *graph.CHGraph) *Contracted {
	return &Contracted{chg: chg}
}

func (c *Contracted) NumNodes() uint32 { return c.chg.NumNodes }

// NewSolver returns a solver with its own query state. Each worker gets
// one; the overlay itself is read-only and shared.
func (c *Contracted) NewSolver() Solver {
	return &contractedSolver{chg: c.chg, qs: NewQueryState(c.chg.NumNodes)}
}

type contractedSolver struct {
	chg *graph.CHGraph
	qs  *QueryState
}

// From issues one point-to-point query per candidate destination,
// skipping src itself and emitting only reachable pairs.
func (s *contractedSolver) From(src uint32, emit func(dst uint32, length uint64)) {
	for dst := uint32(0); dst < s.chg.NumNodes; dst++ {
		if dst == src {
			continue
		}
		if length, ok := s.qs.Query(s.chg, src, dst); ok {
			emit(dst, length)
		}
	}
}
