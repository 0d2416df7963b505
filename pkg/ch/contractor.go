// Package ch builds a contraction-hierarchy index over an undirected
// cost graph. The index answers point-to-point queries with a
// bidirectional upward search and returns exactly the lengths a full
// Dijkstra on the base graph would return.
package ch

import (
	"container/heap"

	"github.com/rs/zerolog/log"

	"allpairs/pkg/graph"
)

// arc is an edge in the mutable adjacency lists used during contraction.
// Weights are 64-bit: base arcs fit uint32, but shortcut weights are sums
// of sums and can exceed it.
type arc struct {
	to     uint32
	weight uint64
}

// Contract performs contraction hierarchies preprocessing on the given
// graph. Every node is contracted, so upward paths alone reproduce every
// base-graph shortest path. Preprocessing runs exactly once; the returned
// overlay is read-only and safe to share across concurrent queries.
func Contract(g *graph.Graph) *graph.CHGraph {
	n := g.NumNodes
	if n == 0 {
		return &graph.CHGraph{FwdFirstOut: []uint32{0}, BwdFirstOut: []uint32{0}}
	}

	// Mutable forward and reverse adjacency lists from the CSR graph.
	// The base graph is symmetric (undirected input), but shortcuts are
	// found per direction, so both lists are maintained.
	outAdj := make([][]arc, n)
	inAdj := make([][]arc, n)

	for u := uint32(0); u < n; u++ {
		start, end := g.EdgesFrom(u)
		for e := start; e < end; e++ {
			v := g.Head[e]
			w := uint64(g.Weight[e])
			outAdj[u] = append(outAdj[u], arc{to: v, weight: w})
			inAdj[v] = append(inAdj[v], arc{to: u, weight: w})
		}
	}

	contracted := make([]bool, n)
	rank := make([]uint32, n)
	contractedNeighbors := make([]int, n)
	level := make([]int, n)

	// Initialize the ordering queue with all nodes.
	pq := make(orderQueue, n)
	for i := uint32(0); i < n; i++ {
		pq[i] = &orderEntry{
			node:     i,
			priority: nodePriority(outAdj, inAdj, i, contracted, contractedNeighbors[i], level[i]),
			index:    int(i),
		}
	}
	heap.Init(&pq)

	ws := newWitnessSearch(n)

	log.Debug().Uint32("nodes", n).Msg("starting contraction")

	var totalShortcuts int
	order := uint32(0)

	for pq.Len() > 0 {
		entry := heap.Pop(&pq).(*orderEntry)
		node := entry.node

		if contracted[node] {
			continue
		}

		// Lazy update: recompute the priority and re-insert if the node
		// is no longer the cheapest.
		newPriority := nodePriority(outAdj, inAdj, node, contracted, contractedNeighbors[node], level[node])
		if newPriority > entry.priority && pq.Len() > 0 && newPriority > pq[0].priority {
			entry.priority = newPriority
			heap.Push(&pq, entry)
			continue
		}

		shortcuts := findShortcuts(ws, outAdj, inAdj, node, contracted)

		contracted[node] = true
		rank[node] = order
		order++
		totalShortcuts += len(shortcuts)

		for _, sc := range shortcuts {
			outAdj[sc.from] = append(outAdj[sc.from], arc{to: sc.to, weight: sc.weight})
			inAdj[sc.to] = append(inAdj[sc.to], arc{to: sc.from, weight: sc.weight})
		}

		// Update neighbor bookkeeping used by the priority heuristic.
		for _, e := range outAdj[node] {
			if !contracted[e.to] {
				contractedNeighbors[e.to]++
				if level[node]+1 > level[e.to] {
					level[e.to] = level[node] + 1
				}
			}
		}
		for _, e := range inAdj[node] {
			if !contracted[e.to] {
				contractedNeighbors[e.to]++
				if level[node]+1 > level[e.to] {
					level[e.to] = level[node] + 1
				}
			}
		}
	}

	log.Info().
		Int("shortcuts", totalShortcuts).
		Msg("contraction complete")

	return buildOverlay(n, outAdj, inAdj, rank)
}

// shortcut is a shortcut edge to be added when a node is contracted.
type shortcut struct {
	from, to uint32
	weight   uint64
}

// findShortcuts determines which shortcuts are needed when contracting a
// node. Uses batch witness search: one bounded Dijkstra per incoming
// neighbor instead of one per (incoming, outgoing) pair.
func findShortcuts(ws *witnessSearch, outAdj, inAdj [][]arc, node uint32, contracted []bool) []shortcut {
	var incoming []arc
	for _, e := range inAdj[node] {
		if !contracted[e.to] {
			incoming = append(incoming, e)
		}
	}

	var outgoing []arc
	for _, e := range outAdj[node] {
		if !contracted[e.to] {
			outgoing = append(outgoing, e)
		}
	}

	if len(incoming) == 0 || len(outgoing) == 0 {
		return nil
	}

	var shortcuts []shortcut

	for _, in := range incoming {
		// Upper bound for this batch: the most expensive shortcut that
		// could start at in.to.
		var maxOut uint64
		hasTarget := false
		for _, out := range outgoing {
			if out.to == in.to {
				continue
			}
			hasTarget = true
			if out.weight > maxOut {
				maxOut = out.weight
			}
		}
		if !hasTarget {
			continue // all outgoing arcs lead back to in.to
		}

		maxWeight := in.weight + maxOut

		// One Dijkstra from in.to avoiding the contracted node, then
		// check every outgoing target against it.
		ws.run(outAdj, in.to, node, maxWeight, contracted)

		for _, out := range outgoing {
			if out.to == in.to {
				continue
			}

			scWeight := in.weight + out.weight

			// A witness path at most as long as the shortcut makes the
			// shortcut redundant. A cut-off search leaves dist at
			// infinity, which errs toward adding the shortcut.
			if ws.dist[out.to] > scWeight {
				shortcuts = append(shortcuts, shortcut{
					from:   in.to,
					to:     out.to,
					weight: scWeight,
				})
			}
		}
	}

	return shortcuts
}

// nodePriority returns the contraction priority for a node (lower =
// contract first): edge difference plus terms that spread contraction
// evenly across the graph.
func nodePriority(outAdj, inAdj [][]arc, node uint32, contracted []bool, contractedNeighbors, level int) int {
	activeIn := 0
	for _, e := range inAdj[node] {
		if !contracted[e.to] {
			activeIn++
		}
	}
	activeOut := 0
	for _, e := range outAdj[node] {
		if !contracted[e.to] {
			activeOut++
		}
	}

	// Worst-case shortcut count stands in for the exact one; a witness
	// search per candidate would be more accurate but slower, and the
	// ordering only needs to be roughly right.
	edgeDifference := activeIn*activeOut - (activeIn + activeOut)

	return edgeDifference + 2*contractedNeighbors + level
}

// buildOverlay creates the forward and backward upward CSR overlays from
// the contracted adjacency lists and node ranks.
func buildOverlay(n uint32, outAdj, inAdj [][]arc, rank []uint32) *graph.CHGraph {
	type overlayArc struct {
		from, to uint32
		weight   uint64
	}

	var fwdArcs, bwdArcs []overlayArc

	for u := uint32(0); u < n; u++ {
		for _, e := range outAdj[u] {
			if rank[u] < rank[e.to] {
				fwdArcs = append(fwdArcs, overlayArc{from: u, to: e.to, weight: e.weight})
			}
		}
		// Backward upward: arcs v→u with rank[u] < rank[v] are stored as
		// u→v so the backward search can run them from the target side.
		for _, e := range inAdj[u] {
			if rank[u] < rank[e.to] {
				bwdArcs = append(bwdArcs, overlayArc{from: u, to: e.to, weight: e.weight})
			}
		}
	}

	log.Debug().
		Int("fwd_arcs", len(fwdArcs)).
		Int("bwd_arcs", len(bwdArcs)).
		Msg("overlay built")

	buildCSR := func(arcs []overlayArc) (firstOut, head []uint32, weight []uint64) {
		firstOut = make([]uint32, n+1)
		head = make([]uint32, len(arcs))
		weight = make([]uint64, len(arcs))

		for _, a := range arcs {
			firstOut[a.from+1]++
		}
		for i := uint32(1); i <= n; i++ {
			firstOut[i] += firstOut[i-1]
		}

		pos := make([]uint32, n)
		copy(pos, firstOut[:n])
		for _, a := range arcs {
			p := pos[a.from]
			head[p] = a.to
			weight[p] = a.weight
			pos[a.from]++
		}

		return
	}

	fwdFirstOut, fwdHead, fwdWeight := buildCSR(fwdArcs)
	bwdFirstOut, bwdHead, bwdWeight := buildCSR(bwdArcs)

	return &graph.CHGraph{
		NumNodes:    n,
		Rank:        rank,
		FwdFirstOut: fwdFirstOut,
		FwdHead:     fwdHead,
		FwdWeight:   fwdWeight,
		BwdFirstOut: bwdFirstOut,
		BwdHead:     bwdHead,
		BwdWeight:   bwdWeight,
	}
}

// Priority queue for contraction ordering.

type orderEntry struct {
	node     uint32
	priority int
	index    int
}

type orderQueue []*orderEntry

func (pq orderQueue) Len() int           { return len(pq) }
func (pq orderQueue) Less(i, j int) bool { return pq[i].priority < pq[j].priority }
func (pq orderQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *orderQueue) Push(x any) {
	entry := x.(*orderEntry)
	entry.index = len(*pq)
	*pq = append(*pq, entry)
}

func (pq *orderQueue) Pop() any {
	old := *pq
	n := len(old)
	entry := old[n-1]
	old[n-1] = nil
	entry.index = -1
	*pq = old[:n-1]
	return entry
}
