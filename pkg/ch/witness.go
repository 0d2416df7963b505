package ch

const (
	maxSettled = 500 // max nodes settled during a witness search
	maxHops    = 5   // max hops from the search source
)

const maxUint64 = ^uint64(0)

// hopItem is an entry in the witness search min-heap.
type hopItem struct {
	node uint32
	dist uint64
	hops int
}

// hopHeap is a concrete-typed binary min-heap for witness search.
type hopHeap struct {
	items []hopItem
}

func (h *hopHeap) Len() int { return len(h.items) }

func (h *hopHeap) Push(node uint32, dist uint64, hops int) {
	h.items = append(h.items, hopItem{node, dist, hops})
	h.siftUp(len(h.items) - 1)
}

func (h *hopHeap) Pop() hopItem {
	top := h.items[0]
	n := len(h.items) - 1
	h.items[0] = h.items[n]
	h.items = h.items[:n]
	if n > 0 {
		h.siftDown(0)
	}
	return top
}

// siftUp uses hole-sift: saves the floating item and does one assignment
// per level instead of a three-assignment swap.
func (h *hopHeap) siftUp(i int) {
	item := h.items[i]
	for i > 0 {
		parent := (i - 1) / 2
		if item.dist >= h.items[parent].dist {
			break
		}
		h.items[i] = h.items[parent]
		i = parent
	}
	h.items[i] = item
}

func (h *hopHeap) siftDown(i int) {
	n := len(h.items)
	item := h.items[i]
	for {
		child := 2*i + 1
		if child >= n {
			break
		}
		if right := child + 1; right < n && h.items[right].dist < h.items[child].dist {
			child = right
		}
		if item.dist <= h.items[child].dist {
			break
		}
		h.items[i] = h.items[child]
		i = child
	}
	h.items[i] = item
}

func (h *hopHeap) Reset() {
	h.items = h.items[:0]
}

// witnessSearch holds reusable state for batch witness searches. The
// touched-list pattern avoids reallocating or zeroing the distance array
// between runs.
type witnessSearch struct {
	dist    []uint64
	touched []uint32
	heap    hopHeap
}

func newWitnessSearch(numNodes uint32) *witnessSearch {
	dist := make([]uint64, numNodes)
	for i := range dist {
		dist[i] = maxUint64
	}
	return &witnessSearch{
		dist: dist,
		heap: hopHeap{items: make([]hopItem, 0, 256)},
	}
}

func (ws *witnessSearch) reset() {
	for _, n := range ws.touched {
		ws.dist[n] = maxUint64
	}
	ws.touched = ws.touched[:0]
	ws.heap.Reset()
}

// run executes one bounded Dijkstra from source, skipping the node being
// contracted and everything already contracted. Distances above maxWeight
// are irrelevant: any outgoing target left at infinity simply gets its
// shortcut, so cutting the search short never loses exactness.
func (ws *witnessSearch) run(outAdj [][]arc, source, excluded uint32, maxWeight uint64, contracted []bool) {
	ws.reset()

	ws.dist[source] = 0
	ws.touched = append(ws.touched, source)
	ws.heap.Push(source, 0, 0)

	settled := 0

	for ws.heap.Len() > 0 {
		cur := ws.heap.Pop()

		// Skip stale entries.
		if cur.dist > ws.dist[cur.node] {
			continue
		}

		settled++
		if settled >= maxSettled {
			break
		}

		if cur.dist > maxWeight {
			continue
		}

		if cur.hops >= maxHops {
			continue
		}

		for _, e := range outAdj[cur.node] {
			if e.to == excluded || contracted[e.to] {
				continue
			}

			newDist := cur.dist + e.weight
			if newDist > maxWeight {
				continue
			}

			if newDist < ws.dist[e.to] {
				if ws.dist[e.to] == maxUint64 {
					ws.touched = append(ws.touched, e.to)
				}
				ws.dist[e.to] = newDist
				ws.heap.Push(e.to, newDist, cur.hops+1)
			}
		}
	}
}
