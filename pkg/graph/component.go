package graph

// UnionFind implements a disjoint-set data structure with path halving
// and union by rank.
type UnionFind struct {
	parent []uint32
	rank   []byte // max rank ~30 for realistic graphs
	count  uint32 // number of disjoint sets
}

// NewUnionFind creates a UnionFind for n elements.
func NewUnionFind(n uint32) *UnionFind {
	parent := make([]uint32, n)
	for i := uint32(0); i < n; i++ {
		parent[i] = i
	}
	return &UnionFind{
		parent: parent,
		rank:   make([]byte, n),
		count:  n,
	}
}

// Find returns the representative of the set containing x, with path halving.
func (uf *UnionFind) Find(x uint32) uint32 {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

// Union merges the sets containing x and y. Returns false if already same set.
func (uf *UnionFind) Union(x, y uint32) bool {
	rx := uf.Find(x)
	ry := uf.Find(y)
	if rx == ry {
		return false
	}

	if uf.rank[rx] < uf.rank[ry] {
		rx, ry = ry, rx
	}
	uf.parent[ry] = rx
	if uf.rank[rx] == uf.rank[ry] {
		uf.rank[rx]++
	}
	uf.count--
	return true
}

// Count returns the number of disjoint sets.
func (uf *UnionFind) Count() uint32 {
	return uf.count
}

// ComponentCount returns the number of connected components. Disconnected
// graphs are valid input; pairs in different components simply produce no
// result, so the count is reported rather than acted on.
func ComponentCount(g *Graph) uint32 {
	if g.NumNodes == 0 {
		return 0
	}

	uf := NewUnionFind(g.NumNodes)
	for u := uint32(0); u < g.NumNodes; u++ {
		start, end := g.EdgesFrom(u)
		for e := start; e < end; e++ {
			uf.Union(u, g.Head[e])
		}
	}
	return uf.Count()
}
