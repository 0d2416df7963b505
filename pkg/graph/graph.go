package graph

// Graph is an undirected weighted graph in CSR (Compressed Sparse Row)
// form. Every input edge is stored as two directed arcs. Node identifiers
// from the input are remapped to dense indices [0, NumNodes); OrigID maps
// a dense index back to the identifier it came from.
type Graph struct {
	NumNodes uint32
	NumEdges uint32   // number of directed arcs (2x the input edge count)
	FirstOut []uint32 // len: NumNodes + 1; FirstOut[i]..FirstOut[i+1] are arcs from node i
	Head     []uint32 // len: NumEdges; target node for each arc
	Weight   []uint32 // len: NumEdges; integer cost (truncated input weight)
	OrigID   []uint64 // len: NumNodes; dense index -> original input identifier
}

// EdgesFrom returns the range of arc indices for arcs originating from node u.
func (g *Graph) EdgesFrom(u uint32) (start, end uint32) {
	return g.FirstOut[u], g.FirstOut[u+1]
}

// CHGraph holds the output of contraction hierarchies preprocessing: two
// upward CSR overlays that together preserve every shortest-path length of
// the base graph. Shortcut middle nodes are not kept; the tool reports
// lengths only and never unpacks paths.
type CHGraph struct {
	NumNodes uint32
	Rank     []uint32 // contraction order, lower = contracted earlier

	// Forward upward overlay (arcs where Rank[source] < Rank[target]).
	// Weights are 64-bit: shortcut weights are path sums and can exceed
	// the uint32 range of a single base arc.
	FwdFirstOut []uint32
	FwdHead     []uint32
	FwdWeight   []uint64

	// Backward upward overlay (reversed arcs where Rank[source] < Rank[target]).
	BwdFirstOut []uint32
	BwdHead     []uint32
	BwdWeight   []uint64
}
