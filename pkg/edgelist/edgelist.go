// Package edgelist defines the weighted edge list consumed by graph
// construction and the result triples written back out.
package edgelist

// MaxWeight is the exclusive upper bound for edge weights. Weights are
// truncated to uint32 costs during graph construction, so anything at or
// above 2^32 cannot be represented and is rejected at ingestion.
const MaxWeight = 4294967296.0

// WeightedEdge is one undirected input edge. Src and Dst are node
// identifiers from the input file; they may be sparse and are remapped to
// dense indices by the graph builder.
type WeightedEdge struct {
	Src    uint64
	Dst    uint64
	Weight float64
}

// PathLength is one all-pairs result: the shortest-path length between an
// ordered pair of nodes, expressed in original input identifiers. Length
// is a sum of uint32 arc costs, so it needs the full 64-bit range.
type PathLength struct {
	Src    uint64
	Dst    uint64
	Length uint64
}
