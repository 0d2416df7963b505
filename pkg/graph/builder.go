package graph

import (
	"allpairs/pkg/edgelist"
)

// Build creates a CSR Graph from an edge list. Every edge is inserted in
// both directions with cost uint32(weight), truncating toward zero (the
// ingestion layer has already rejected weights outside uint32 range).
// Multi-edges are retained as parallel arcs; the search strategies prefer
// the cheaper one naturally.
func Build(edges []edgelist.WeightedEdge) *Graph {
	if len(edges) == 0 {
		return &Graph{FirstOut: []uint32{0}}
	}

	// Step 1: Collect distinct node identifiers in first-observation order
	// and build the dense index table.
	idx := make(map[uint64]uint32)
	var origID []uint64

	addNode := func(id uint64) uint32 {
		if i, ok := idx[id]; ok {
			return i
		}
		i := uint32(len(origID))
		idx[id] = i
		origID = append(origID, id)
		return i
	}

	type arc struct {
		from, to uint32
		cost     uint32
	}

	// Step 2: Expand each undirected edge into two directed arcs over
	// dense indices.
	arcs := make([]arc, 0, 2*len(edges))
	for _, e := range edges {
		u := addNode(e.Src)
		v := addNode(e.Dst)
		cost := uint32(e.Weight)
		arcs = append(arcs, arc{from: u, to: v, cost: cost})
		arcs = append(arcs, arc{from: v, to: u, cost: cost})
	}

	numNodes := uint32(len(origID))
	numArcs := uint32(len(arcs))

	// Step 3: Build CSR arrays via counting sort on the source index.
	firstOut := make([]uint32, numNodes+1)
	for _, a := range arcs {
		firstOut[a.from+1]++
	}
	for i := uint32(1); i <= numNodes; i++ {
		firstOut[i] += firstOut[i-1]
	}

	head := make([]uint32, numArcs)
	weight := make([]uint32, numArcs)
	pos := make([]uint32, numNodes)
	copy(pos, firstOut[:numNodes])
	for _, a := range arcs {
		p := pos[a.from]
		head[p] = a.to
		weight[p] = a.cost
		pos[a.from]++
	}

	return &Graph{
		NumNodes: numNodes,
		NumEdges: numArcs,
		FirstOut: firstOut,
		Head:     head,
		Weight:   weight,
		OrigID:   origID,
	}
}
