// Package osm converts OSM PBF road data into the weighted edge list the
// rest of the pipeline consumes. The tool's graph model is undirected, so
// each way segment yields exactly one edge regardless of oneway tagging;
// the edge weight is the haversine distance in meters between endpoints.
package osm

import (
	"context"
	"fmt"
	"io"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/rs/zerolog/log"

	"allpairs/pkg/edgelist"
	"allpairs/pkg/geo"
)

// carHighways lists highway tag values accessible by car.
var carHighways = map[string]bool{
	"motorway":       true,
	"motorway_link":  true,
	"trunk":          true,
	"trunk_link":     true,
	"primary":        true,
	"primary_link":   true,
	"secondary":      true,
	"secondary_link": true,
	"tertiary":       true,
	"tertiary_link":  true,
	"unclassified":   true,
	"residential":    true,
	"living_street":  true,
	"service":        true,
}

// isCarAccessible returns true if the way is drivable by car.
func isCarAccessible(tags osm.Tags) bool {
	hw := tags.Find("highway")
	if !carHighways[hw] {
		return false
	}

	// Skip area highways (pedestrian plazas).
	if tags.Find("area") == "yes" {
		return false
	}

	// Skip restricted access.
	access := tags.Find("access")
	if access == "no" || access == "private" {
		return false
	}
	if tags.Find("motor_vehicle") == "no" {
		return false
	}

	return true
}

// ParseEdges reads an OSM PBF stream and returns one undirected weighted
// edge per road segment. The reader is consumed twice (ways first, then
// node coordinates), so it must implement io.ReadSeeker.
func ParseEdges(ctx context.Context, rs io.ReadSeeker) ([]edgelist.WeightedEdge, error) {
	// Pass 1: scan ways to collect segments and referenced node IDs.
	referencedNodes := make(map[osm.NodeID]struct{})
	type segment struct {
		from, to osm.NodeID
	}
	var segments []segment

	scanner := osmpbf.New(ctx, rs, 1)
	scanner.SkipNodes = true
	scanner.SkipRelations = true

	for scanner.Scan() {
		w, ok := scanner.Object().(*osm.Way)
		if !ok {
			continue
		}

		if !isCarAccessible(w.Tags) {
			continue
		}
		if len(w.Nodes) < 2 {
			continue
		}

		for i := 0; i < len(w.Nodes)-1; i++ {
			from := w.Nodes[i].ID
			to := w.Nodes[i+1].ID
			segments = append(segments, segment{from: from, to: to})
			referencedNodes[from] = struct{}{}
			referencedNodes[to] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("pass 1 (ways): %w", err)
	}
	scanner.Close()

	log.Debug().
		Int("segments", len(segments)).
		Int("nodes", len(referencedNodes)).
		Msg("way scan complete")

	// Pass 2: scan nodes to collect coordinates for referenced nodes only.
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek for pass 2: %w", err)
	}

	nodeLat := make(map[osm.NodeID]float64, len(referencedNodes))
	nodeLon := make(map[osm.NodeID]float64, len(referencedNodes))

	scanner = osmpbf.New(ctx, rs, 1)
	scanner.SkipWays = true
	scanner.SkipRelations = true

	for scanner.Scan() {
		n, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}
		if _, needed := referencedNodes[n.ID]; !needed {
			continue
		}
		nodeLat[n.ID] = n.Lat
		nodeLon[n.ID] = n.Lon
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("pass 2 (nodes): %w", err)
	}
	scanner.Close()

	// Weight each segment by endpoint distance.
	edges := make([]edgelist.WeightedEdge, 0, len(segments))
	var skipped int

	for _, s := range segments {
		fromLat, fromOk := nodeLat[s.from]
		toLat, toOk := nodeLat[s.to]
		if !fromOk || !toOk {
			skipped++
			continue
		}

		dist := geo.Haversine(fromLat, nodeLon[s.from], toLat, nodeLon[s.to])
		if dist < 1 {
			dist = 1 // avoid zero-cost edges between coincident nodes
		}

		edges = append(edges, edgelist.WeightedEdge{
			Src:    uint64(s.from),
			Dst:    uint64(s.to),
			Weight: dist,
		})
	}

	if skipped > 0 {
		log.Warn().Int("segments", skipped).Msg("skipped segments with missing node coordinates")
	}
	log.Debug().Int("edges", len(edges)).Msg("edge list built")

	return edges, nil
}
