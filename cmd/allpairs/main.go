package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"allpairs/pkg/ch"
	"allpairs/pkg/edgelist"
	"allpairs/pkg/graph"
	osmparser "allpairs/pkg/osm"
	"allpairs/pkg/routing"
)

func main() {
	input := flag.String("input", "", "Path to edge list (CSV: src,dst,weight; or .pbf OSM extract)")
	output := flag.String("output", "", "Output CSV path for (src,dst,length) rows")
	algorithm := flag.String("algorithm", "preprocessed", "Path algorithm: direct or preprocessed")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})

	if *input == "" || *output == "" {
		fmt.Fprintln(os.Stderr, "Usage: allpairs --input <edges.csv|extract.pbf> --output <lengths.csv> [--algorithm direct|preprocessed]")
		os.Exit(1)
	}
	if *algorithm != "direct" && *algorithm != "preprocessed" {
		log.Fatal().Str("algorithm", *algorithm).Msg("unknown algorithm (want direct or preprocessed)")
	}

	start := time.Now()

	// Step 1: Read the edge list.
	edges, err := readEdges(*input)
	if err != nil {
		log.Fatal().Err(err).Str("input", *input).Msg("failed to read edge list")
	}
	log.Info().Int("edges", len(edges)).Msg("edge list read")

	// Step 2: Build the graph.
	g := graph.Build(edges)
	log.Info().
		Uint32("nodes", g.NumNodes).
		Uint32("arcs", g.NumEdges).
		Uint32("components", graph.ComponentCount(g)).
		Msg("graph built")

	// Step 3: Pick the strategy, preprocessing if asked to.
	var strategy routing.Strategy
	switch *algorithm {
	case "direct":
		strategy = routing.NewDirect(g)
	case "preprocessed":
		chg := ch.Contract(g)
		log.Info().
			Int("fwd_arcs", len(chg.FwdHead)).
			Int("bwd_arcs", len(chg.BwdHead)).
			Msg("contraction hierarchy built")
		strategy = routing.NewContracted(chg)
	}

	// Step 4: Compute all pairs.
	results := routing.AllPairs(strategy, 0)
	log.Info().Int("pairs", len(results)).Msg("all pairs computed")

	// Step 5: Remap dense indices back to input identifiers and write.
	out := make([]edgelist.PathLength, len(results))
	for i, r := range results {
		out[i] = edgelist.PathLength{
			Src:    g.OrigID[r.Src],
			Dst:    g.OrigID[r.Dst],
			Length: r.Length,
		}
	}
	if err := edgelist.WriteCSV(*output, out); err != nil {
		log.Fatal().Err(err).Str("output", *output).Msg("failed to write results")
	}

	log.Info().
		Str("output", *output).
		Dur("elapsed", time.Since(start).Round(time.Millisecond)).
		Msg("done")
}

// readEdges dispatches on the input extension: .pbf is parsed as an OSM
// extract, anything else as a three-column CSV.
func readEdges(path string) ([]edgelist.WeightedEdge, error) {
	if strings.HasSuffix(path, ".pbf") {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		return osmparser.ParseEdges(context.Background(), f)
	}
	return edgelist.ReadCSV(path)
}
