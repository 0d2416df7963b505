package edgelist

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
)

// ReadCSV reads a headerless three-column file: source id, target id, weight.
// Node ids may be written as integers ("3") or as float-looking numbers
// ("3.0"); the fractional part is truncated. Any malformed row is fatal.
func ReadCSV(path string) ([]WeightedEdge, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 3
	r.TrimLeadingSpace = true

	var edges []WeightedEdge
	line := 0
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read input: %w", err)
		}
		line++

		src, err := parseNodeID(rec[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: source id %q: %w", line, rec[0], err)
		}
		dst, err := parseNodeID(rec[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: target id %q: %w", line, rec[1], err)
		}
		weight, err := parseWeight(rec[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: weight %q: %w", line, rec[2], err)
		}

		edges = append(edges, WeightedEdge{Src: src, Dst: dst, Weight: weight})
	}

	return edges, nil
}

// parseNodeID accepts an unsigned integer or a float-looking number and
// truncates toward zero.
func parseNodeID(s string) (uint64, error) {
	if v, err := strconv.ParseUint(s, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number")
	}
	if f < 0 || math.IsNaN(f) || f >= math.MaxUint64 {
		return 0, fmt.Errorf("not an unsigned integer")
	}
	return uint64(f), nil
}

// parseWeight parses and validates an edge weight. Negative, non-finite,
// and out-of-range values are rejected here so the graph builder only ever
// sees weights it can truncate safely.
func parseWeight(s string) (float64, error) {
	w, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number")
	}
	if math.IsNaN(w) || math.IsInf(w, 0) {
		return 0, fmt.Errorf("not finite")
	}
	if w < 0 {
		return 0, fmt.Errorf("negative weight")
	}
	if w >= MaxWeight {
		return 0, fmt.Errorf("exceeds maximum representable cost %g", MaxWeight)
	}
	return w, nil
}

// WriteCSV writes one row per result: src, dst, length. The length is
// printed in float notation, so whole numbers come out without a
// trailing ".0".
func WriteCSV(path string, results []PathLength) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}

	w := csv.NewWriter(f)
	rec := make([]string, 3)
	for _, p := range results {
		rec[0] = strconv.FormatUint(p.Src, 10)
		rec[1] = strconv.FormatUint(p.Dst, 10)
		rec[2] = strconv.FormatFloat(float64(p.Length), 'f', -1, 64)
		if err := w.Write(rec); err != nil {
			f.Close()
			return fmt.Errorf("write output: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush output: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	return nil
}
