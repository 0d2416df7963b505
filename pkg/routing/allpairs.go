package routing

import (
	"runtime"
	"sync"
)

// Result is one all-pairs entry in dense index space. The caller remaps
// indices to original input identifiers when writing output.
type Result struct {
	Src    uint32
	Dst    uint32
	Length uint64
}

// Solver computes shortest-path lengths from one source to all reachable
// destinations. A solver is stateful and must not be shared across
// goroutines.
type Solver interface {
	From(src uint32, emit func(dst uint32, length uint64))
}

// Strategy is a path-computation backend over a frozen graph. The
// all-pairs driver treats the choice of backend as a pure parameter.
type Strategy interface {
	NumNodes() uint32
	NewSolver() Solver
}

// AllPairs computes shortest-path lengths for every ordered reachable
// pair, fanning sources out over a worker pool. Each worker owns one
// solver; per-source batches are merged afterwards, so the result is
// complete for every reachable pair but unordered across sources.
// workers <= 0 means one worker per CPU.
func AllPairs(s Strategy, workers int) []Result {
	n := s.NumNodes()
	if n == 0 {
		return nil
	}

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if uint32(workers) > n {
		workers = int(n)
	}

	perSource := make([][]Result, n)
	sources := make(chan uint32)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			solver := s.NewSolver()
			for src := range sources {
				var batch []Result
				solver.From(src, func(dst uint32, length uint64) {
					batch = append(batch, Result{Src: src, Dst: dst, Length: length})
				})
				perSource[src] = batch
			}
		}()
	}

	for src := uint32(0); src < n; src++ {
		sources <- src
	}
	close(sources)
	wg.Wait()

	// Capacity hint only: the emitted count depends on reachability.
	results := make([]Result, 0, uint64(n)*uint64(n))
	for _, batch := range perSource {
		results = append(results, batch...)
	}
	return results
}
