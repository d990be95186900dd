package scheduler

import (
	"context"
	"runtime"
	"sync"
)

// SolveParallel fans a solve out across len(seeds) independent backtracking
// branches, each exploring a differently-jittered search order (see
// SolverOptions.SearchSeed), and keeps the best result. It adapts the
// bounded-worker-pool shape of pkg/jobs.Queue to a CPU-bound, result
// collecting job instead of a fire-and-forget one: spec.md's "parallel
// branches" note is a genuine re-architecture of that queue, not a reuse of
// its retry/requeue semantics, which make no sense for a pure computation.
//
// A single seed of 0 is equivalent to SolveWithOptions; pass several seeds
// to trade CPU for a better chance of covering more students within the
// same wall-clock budget.
func SolveParallel(ctx context.Context, teacher TeacherConfig, students []StudentConfig, opts SolverOptions, seeds []int64) (ScheduleSolution, error) {
	if len(seeds) == 0 {
		seeds = []int64{0}
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > len(seeds) {
		workers = len(seeds)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int64, len(seeds))
	for _, seed := range seeds {
		jobs <- seed
	}
	close(jobs)

	type result struct {
		solution ScheduleSolution
		err      error
	}
	results := make(chan result, len(seeds))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for seed := range jobs {
				select {
				case <-ctx.Done():
					results <- result{err: ctx.Err()}
					continue
				default:
				}
				branchOpts := opts
				branchOpts.SearchSeed = seed
				solution, err := SolveWithOptions(teacher, students, branchOpts)
				results <- result{solution: solution, err: err}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var (
		best    ScheduleSolution
		found   bool
		lastErr error
	)
	for r := range results {
		if r.err != nil {
			lastErr = r.err
			continue
		}
		if !found || isBetter(r.solution, best) {
			best, found = r.solution, true
		}
	}

	if !found {
		return ScheduleSolution{}, lastErr
	}
	return best, nil
}

// isBetter orders solutions by scheduled count, then quality, for picking
// the winner across parallel branches.
func isBetter(candidate, current ScheduleSolution) bool {
	if len(candidate.Assignments) != len(current.Assignments) {
		return len(candidate.Assignments) > len(current.Assignments)
	}
	return candidate.Metadata.Quality > current.Metadata.Quality
}
