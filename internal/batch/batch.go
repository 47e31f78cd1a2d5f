// Package batch solves many problems concurrently.
package batch

import (
	"context"
	"time"

	"nondiv/internal/logging"
	"nondiv/internal/problem"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of one problem. Err is set instead of Solution when
// the problem was rejected (invalid modulus, duplicates under strict policy).
type Result struct {
	Index    int
	Problem  problem.Problem
	Solution problem.Solution
	Err      error
}

// Summary counts batch outcomes.
type Summary struct {
	Solved   int
	Failed   int
	Duration time.Duration
}

// Run solves problems with at most concurrency workers. Results keep the
// order of problems. A failing problem does not stop the others; only
// context cancellation aborts the batch, in which case ctx.Err() is returned.
func Run(ctx context.Context, problems []problem.Problem, opts problem.Options, concurrency int) ([]Result, error) {
	timer := logging.StartTimer(logging.CategoryBatch, "batch.Run")
	defer timer.Stop()

	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]Result, len(problems))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, p := range problems {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			sol, err := problem.Solve(p, opts)
			results[i] = Result{Index: i, Problem: p, Solution: sol, Err: err}
			if err != nil {
				logging.Get(logging.CategoryBatch).Debug("problem rejected",
					zap.Int("index", i),
					zap.String("name", p.Name),
					zap.Error(err))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logging.Get(logging.CategoryBatch).Warn("batch aborted", zap.Error(err))
		return nil, err
	}
	return results, nil
}

// Summarize tallies results.
func Summarize(results []Result, elapsed time.Duration) Summary {
	s := Summary{Duration: elapsed}
	for _, r := range results {
		if r.Err != nil {
			s.Failed++
		} else {
			s.Solved++
		}
	}
	return s
}
