package engine

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/herald/internal/adapter"
	"github.com/roach88/herald/internal/ir"
)

// Job is one pass to run: an adapter bound to its object and the effects
// matched against it. Each job must have its own adapter.
type Job struct {
	Adapter adapter.Adapter
	Effects []ir.Effect
}

// JobResult is the outcome of one Job. Exactly one of Pass and Err is set.
type JobResult struct {
	Pass *ir.Pass
	Err  error
}

// EvaluateAll runs jobs concurrently, at most the configured number of
// workers at a time, and returns one result per job in job order.
//
// A failed job does not stop the others; the caller decides whether a
// failure should skip that object or halt the batch. Jobs not yet started
// when ctx is cancelled fail with ctx's error.
func (e *Engine) EvaluateAll(ctx context.Context, jobs []Job) []JobResult {
	results := make([]JobResult, len(jobs))

	var g errgroup.Group
	g.SetLimit(e.workers)
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			pass, err := e.Evaluate(ctx, job.Adapter, job.Effects)
			if err != nil {
				slog.Warn("pass failed", "job", i, "error", err)
				results[i].Err = err
				return nil
			}
			results[i].Pass = pass
			return nil
		})
	}
	_ = g.Wait()

	return results
}
