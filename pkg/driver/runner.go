package driver

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Run discovers and processes all matching files according to opts.
//
// Files are processed concurrently with a bounded number of workers, but
// outcomes are collected deterministically in discovery order. A failed
// file never aborts the run; its error is recorded in the result. Context
// cancellation stops scheduling new files and returns the partial result
// alongside the cancellation error.
func Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("discover files: %w", err)
	}

	result := &Result{
		Files: make([]FileOutcome, 0, len(files)),
	}
	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	if jobs > len(files) {
		jobs = len(files)
	}

	popts := pipelineOptions(opts)

	// Workers write into an index-addressed slice, so collection needs
	// no reordering step and no lock.
	outcomes := make([]FileOutcome, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, path := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			res, perr := ProcessFile(gctx, path, popts)
			if perr != nil {
				// Cancellation propagates; any other failure is recorded
				// and the run continues.
				if cerr := gctx.Err(); cerr != nil {
					return cerr
				}
				outcomes[i] = FileOutcome{Path: path, Error: perr}
				return nil
			}
			outcomes[i] = FileOutcome{Path: path, Result: res}
			return nil
		})
	}

	waitErr := g.Wait()

	for _, outcome := range outcomes {
		if outcome.Path == "" {
			// Never scheduled before cancellation.
			continue
		}
		result.accumulate(outcome)
	}

	if waitErr != nil {
		return result, fmt.Errorf("run cancelled: %w", waitErr)
	}
	if cerr := ctx.Err(); cerr != nil {
		return result, fmt.Errorf("run cancelled: %w", cerr)
	}

	return result, nil
}
