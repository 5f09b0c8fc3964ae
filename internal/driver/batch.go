package driver

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

// BatchResult pairs an input path with its transcript or load error.
type BatchResult struct {
	Path       string
	Transcript Transcript
	Err        error
}

// RunBatch loads and runs every path in parallel, each on its own
// Calculator. Results keep input order. Per-file failures are recorded in
// BatchResult.Err; only cancellation aborts the batch. Progress events go to
// opts.Progress when set.
func RunBatch(ctx context.Context, paths []string, jobs int, opts Options) ([]BatchResult, error) {
	results := make([]BatchResult, len(paths))
	if len(paths) == 0 {
		return results, nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	for _, path := range paths {
		emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusQueued})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			// index i is unique per goroutine, no lock needed
			results[i].Path = path
			started := time.Now()

			emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusWorking})
			script, err := LoadScript(path)
			if err != nil {
				results[i].Err = err
				emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusError, Err: err, Elapsed: time.Since(started)})
				return nil
			}

			emit(opts.Progress, Event{File: path, Stage: StageRun, Status: StatusWorking})
			tr, err := Run(gctx, script, opts)
			results[i].Transcript = tr
			if err != nil {
				return err
			}

			status := StatusDone
			var lastErr error
			if last, ok := tr.Last(); ok && last.Err != nil {
				status, lastErr = StatusError, last.Err
			}
			emit(opts.Progress, Event{File: path, Stage: StageRun, Status: status, Err: lastErr, Elapsed: time.Since(started)})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
