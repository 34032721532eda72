// Package batch runs cleaning and extraction over every export of a source.
// A failing file is counted and reported, never aborting the rest of the
// batch. Files are processed in parallel; results are applied in source
// order.
package batch

import (
	"context"
	"sync"

	"github.com/fwojciec/rundown"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of files processed at once when no
// concurrency is configured.
const DefaultConcurrency = 1

// ProgressEvent reports progress during a batch operation.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	Path      string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressSkipped
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting batch progress.
type ProgressFunc func(event ProgressEvent)

// run calls process for every path with bounded parallelism and returns
// the results indexed like paths. Only cancellation of ctx is returned as
// an error; per-file failures are left in the results.
func run[T any](ctx context.Context, paths []string, concurrency int, process func(context.Context, string) T) ([]T, error) {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	results := make([]T, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, path := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			results[i] = process(gctx, path)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// progress serializes calls to a ProgressFunc and counts completed files.
type progress struct {
	mu        sync.Mutex
	fn        ProgressFunc
	total     int
	completed int
}

func newProgress(fn ProgressFunc, total int) *progress {
	p := &progress{fn: fn, total: total}
	p.emit(ProgressEvent{Type: ProgressStarted})
	return p
}

func (p *progress) file(typ ProgressType, path string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.completed++
	p.emit(ProgressEvent{Type: typ, Completed: p.completed, Path: path, Error: err})
}

func (p *progress) finish() {
	p.emit(ProgressEvent{Type: ProgressFinished, Completed: p.total})
}

func (p *progress) emit(e ProgressEvent) {
	if p.fn == nil {
		return
	}
	e.Total = p.total
	p.fn(e)
}

// nopMetrics discards all counters.
type nopMetrics struct{}

func (nopMetrics) ObserveFile(string, string)        {}
func (nopMetrics) AddRecords(int)                    {}
func (nopMetrics) AddDuplicates(int)                 {}
func (nopMetrics) AddFieldErrors(int)                {}
func (nopMetrics) AddPrunedNodes(rundown.PruneStats) {}

func metricsOrNop(m rundown.Metrics) rundown.Metrics {
	if m == nil {
		return nopMetrics{}
	}
	return m
}
