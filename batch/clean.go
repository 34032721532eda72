package batch

import (
	"bytes"
	"context"
	"fmt"

	"github.com/fwojciec/rundown"
)

// Cleaner prunes every export of a source and stores the result under its
// canonical name.
type Cleaner struct {
	Source      rundown.ExportSource
	Pruner      rundown.ContentPruner
	Store       rundown.ExportStore
	Metrics     rundown.Metrics
	Concurrency int
}

// CleanResult holds the outcome of a cleaning run.
type CleanResult struct {
	Files   int
	Cleaned int
	Failed  int

	// Removed sums the nodes removed from all cleaned files.
	Removed rundown.PruneStats

	// Written lists the stored paths in source order.
	Written []string
}

type cleanResult struct {
	path  string
	dest  string
	stats rundown.PruneStats
	err   error
}

// Clean processes every export of the source. A file whose name cannot be
// resolved or whose content cannot be pruned is counted as failed.
// Returns an error only if the source cannot be listed or ctx is canceled.
func (c *Cleaner) Clean(ctx context.Context, fn ProgressFunc) (*CleanResult, error) {
	paths, err := c.Source.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing exports: %w", err)
	}

	metrics := metricsOrNop(c.Metrics)
	p := newProgress(fn, len(paths))

	results, err := run(ctx, paths, c.Concurrency, func(ctx context.Context, path string) cleanResult {
		r := c.cleanFile(ctx, path)
		if r.err != nil {
			metrics.ObserveFile("clean", rundown.ResultFailed)
			p.file(ProgressFailed, path, r.err)
		} else {
			metrics.ObserveFile("clean", rundown.ResultOK)
			metrics.AddPrunedNodes(r.stats)
			p.file(ProgressCompleted, path, nil)
		}
		return r
	})
	if err != nil {
		return nil, err
	}

	res := &CleanResult{Files: len(paths)}
	for _, r := range results {
		if r.err != nil {
			res.Failed++
			continue
		}
		res.Cleaned++
		res.Written = append(res.Written, r.dest)
		res.Removed.EmptyFields += r.stats.EmptyFields
		res.Removed.UnknownFields += r.stats.UnknownFields
		res.Removed.Uplinks += r.stats.Uplinks
	}

	p.finish()
	return res, nil
}

func (c *Cleaner) cleanFile(ctx context.Context, path string) cleanResult {
	result := cleanResult{path: path}

	name, err := rundown.ResolveName(path)
	if err != nil {
		result.err = err
		return result
	}

	f, err := c.Source.Open(path)
	if err != nil {
		result.err = err
		return result
	}
	defer f.Close()

	var buf bytes.Buffer
	result.stats, err = c.Pruner.Prune(ctx, f, &buf)
	if err != nil {
		result.err = fmt.Errorf("%s: %w", path, err)
		return result
	}

	result.dest, result.err = c.Store.Save(ctx, name, &buf)
	return result
}
