package main

import (
	"fmt"

	"github.com/fwojciec/rundown"
	"github.com/fwojciec/rundown/batch"
	"github.com/fwojciec/rundown/etree"
	"github.com/fwojciec/rundown/fs"
	rdslog "github.com/fwojciec/rundown/slog"
)

// Run executes the clean command.
func (c *CleanCmd) Run(deps *Dependencies) error {
	cleaner := &batch.Cleaner{
		Source:      fs.NewSource(c.Source),
		Pruner:      rdslog.NewLoggingPruner(etree.NewPruner(rundown.DefaultWhitelist), deps.Logger),
		Store:       fs.NewStore(c.Target),
		Metrics:     deps.Metrics,
		Concurrency: c.Concurrency,
	}

	result, err := cleaner.Clean(deps.Ctx, progressLogger(deps))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", rundown.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Cleaned %d of %d files (%d failed, %d nodes removed)\n",
		result.Cleaned, result.Files, result.Failed, result.Removed.Total())
	return nil
}

// progressLogger reports per-file batch progress through the logger.
func progressLogger(deps *Dependencies) batch.ProgressFunc {
	return func(event batch.ProgressEvent) {
		switch event.Type {
		case batch.ProgressStarted:
			deps.Logger.Info("found exports", "count", event.Total)
		case batch.ProgressFailed:
			deps.Logger.Warn("skip", "path", event.Path, "err", event.Error)
		case batch.ProgressSkipped:
			deps.Logger.Debug("unchanged", "path", event.Path)
		case batch.ProgressCompleted:
			deps.Logger.Debug("done", "path", event.Path, "completed", event.Completed, "total", event.Total)
		}
	}
}
