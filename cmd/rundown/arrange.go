package main

import (
	"fmt"
	"slices"

	"github.com/fwojciec/rundown"
	"github.com/fwojciec/rundown/fs"
	"github.com/samber/lo"
)

// Run executes the arrange command.
func (c *ArrangeCmd) Run(deps *Dependencies) error {
	arranger := fs.NewArranger(c.Dir)

	if c.DryRun {
		groups, err := arranger.Inspect(deps.Ctx)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %v\n", err)
			return err
		}
		days := lo.Keys(groups)
		slices.Sort(days)
		for _, day := range days {
			fmt.Fprintf(deps.Stdout, "%s  %d files\n", day, len(groups[day]))
		}
		return nil
	}

	results, err := arranger.Organize(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	failed := lo.CountBy(results, func(r fs.ArrangeResult) bool { return r.Err != nil })
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", r.Path, r.Err)
			continue
		}
		deps.Logger.Debug("moved", "path", r.Path, "destination", r.Destination)
	}

	fmt.Fprintf(deps.Stdout, "Moved %d files (%d failed)\n", len(results)-failed, failed)
	if failed > 0 {
		return rundown.Errorf(rundown.EINTERNAL, "%d files could not be moved", failed)
	}
	return nil
}
