package main

import (
	"fmt"

	"github.com/fwojciec/rundown"
	"github.com/fwojciec/rundown/csv"
)

// Run executes the records command.
func (c *RecordsCmd) Run(deps *Dependencies) error {
	if deps.Records == nil {
		err := rundown.Errorf(rundown.EINVALID, "no database configured: set --db or RUNDOWN_DB")
		fmt.Fprintf(deps.Stderr, "error: %s\n", rundown.ErrorMessage(err))
		return err
	}

	filter := rundown.RecordFilter{Limit: c.Limit, Offset: c.Offset}
	if c.Source != "" {
		filter.Source = &c.Source
	}
	if c.Station != "" {
		filter.Station = &c.Station
	}
	if c.Date != "" {
		filter.Date = &c.Date
	}

	records, err := deps.Records.FindRecords(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", rundown.ErrorMessage(err))
		return err
	}

	w := csv.NewWriter(deps.Stdout, csv.Options{
		Contributors: c.Contributors,
		Labels:       c.Labels,
		Formats:      rundown.NewFormatLabels(c.FormatLabels),
	})
	if err := w.WriteRecords(deps.Ctx, records); err != nil {
		return err
	}
	return w.Close()
}
