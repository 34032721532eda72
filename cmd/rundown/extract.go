package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fwojciec/rundown"
	"github.com/fwojciec/rundown/batch"
	"github.com/fwojciec/rundown/bloom"
	"github.com/fwojciec/rundown/csv"
	"github.com/fwojciec/rundown/etree"
	"github.com/fwojciec/rundown/fs"
	rdslog "github.com/fwojciec/rundown/slog"
)

// expectedRecords sizes the duplicate filter.
const expectedRecords = 100000

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	if err := c.validate(deps); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", rundown.ErrorMessage(err))
		return err
	}

	dir := c.Source
	if c.Year != 0 {
		dir = fs.WeekDir(c.Source, c.Year, c.Week)
	}

	var writers []rundown.RecordWriter
	summary := deps.Stdout

	var table *csv.Writer
	if c.Output != "" {
		var out io.Writer = deps.Stdout
		if c.Output == "-" {
			summary = deps.Stderr
		} else {
			f, err := os.Create(c.Output)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}
		table = csv.NewWriter(out, csv.Options{
			Contributors: c.Contributors,
			Labels:       c.Labels,
			Formats:      rundown.NewFormatLabels(c.FormatLabels),
		})
		writers = append(writers, table)
	}
	if deps.Records != nil {
		writers = append(writers, deps.Records)
	}

	extractor := &etree.Extractor{
		Lenient:             c.Lenient,
		Strict:              c.Strict,
		TicksPerMillisecond: c.TicksPerMs,
	}

	exporter := &batch.Exporter{
		Source:      fs.NewSource(dir),
		Extractor:   rdslog.NewLoggingExtractor(extractor, deps.Logger),
		Writer:      rdslog.NewLoggingRecordWriter(rundown.MultiRecordWriter(writers...), deps.Logger),
		Store:       deps.Records,
		Metrics:     deps.Metrics,
		Concurrency: c.Concurrency,
	}
	if !c.KeepDupes {
		exporter.Deduplicator = bloom.NewDeduper(expectedRecords, rundown.AllColumns())
	}
	if c.Incremental {
		exporter.Ledger = deps.Ledger
	}

	result, err := exporter.Export(deps.Ctx, progressLogger(deps))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", rundown.ErrorMessage(err))
		return err
	}

	if table != nil {
		if err := table.Close(); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %v\n", err)
			return fmt.Errorf("writing %s: %w", c.Output, err)
		}
	}

	fmt.Fprintf(summary, "Extracted %d records from %d of %d files (%d skipped, %d failed, %d duplicates, %d field errors)\n",
		result.Records, result.Exported, result.Files, result.Skipped, result.Failed, result.Duplicates, result.FieldErrors)
	return nil
}

func (c *ExtractCmd) validate(deps *Dependencies) error {
	if c.Output == "" && deps.Records == nil {
		return rundown.Errorf(rundown.EINVALID, "nothing to write: set --output or --db")
	}
	if (c.Year == 0) != (c.Week == 0) {
		return rundown.Errorf(rundown.EINVALID, "--year and --week must be given together")
	}
	if c.Week < 0 || c.Week > 53 {
		return rundown.Errorf(rundown.EINVALID, "invalid ISO week %d", c.Week)
	}
	if c.Strict && c.Lenient {
		return rundown.Errorf(rundown.EINVALID, "--strict and --lenient are exclusive")
	}
	if c.Incremental && deps.Ledger == nil {
		return rundown.Errorf(rundown.EINVALID, "--incremental requires --db")
	}
	return nil
}
