package batch

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/fwojciec/rundown"
)

// Exporter extracts the records of every export of a source and hands them
// to a writer, one file at a time in source order.
type Exporter struct {
	Source    rundown.ExportSource
	Extractor rundown.RecordExtractor
	Writer    rundown.RecordWriter

	// Store, if set, has the stored records of every exported file deleted
	// before the file's records are written, so a rerun replaces them even
	// when the file no longer yields any. Writer usually includes Store.
	Store rundown.RecordService

	// Deduplicator, if set, drops records equal to one already written.
	// Records of a file that fails to write are forgotten again.
	Deduplicator rundown.RecordDeduplicator

	// Ledger, if set, skips files whose content is unchanged since they
	// were last exported and remembers exported files.
	Ledger rundown.SourceLedger

	Metrics     rundown.Metrics
	Concurrency int
}

// ExportResult holds the outcome of an export run.
type ExportResult struct {
	Files       int
	Exported    int
	Skipped     int
	Failed      int
	Records     int
	Duplicates  int
	FieldErrors int

	// Errors holds the field errors of all exported files.
	Errors []error
}

type exportResult struct {
	path       string
	hash       string
	extraction *rundown.Extraction
	skipped    bool
	err        error
}

// Export processes every export of the source. Extraction runs in parallel;
// de-duplication and writing happen sequentially in source order so the
// output does not depend on scheduling. A file that fails to read, extract
// or write is counted as failed.
// Returns an error only if the source cannot be listed or ctx is canceled.
func (e *Exporter) Export(ctx context.Context, fn ProgressFunc) (*ExportResult, error) {
	paths, err := e.Source.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing exports: %w", err)
	}

	metrics := metricsOrNop(e.Metrics)
	p := newProgress(fn, len(paths))

	results, err := run(ctx, paths, e.Concurrency, e.extractFile)
	if err != nil {
		return nil, err
	}

	res := &ExportResult{Files: len(paths)}
	for _, r := range results {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		switch {
		case r.skipped:
			res.Skipped++
			metrics.ObserveFile("extract", rundown.ResultSkipped)
			p.file(ProgressSkipped, r.path, nil)
			continue
		case r.err == nil:
			r.err = e.write(ctx, r, res, metrics)
		}

		if r.err != nil {
			res.Failed++
			metrics.ObserveFile("extract", rundown.ResultFailed)
			p.file(ProgressFailed, r.path, r.err)
			continue
		}

		res.Exported++
		metrics.ObserveFile("extract", rundown.ResultOK)
		p.file(ProgressCompleted, r.path, nil)
	}

	p.finish()
	return res, nil
}

func (e *Exporter) extractFile(ctx context.Context, path string) exportResult {
	result := exportResult{path: path}

	data, err := e.read(path)
	if err != nil {
		result.err = err
		return result
	}
	result.hash = rundown.ContentHash(data)

	if e.Ledger != nil {
		src, err := e.Ledger.FindSource(ctx, path)
		switch {
		case err == nil && src.Hash == result.hash:
			result.skipped = true
			return result
		case err != nil && rundown.ErrorCode(err) != rundown.ENOTFOUND:
			result.err = err
			return result
		}
	}

	result.extraction, result.err = e.Extractor.Extract(ctx, path, bytes.NewReader(data))
	if result.err != nil {
		result.err = fmt.Errorf("%s: %w", path, result.err)
	}
	return result
}

func (e *Exporter) read(path string) ([]byte, error) {
	f, err := e.Source.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// write de-duplicates and stores the records of one extraction and
// accumulates the counts into res.
func (e *Exporter) write(ctx context.Context, r exportResult, res *ExportResult, metrics rundown.Metrics) error {
	ex := r.extraction

	records := ex.Records
	duplicates := 0
	if e.Deduplicator != nil {
		records = make([]*rundown.Record, 0, len(ex.Records))
		for _, rec := range ex.Records {
			if e.Deduplicator.Duplicate(rec) {
				duplicates++
				continue
			}
			records = append(records, rec)
		}
	}

	if err := e.store(ctx, r.path, records); err != nil {
		if e.Deduplicator != nil {
			for _, rec := range records {
				e.Deduplicator.Forget(rec)
			}
		}
		return err
	}

	if e.Ledger != nil {
		if err := e.Ledger.MarkProcessed(ctx, r.path, r.hash); err != nil {
			return fmt.Errorf("%s: updating ledger: %w", r.path, err)
		}
	}

	res.Records += len(records)
	res.Duplicates += duplicates
	res.FieldErrors += len(ex.Errors)
	res.Errors = append(res.Errors, ex.Errors...)

	metrics.AddRecords(len(records))
	metrics.AddDuplicates(duplicates)
	metrics.AddFieldErrors(len(ex.Errors))
	return nil
}

func (e *Exporter) store(ctx context.Context, path string, records []*rundown.Record) error {
	if e.Store != nil {
		if err := e.Store.DeleteRecordsBySource(ctx, path); err != nil {
			return fmt.Errorf("%s: replacing records: %w", path, err)
		}
	}
	if err := e.Writer.WriteRecords(ctx, records); err != nil {
		return fmt.Errorf("%s: writing records: %w", path, err)
	}
	return nil
}
