package slog

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/rundown"
)

// Ensure LoggingExtractor implements rundown.RecordExtractor.
var _ rundown.RecordExtractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps a RecordExtractor with logging. Every field error
// of an extraction is logged as a warning.
type LoggingExtractor struct {
	next   rundown.RecordExtractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next rundown.RecordExtractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the result.
func (x *LoggingExtractor) Extract(ctx context.Context, source string, r io.Reader) (ex *rundown.Extraction, err error) {
	defer func(begin time.Time) {
		var records, errs, skipped int
		if ex != nil {
			records, errs, skipped = len(ex.Records), len(ex.Errors), ex.SkippedBlocks
			for _, fe := range ex.Errors {
				x.logger.Warn("field error", "source", source, "err", fe)
			}
		}
		x.logger.Debug("extract",
			"source", source,
			"records", records,
			"field_errors", errs,
			"skipped_blocks", skipped,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return x.next.Extract(ctx, source, r)
}

// Ensure LoggingRecordWriter implements rundown.RecordWriter.
var _ rundown.RecordWriter = (*LoggingRecordWriter)(nil)

// LoggingRecordWriter wraps a RecordWriter with logging.
type LoggingRecordWriter struct {
	next   rundown.RecordWriter
	logger *slog.Logger
}

// NewLoggingRecordWriter creates a new LoggingRecordWriter.
func NewLoggingRecordWriter(next rundown.RecordWriter, logger *slog.Logger) *LoggingRecordWriter {
	return &LoggingRecordWriter{next: next, logger: logger}
}

// WriteRecords delegates to the wrapped writer and logs the operation.
func (w *LoggingRecordWriter) WriteRecords(ctx context.Context, records []*rundown.Record) (err error) {
	defer func(begin time.Time) {
		w.logger.Debug("write records",
			"count", len(records),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return w.next.WriteRecords(ctx, records)
}
