package mock

import (
	"context"
	"io"

	"github.com/fwojciec/rundown"
)

var _ rundown.RecordExtractor = (*RecordExtractor)(nil)

// RecordExtractor is a mock implementation of rundown.RecordExtractor.
type RecordExtractor struct {
	ExtractFn func(ctx context.Context, source string, r io.Reader) (*rundown.Extraction, error)
}

func (x *RecordExtractor) Extract(ctx context.Context, source string, r io.Reader) (*rundown.Extraction, error) {
	return x.ExtractFn(ctx, source, r)
}

var _ rundown.RecordWriter = (*RecordWriter)(nil)

// RecordWriter is a mock implementation of rundown.RecordWriter.
type RecordWriter struct {
	WriteRecordsFn func(ctx context.Context, records []*rundown.Record) error
}

func (w *RecordWriter) WriteRecords(ctx context.Context, records []*rundown.Record) error {
	return w.WriteRecordsFn(ctx, records)
}

var _ rundown.RecordService = (*RecordService)(nil)

// RecordService is a mock implementation of rundown.RecordService.
type RecordService struct {
	WriteRecordsFn          func(ctx context.Context, records []*rundown.Record) error
	FindRecordsFn           func(ctx context.Context, filter rundown.RecordFilter) ([]*rundown.Record, error)
	DeleteRecordsBySourceFn func(ctx context.Context, source string) error
}

func (s *RecordService) WriteRecords(ctx context.Context, records []*rundown.Record) error {
	return s.WriteRecordsFn(ctx, records)
}

func (s *RecordService) FindRecords(ctx context.Context, filter rundown.RecordFilter) ([]*rundown.Record, error) {
	return s.FindRecordsFn(ctx, filter)
}

func (s *RecordService) DeleteRecordsBySource(ctx context.Context, source string) error {
	return s.DeleteRecordsBySourceFn(ctx, source)
}

var _ rundown.RecordDeduplicator = (*RecordDeduplicator)(nil)

// RecordDeduplicator is a mock implementation of rundown.RecordDeduplicator.
type RecordDeduplicator struct {
	DuplicateFn func(rec *rundown.Record) bool
	ForgetFn    func(rec *rundown.Record)
}

func (d *RecordDeduplicator) Duplicate(rec *rundown.Record) bool {
	return d.DuplicateFn(rec)
}

func (d *RecordDeduplicator) Forget(rec *rundown.Record) {
	d.ForgetFn(rec)
}
