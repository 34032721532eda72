package mock

import (
	"context"
	"io"

	"github.com/fwojciec/rundown"
)

var _ rundown.ExportSource = (*ExportSource)(nil)

// ExportSource is a mock implementation of rundown.ExportSource.
type ExportSource struct {
	ListFn func(ctx context.Context) ([]string, error)
	OpenFn func(path string) (io.ReadCloser, error)
}

func (s *ExportSource) List(ctx context.Context) ([]string, error) {
	return s.ListFn(ctx)
}

func (s *ExportSource) Open(path string) (io.ReadCloser, error) {
	return s.OpenFn(path)
}

var _ rundown.ExportStore = (*ExportStore)(nil)

// ExportStore is a mock implementation of rundown.ExportStore.
type ExportStore struct {
	SaveFn func(ctx context.Context, name *rundown.RundownName, r io.Reader) (string, error)
}

func (s *ExportStore) Save(ctx context.Context, name *rundown.RundownName, r io.Reader) (string, error) {
	return s.SaveFn(ctx, name, r)
}

var _ rundown.SourceLedger = (*SourceLedger)(nil)

// SourceLedger is a mock implementation of rundown.SourceLedger.
type SourceLedger struct {
	FindSourceFn    func(ctx context.Context, path string) (*rundown.ProcessedSource, error)
	MarkProcessedFn func(ctx context.Context, path, hash string) error
}

func (l *SourceLedger) FindSource(ctx context.Context, path string) (*rundown.ProcessedSource, error) {
	return l.FindSourceFn(ctx, path)
}

func (l *SourceLedger) MarkProcessed(ctx context.Context, path, hash string) error {
	return l.MarkProcessedFn(ctx, path, hash)
}
