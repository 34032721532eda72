package rundown

import (
	"context"
	"io"
)

// ExportSource lists and opens rundown export files.
type ExportSource interface {
	// List returns the paths of all exports, sorted.
	List(ctx context.Context) ([]string, error)

	// Open opens an export for reading.
	Open(path string) (io.ReadCloser, error)
}

// ExportStore persists cleaned exports under their canonical names.
type ExportStore interface {
	// Save writes the content read from r for the given name and returns
	// the path written. A partially written file is never left behind.
	Save(ctx context.Context, name *RundownName, r io.Reader) (string, error)
}
