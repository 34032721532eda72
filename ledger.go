package rundown

import (
	"context"
	"time"
)

// ProcessedSource is a ledger entry for an export that has been extracted.
type ProcessedSource struct {
	Path string

	// Hash is a digest of the export content at processing time.
	Hash        string
	ProcessedAt time.Time
}

// SourceLedger remembers processed exports so unchanged files can be skipped
// on later runs.
type SourceLedger interface {
	// FindSource returns the entry for path.
	// Returns ENOTFOUND if the path was never processed.
	FindSource(ctx context.Context, path string) (*ProcessedSource, error)

	// MarkProcessed records path with the given content hash, replacing any
	// previous entry.
	MarkProcessed(ctx context.Context, path, hash string) error
}
