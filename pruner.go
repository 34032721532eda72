package rundown

import (
	"context"
	"io"
)

// PruneStats counts the nodes removed by a content pruner.
type PruneStats struct {
	EmptyFields   int
	UnknownFields int
	Uplinks       int
}

// Total returns the number of removed nodes.
func (s PruneStats) Total() int {
	return s.EmptyFields + s.UnknownFields + s.Uplinks
}

// ContentPruner produces a size-reduced copy of a rundown export.
type ContentPruner interface {
	// Prune reads an export from r and writes the pruned export to w.
	// Returns ESCHEMA if the root rundown object is missing.
	Prune(ctx context.Context, r io.Reader, w io.Writer) (PruneStats, error)
}
