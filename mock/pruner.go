package mock

import (
	"context"
	"io"

	"github.com/fwojciec/rundown"
)

var _ rundown.ContentPruner = (*ContentPruner)(nil)

// ContentPruner is a mock implementation of rundown.ContentPruner.
type ContentPruner struct {
	PruneFn func(ctx context.Context, r io.Reader, w io.Writer) (rundown.PruneStats, error)
}

func (p *ContentPruner) Prune(ctx context.Context, r io.Reader, w io.Writer) (rundown.PruneStats, error) {
	return p.PruneFn(ctx, r, w)
}
