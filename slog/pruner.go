// Package slog provides logging decorators for rundown services.
package slog

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/rundown"
)

// Ensure LoggingPruner implements rundown.ContentPruner.
var _ rundown.ContentPruner = (*LoggingPruner)(nil)

// LoggingPruner wraps a ContentPruner with logging.
type LoggingPruner struct {
	next   rundown.ContentPruner
	logger *slog.Logger
}

// NewLoggingPruner creates a new LoggingPruner.
func NewLoggingPruner(next rundown.ContentPruner, logger *slog.Logger) *LoggingPruner {
	return &LoggingPruner{next: next, logger: logger}
}

// Prune delegates to the wrapped pruner and logs the removed nodes.
func (p *LoggingPruner) Prune(ctx context.Context, r io.Reader, w io.Writer) (stats rundown.PruneStats, err error) {
	cr := &countingReader{r: r}
	cw := &countingWriter{w: w}
	defer func(begin time.Time) {
		p.logger.Debug("prune",
			"in_bytes", cr.n,
			"out_bytes", cw.n,
			"empty", stats.EmptyFields,
			"unknown", stats.UnknownFields,
			"uplinks", stats.Uplinks,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.Prune(ctx, cr, cw)
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
