package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/fwojciec/rundown"
)

// Compile-time interface verification.
var _ rundown.SourceLedger = (*SourceService)(nil)

// SourceService implements rundown.SourceLedger using SQLite.
type SourceService struct {
	db *DB
}

// NewSourceService creates a new SourceService.
func NewSourceService(db *DB) *SourceService {
	return &SourceService{db: db}
}

// FindSource returns the ledger entry for path.
func (s *SourceService) FindSource(ctx context.Context, path string) (*rundown.ProcessedSource, error) {
	src := rundown.ProcessedSource{Path: path}
	var processedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT hash, processed_at FROM sources WHERE path = ?
	`, path).Scan(&src.Hash, &processedAt)

	if err == sql.ErrNoRows {
		return nil, rundown.Errorf(rundown.ENOTFOUND, "source not found")
	}
	if err != nil {
		return nil, err
	}

	src.ProcessedAt, err = parseRFC3339(processedAt, "processed_at")
	if err != nil {
		return nil, err
	}
	return &src, nil
}

// MarkProcessed records path with its content hash.
func (s *SourceService) MarkProcessed(ctx context.Context, path, hash string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sources (path, hash, processed_at) VALUES (?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET hash = excluded.hash, processed_at = excluded.processed_at
	`, path, hash, time.Now().UTC().Format(time.RFC3339))
	return err
}
