package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/fwojciec/rundown"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ rundown.RecordService = (*RecordService)(nil)

// RecordService implements rundown.RecordService using SQLite.
type RecordService struct {
	db *DB
}

// NewRecordService creates a new RecordService.
func NewRecordService(db *DB) *RecordService {
	return &RecordService{db: db}
}

// WriteRecords stores records in a single transaction. The previously stored
// records of every source present in the batch are replaced, so writing the
// extraction of a source again does not duplicate it. An empty batch names
// no source and changes nothing; use DeleteRecordsBySource to clear one.
func (s *RecordService) WriteRecords(ctx context.Context, records []*rundown.Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	replaced := make(map[string]bool)
	for _, rec := range records {
		if replaced[rec.Source] {
			continue
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM records WHERE source = ?", rec.Source); err != nil {
			return err
		}
		replaced[rec.Source] = true
	}

	cols := rundown.AllColumns()
	placeholders := strings.Repeat(", ?", len(cols))
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (id, source, row_hash, `+quoteColumns(cols)+`, created_at)
		VALUES (?, ?, ?`+placeholders+`, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, rec := range records {
		args := make([]any, 0, len(cols)+4)
		args = append(args, uuid.New().String(), rec.Source, rundown.ContentHash([]byte(rec.Key(cols))))
		for _, col := range cols {
			if v, ok := rec.Get(col); ok {
				args = append(args, v)
			} else {
				args = append(args, nil)
			}
		}
		args = append(args, now)

		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindRecords retrieves records matching the filter in insertion order.
func (s *RecordService) FindRecords(ctx context.Context, filter rundown.RecordFilter) ([]*rundown.Record, error) {
	cols := rundown.AllColumns()

	var query strings.Builder
	var args []any

	query.WriteString("SELECT source, " + quoteColumns(cols) + " FROM records WHERE 1=1")

	if filter.Source != nil {
		query.WriteString(" AND source = ?")
		args = append(args, *filter.Source)
	}
	if filter.Station != nil {
		query.WriteString(" AND station = ?")
		args = append(args, *filter.Station)
	}
	if filter.Date != nil {
		query.WriteString(` AND "date" = ?`)
		args = append(args, *filter.Date)
	}

	query.WriteString(" ORDER BY rowid ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*rundown.Record
	for rows.Next() {
		var source string
		values := make([]sql.NullString, len(cols))
		dest := make([]any, 0, len(cols)+1)
		dest = append(dest, &source)
		for i := range values {
			dest = append(dest, &values[i])
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		rec := rundown.NewRecord(source)
		for i, col := range cols {
			if values[i].Valid {
				rec.Set(col, values[i].String)
			}
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// DeleteRecordsBySource removes all records of a source.
func (s *RecordService) DeleteRecordsBySource(ctx context.Context, source string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM records WHERE source = ?", source)
	return err
}
