// Package csv writes broadcast records as comma-separated values.
package csv

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"sync"

	"github.com/fwojciec/rundown"
)

// ColStationAbbr is the column appended when labels are rendered.
const ColStationAbbr rundown.Column = "station_abbr"

// Ensure Writer implements rundown.RecordWriter at compile time.
var _ rundown.RecordWriter = (*Writer)(nil)

// Options configures a Writer.
type Options struct {
	// Contributors appends the contributor columns after the broadcast
	// columns.
	Contributors bool

	// Labels renders format codes as labels and appends the station
	// abbreviation.
	Labels bool

	// Formats holds the format labels used when Labels is set. Codes
	// without a label are written unchanged.
	Formats rundown.FormatLabels
}

// Writer writes records to an underlying io.Writer. The header row is
// written before the first batch. Absent values are written as empty cells.
type Writer struct {
	mu      sync.Mutex
	w       *csv.Writer
	opts    Options
	columns []rundown.Column
	started bool
}

// NewWriter creates a Writer.
func NewWriter(w io.Writer, opts Options) *Writer {
	columns := rundown.BroadcastColumns
	if opts.Contributors {
		columns = rundown.AllColumns()
	}
	if opts.Labels {
		columns = append(append([]rundown.Column(nil), columns...), ColStationAbbr)
	}
	return &Writer{
		w:       csv.NewWriter(w),
		opts:    opts,
		columns: columns,
	}
}

// Columns returns the header of the export.
func (w *Writer) Columns() []rundown.Column {
	return append([]rundown.Column(nil), w.columns...)
}

// WriteRecords writes one row per record. It is safe for concurrent use.
func (w *Writer) WriteRecords(ctx context.Context, records []*rundown.Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.started {
		if err := w.writeHeader(); err != nil {
			return err
		}
		w.started = true
	}

	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.w.Write(w.row(rec)); err != nil {
			return err
		}
	}

	w.w.Flush()
	return w.w.Error()
}

// Close writes the header if nothing was written yet and flushes.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.started {
		if err := w.writeHeader(); err != nil {
			return err
		}
		w.started = true
	}
	w.w.Flush()
	return w.w.Error()
}

func (w *Writer) writeHeader() error {
	header := make([]string, len(w.columns))
	for i, col := range w.columns {
		header[i] = string(col)
	}
	return w.w.Write(header)
}

func (w *Writer) row(rec *rundown.Record) []string {
	row := make([]string, len(w.columns))
	for i, col := range w.columns {
		switch {
		case col == ColStationAbbr:
			row[i] = stationAbbr(rec)
		case col == rundown.ColFormat && w.opts.Labels:
			row[i] = w.formatLabel(rec)
		default:
			row[i] = rec.Value(col)
		}
	}
	return row
}

func (w *Writer) formatLabel(rec *rundown.Record) string {
	code := rec.Value(rundown.ColFormat)
	if label, ok := w.opts.Formats.Label(code); ok {
		return label
	}
	return code
}

func stationAbbr(rec *rundown.Record) string {
	code, err := strconv.Atoi(rec.Value(rundown.ColStation))
	if err != nil {
		return ""
	}
	abbr, _ := rundown.StationAbbreviation(code)
	return abbr
}
