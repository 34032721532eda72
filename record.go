package rundown

import (
	"context"
	"io"
	"strings"
)

// Column names a value of a flattened broadcast record.
type Column string

// Broadcast columns, in published export order.
const (
	ColStation           Column = "station"
	ColDate              Column = "date"
	ColBlock             Column = "block"
	ColSince             Column = "since"
	ColTill              Column = "till"
	ColDuration          Column = "duration"
	ColFormat            Column = "format"
	ColTarget            Column = "target"
	ColItemcode          Column = "itemcode"
	ColIncode            Column = "incode"
	ColTopic             Column = "topic"
	ColCreator           Column = "creator"
	ColAuthor            Column = "author"
	ColEditorial         Column = "editorial"
	ColApprovedStation   Column = "approved_station"
	ColApprovedEditorial Column = "approved_editorial"
	ColTitle1            Column = "title1"
	ColTitle2            Column = "title2"
	ColTitle3            Column = "title3"
	ColCategory          Column = "category"
)

// Structural and contributor columns, exported after the broadcast columns.
const (
	ColTemplate    Column = "template"
	ColUniqueID    Column = "openmedia_id"
	ColGivenName   Column = "given_name"
	ColFamilyName  Column = "family_name"
	ColLabels      Column = "labels"
	ColGender      Column = "gender"
	ColAffiliation Column = "affiliation"
)

// BroadcastColumns is the published column order of the tabular export.
var BroadcastColumns = []Column{
	ColStation, ColDate, ColBlock, ColSince, ColTill, ColDuration, ColFormat,
	ColTarget, ColItemcode, ColIncode, ColTopic, ColCreator, ColAuthor,
	ColEditorial, ColApprovedStation, ColApprovedEditorial, ColTitle1,
	ColTitle2, ColTitle3, ColCategory,
}

// ContributorColumns follow BroadcastColumns when contributors are exported.
var ContributorColumns = []Column{
	ColTemplate, ColUniqueID, ColGivenName, ColFamilyName, ColLabels, ColGender, ColAffiliation,
}

// AllColumns returns BroadcastColumns followed by ContributorColumns.
func AllColumns() []Column {
	cols := make([]Column, 0, len(BroadcastColumns)+len(ContributorColumns))
	cols = append(cols, BroadcastColumns...)
	return append(cols, ContributorColumns...)
}

// Record is one flattened row: a story (or story segment) together with the
// metadata inherited from the enclosing blocks. A value that is absent in
// the source is not present in the record, which differs from a present
// empty string.
type Record struct {
	// Source identifies the export the record was extracted from.
	Source string

	values map[Column]string
}

// NewRecord returns an empty record for the given source.
func NewRecord(source string) *Record {
	return &Record{Source: source, values: make(map[Column]string)}
}

// Set stores a value, trimming surrounding whitespace.
func (r *Record) Set(col Column, value string) {
	r.values[col] = strings.TrimSpace(value)
}

// Get returns the value of a column and whether it is present.
func (r *Record) Get(col Column) (string, bool) {
	v, ok := r.values[col]
	return v, ok
}

// Value returns the value of a column or an empty string when absent.
func (r *Record) Value(col Column) string {
	return r.values[col]
}

// Len returns the number of present values.
func (r *Record) Len() int {
	return len(r.values)
}

// Clone returns an independent copy of the record.
func (r *Record) Clone() *Record {
	c := NewRecord(r.Source)
	for k, v := range r.values {
		c.values[k] = v
	}
	return c
}

// Key returns a string identifying the record's values over the given
// columns. Absent and empty values produce different keys.
func (r *Record) Key(cols []Column) string {
	var b strings.Builder
	for _, col := range cols {
		if v, ok := r.values[col]; ok {
			b.WriteByte('+')
			b.WriteString(v)
		} else {
			b.WriteByte('-')
		}
		b.WriteByte(0)
	}
	return b.String()
}

// Respondent returns the contributor attached to the record, if any.
func (r *Record) Respondent() (*Respondent, bool) {
	given, okGiven := r.Get(ColGivenName)
	family, okFamily := r.Get(ColFamilyName)
	id, okID := r.Get(ColUniqueID)
	if !okGiven && !okFamily && !okID {
		return nil, false
	}
	return &Respondent{
		ID:          id,
		Name:        Name{Given: given, Family: family},
		Labels:      ParseLabels(r.Value(ColLabels)),
		Affiliation: r.Value(ColAffiliation),
		Gender:      r.Value(ColGender),
	}, true
}

// Extraction is the result of flattening one rundown export.
type Extraction struct {
	Source  string
	Records []*Record

	// Errors holds field-level failures that did not abort the walk.
	Errors []error

	// SkippedBlocks counts slot records passed over because they hold no
	// hourly rundown.
	SkippedBlocks int
}

// HasErrors reports whether any field-level failure was recorded.
func (e *Extraction) HasErrors() bool {
	return len(e.Errors) > 0
}

// RecordExtractor flattens a rundown export into broadcast records.
type RecordExtractor interface {
	// Extract parses the export read from r and walks its broadcast hierarchy.
	// Returns ESCHEMA if the root rundown object is missing.
	Extract(ctx context.Context, source string, r io.Reader) (*Extraction, error)
}

// RecordWriter receives extracted records, e.g. a tabular export or a store.
type RecordWriter interface {
	WriteRecords(ctx context.Context, records []*Record) error
}

// RecordFilter represents a filter for FindRecords.
type RecordFilter struct {
	Source  *string
	Station *string
	Date    *string

	Limit  int
	Offset int
}

// RecordService represents a persistent store of extracted records.
type RecordService interface {
	RecordWriter

	// FindRecords retrieves records matching the filter in insertion order.
	FindRecords(ctx context.Context, filter RecordFilter) ([]*Record, error)

	// DeleteRecordsBySource removes all records of a source.
	DeleteRecordsBySource(ctx context.Context, source string) error
}

// RecordDeduplicator detects records repeated within a batch.
type RecordDeduplicator interface {
	// Duplicate reports whether an equal record was seen before and
	// remembers rec otherwise.
	Duplicate(rec *Record) bool

	// Forget removes rec so an equal record is no longer a duplicate.
	Forget(rec *Record)
}

// MultiRecordWriter returns a writer that writes every batch to all given
// writers in order, stopping at the first error.
func MultiRecordWriter(writers ...RecordWriter) RecordWriter {
	return multiRecordWriter(append([]RecordWriter(nil), writers...))
}

type multiRecordWriter []RecordWriter

func (m multiRecordWriter) WriteRecords(ctx context.Context, records []*Record) error {
	for _, w := range m {
		if err := w.WriteRecords(ctx, records); err != nil {
			return err
		}
	}
	return nil
}
