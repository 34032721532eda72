package batch_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/fwojciec/rundown"
	"github.com/fwojciec/rundown/batch"
	"github.com/fwojciec/rundown/bloom"
	"github.com/fwojciec/rundown/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lineExtractor produces one record per line of input, titled with the
// line. A line "bad" adds a field error; content "broken" fails.
func lineExtractor() *mock.RecordExtractor {
	return &mock.RecordExtractor{
		ExtractFn: func(_ context.Context, source string, r io.Reader) (*rundown.Extraction, error) {
			data, err := io.ReadAll(r)
			if err != nil {
				return nil, err
			}
			if string(data) == "broken" {
				return nil, rundown.Errorf(rundown.ESCHEMA, "expected root rundown object not found")
			}
			ex := &rundown.Extraction{Source: source}
			for _, line := range strings.Split(string(data), "\n") {
				if line == "bad" {
					ex.Errors = append(ex.Errors, &rundown.FieldError{Source: source, Field: rundown.FieldSince, Value: line})
					continue
				}
				rec := rundown.NewRecord(source)
				rec.Set(rundown.ColTitle3, line)
				ex.Records = append(ex.Records, rec)
			}
			return ex, nil
		},
	}
}

func collectingWriter() (*mock.RecordWriter, *[]string) {
	var titles []string
	return &mock.RecordWriter{
		WriteRecordsFn: func(_ context.Context, records []*rundown.Record) error {
			for _, r := range records {
				titles = append(titles, r.Value(rundown.ColTitle3))
			}
			return nil
		},
	}, &titles
}

func TestExporter_Export(t *testing.T) {
	t.Parallel()

	t.Run("writes records in source order", func(t *testing.T) {
		t.Parallel()

		writer, titles := collectingWriter()
		metrics := newRecordingMetrics()
		e := &batch.Exporter{
			Source: memSource(map[string]string{
				"a.xml": "one\ntwo",
				"b.xml": "three",
				"c.xml": "four\nfive",
			}),
			Extractor:   lineExtractor(),
			Writer:      writer,
			Metrics:     metrics.mock(),
			Concurrency: 3,
		}

		result, err := e.Export(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, 3, result.Files)
		assert.Equal(t, 3, result.Exported)
		assert.Equal(t, 5, result.Records)
		assert.Equal(t, []string{"one", "two", "three", "four", "five"}, *titles)
		assert.Equal(t, 3, metrics.files["extract/ok"])
		assert.Equal(t, 5, metrics.records)
	})

	t.Run("drops duplicate records", func(t *testing.T) {
		t.Parallel()

		writer, titles := collectingWriter()
		e := &batch.Exporter{
			Source: memSource(map[string]string{
				"a.xml": "one\none",
				"b.xml": "one\ntwo",
			}),
			Extractor:    lineExtractor(),
			Writer:       writer,
			Deduplicator: bloom.NewDeduper(100, []rundown.Column{rundown.ColTitle3}),
		}

		result, err := e.Export(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, []string{"one", "two"}, *titles)
		assert.Equal(t, 2, result.Records)
		assert.Equal(t, 2, result.Duplicates)
	})

	t.Run("collects field errors without failing the file", func(t *testing.T) {
		t.Parallel()

		writer, titles := collectingWriter()
		metrics := newRecordingMetrics()
		e := &batch.Exporter{
			Source:    memSource(map[string]string{"a.xml": "one\nbad\ntwo"}),
			Extractor: lineExtractor(),
			Writer:    writer,
			Metrics:   metrics.mock(),
		}

		result, err := e.Export(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Exported)
		assert.Equal(t, 1, result.FieldErrors)
		require.Len(t, result.Errors, 1)
		var fe *rundown.FieldError
		assert.ErrorAs(t, result.Errors[0], &fe)
		assert.Equal(t, []string{"one", "two"}, *titles)
		assert.Equal(t, 1, metrics.errs)
	})

	t.Run("counts failed files and continues", func(t *testing.T) {
		t.Parallel()

		writer, titles := collectingWriter()
		var events []batch.ProgressEvent
		e := &batch.Exporter{
			Source: memSource(map[string]string{
				"a.xml": "broken",
				"b.xml": "ok",
			}),
			Extractor: lineExtractor(),
			Writer:    writer,
		}

		result, err := e.Export(context.Background(), func(ev batch.ProgressEvent) {
			events = append(events, ev)
		})

		require.NoError(t, err)
		assert.Equal(t, 1, result.Failed)
		assert.Equal(t, 1, result.Exported)
		assert.Equal(t, []string{"ok"}, *titles)

		require.Len(t, events, 4)
		assert.Equal(t, batch.ProgressFailed, events[1].Type)
		assert.Equal(t, "a.xml", events[1].Path)
		assert.Equal(t, rundown.ESCHEMA, rundown.ErrorCode(events[1].Error))
		assert.Equal(t, batch.ProgressCompleted, events[2].Type)
		assert.Equal(t, 2, events[2].Completed)
	})

	t.Run("counts writer failure", func(t *testing.T) {
		t.Parallel()

		e := &batch.Exporter{
			Source:    memSource(map[string]string{"a.xml": "one"}),
			Extractor: lineExtractor(),
			Writer: &mock.RecordWriter{
				WriteRecordsFn: func(_ context.Context, _ []*rundown.Record) error {
					return errors.New("disk full")
				},
			},
		}

		result, err := e.Export(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Failed)
		assert.Zero(t, result.Records)
	})

	t.Run("keeps records of a failed write eligible for later files", func(t *testing.T) {
		t.Parallel()

		var titles []string
		e := &batch.Exporter{
			Source: memSource(map[string]string{
				"a.xml": "one",
				"b.xml": "one\ntwo",
			}),
			Extractor: lineExtractor(),
			Writer: &mock.RecordWriter{
				WriteRecordsFn: func(_ context.Context, records []*rundown.Record) error {
					if len(records) > 0 && records[0].Source == "a.xml" {
						return errors.New("disk full")
					}
					for _, r := range records {
						titles = append(titles, r.Value(rundown.ColTitle3))
					}
					return nil
				},
			},
			Deduplicator: bloom.NewDeduper(100, []rundown.Column{rundown.ColTitle3}),
		}

		result, err := e.Export(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Failed)
		assert.Zero(t, result.Duplicates)
		assert.Equal(t, []string{"one", "two"}, titles)
	})

	t.Run("clears stored records of a file before writing", func(t *testing.T) {
		t.Parallel()

		stored := map[string]int{"a.xml": 3, "b.xml": 2}
		store := &mock.RecordService{
			DeleteRecordsBySourceFn: func(_ context.Context, source string) error {
				delete(stored, source)
				return nil
			},
			WriteRecordsFn: func(_ context.Context, records []*rundown.Record) error {
				for _, r := range records {
					stored[r.Source]++
				}
				return nil
			},
		}
		e := &batch.Exporter{
			Source: memSource(map[string]string{
				"a.xml": "one",
				"b.xml": "one",
			}),
			Extractor:    lineExtractor(),
			Writer:       store,
			Store:        store,
			Deduplicator: bloom.NewDeduper(100, []rundown.Column{rundown.ColTitle3}),
		}

		result, err := e.Export(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, 2, result.Exported)
		assert.Equal(t, 1, result.Duplicates)
		assert.Equal(t, map[string]int{"a.xml": 1}, stored)
	})

	t.Run("fails file when stored records cannot be cleared", func(t *testing.T) {
		t.Parallel()

		writer, titles := collectingWriter()
		e := &batch.Exporter{
			Source:    memSource(map[string]string{"a.xml": "one"}),
			Extractor: lineExtractor(),
			Writer:    writer,
			Store: &mock.RecordService{
				DeleteRecordsBySourceFn: func(_ context.Context, _ string) error {
					return errors.New("database is locked")
				},
			},
		}

		result, err := e.Export(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Failed)
		assert.Empty(t, *titles)
	})

	t.Run("skips unchanged files recorded in the ledger", func(t *testing.T) {
		t.Parallel()

		writer, titles := collectingWriter()
		hashes := make(map[string]string)
		ledger := &mock.SourceLedger{
			FindSourceFn: func(_ context.Context, path string) (*rundown.ProcessedSource, error) {
				h, ok := hashes[path]
				if !ok {
					return nil, rundown.Errorf(rundown.ENOTFOUND, "source not found")
				}
				return &rundown.ProcessedSource{Path: path, Hash: h}, nil
			},
			MarkProcessedFn: func(_ context.Context, path, hash string) error {
				hashes[path] = hash
				return nil
			},
		}
		files := map[string]string{"a.xml": "one", "b.xml": "two"}
		e := &batch.Exporter{
			Source:    memSource(files),
			Extractor: lineExtractor(),
			Writer:    writer,
			Ledger:    ledger,
		}

		first, err := e.Export(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, 2, first.Exported)

		files["b.xml"] = "changed"
		second, err := e.Export(context.Background(), nil)
		require.NoError(t, err)

		assert.Equal(t, 1, second.Skipped)
		assert.Equal(t, 1, second.Exported)
		assert.Equal(t, []string{"one", "two", "changed"}, *titles)
	})

	t.Run("fails file on ledger error", func(t *testing.T) {
		t.Parallel()

		writer, _ := collectingWriter()
		e := &batch.Exporter{
			Source:    memSource(map[string]string{"a.xml": "one"}),
			Extractor: lineExtractor(),
			Writer:    writer,
			Ledger: &mock.SourceLedger{
				FindSourceFn: func(_ context.Context, _ string) (*rundown.ProcessedSource, error) {
					return nil, errors.New("database is locked")
				},
			},
		}

		result, err := e.Export(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Failed)
	})
}
