package csv_test

import (
	"bytes"
	"context"
	encsv "encoding/csv"
	"errors"
	"testing"

	"github.com/fwojciec/rundown"
	"github.com/fwojciec/rundown/csv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, buf *bytes.Buffer) [][]string {
	t.Helper()
	rows, err := encsv.NewReader(buf).ReadAll()
	require.NoError(t, err)
	return rows
}

func sampleRecord() *rundown.Record {
	rec := rundown.NewRecord("a.xml")
	rec.Set(rundown.ColStation, "11")
	rec.Set(rundown.ColDate, "2023-01-15")
	rec.Set(rundown.ColFormat, "3")
	rec.Set(rundown.ColTitle3, "Rozhovor, s ministrem")
	rec.Set(rundown.ColGivenName, "Jan")
	return rec
}

func TestWriter_WriteRecords(t *testing.T) {
	t.Parallel()

	t.Run("writes header and rows in published order", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := csv.NewWriter(&buf, csv.Options{})

		err := w.WriteRecords(context.Background(), []*rundown.Record{sampleRecord()})
		require.NoError(t, err)

		rows := readAll(t, &buf)
		require.Len(t, rows, 2)
		assert.Len(t, rows[0], len(rundown.BroadcastColumns))
		assert.Equal(t, "station", rows[0][0])
		assert.Equal(t, "category", rows[0][len(rows[0])-1])
		assert.Equal(t, "11", rows[1][0])
		assert.Equal(t, "2023-01-15", rows[1][1])
		assert.Equal(t, "3", rows[1][6])
		assert.Contains(t, rows[1], "Rozhovor, s ministrem")
		assert.Empty(t, rows[1][2], "absent block is an empty cell")
	})

	t.Run("writes header only once across batches", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := csv.NewWriter(&buf, csv.Options{})

		require.NoError(t, w.WriteRecords(context.Background(), []*rundown.Record{sampleRecord()}))
		require.NoError(t, w.WriteRecords(context.Background(), []*rundown.Record{sampleRecord()}))

		assert.Len(t, readAll(t, &buf), 3)
	})

	t.Run("appends contributor columns", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := csv.NewWriter(&buf, csv.Options{Contributors: true})

		require.NoError(t, w.WriteRecords(context.Background(), []*rundown.Record{sampleRecord()}))

		rows := readAll(t, &buf)
		assert.Len(t, rows[0], len(rundown.AllColumns()))
		assert.Contains(t, rows[0], "given_name")
		assert.Contains(t, rows[1], "Jan")
	})

	t.Run("renders labels and station abbreviation", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := csv.NewWriter(&buf, csv.Options{
			Labels:  true,
			Formats: rundown.NewFormatLabels(map[string]string{"3": "Interview"}),
		})

		require.NoError(t, w.WriteRecords(context.Background(), []*rundown.Record{sampleRecord()}))

		rows := readAll(t, &buf)
		last := len(rows[0]) - 1
		assert.Equal(t, "station_abbr", rows[0][last])
		assert.Equal(t, "RZ", rows[1][last])
		assert.Equal(t, "Interview", rows[1][6])
	})

	t.Run("keeps unknown format code", func(t *testing.T) {
		t.Parallel()

		rec := rundown.NewRecord("a.xml")
		rec.Set(rundown.ColFormat, "99")
		var buf bytes.Buffer
		w := csv.NewWriter(&buf, csv.Options{Labels: true})

		require.NoError(t, w.WriteRecords(context.Background(), []*rundown.Record{rec}))

		rows := readAll(t, &buf)
		assert.Equal(t, "99", rows[1][6])
		assert.Empty(t, rows[1][len(rows[1])-1])
	})

	t.Run("keeps format code without configured labels", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := csv.NewWriter(&buf, csv.Options{Labels: true})

		require.NoError(t, w.WriteRecords(context.Background(), []*rundown.Record{sampleRecord()}))

		rows := readAll(t, &buf)
		assert.Equal(t, "3", rows[1][6])
		assert.Equal(t, "RZ", rows[1][len(rows[1])-1])
	})

	t.Run("returns context error when canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		var buf bytes.Buffer

		err := csv.NewWriter(&buf, csv.Options{}).WriteRecords(ctx, []*rundown.Record{sampleRecord()})

		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestWriter_CloseWritesHeaderForEmptyExport(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := csv.NewWriter(&buf, csv.Options{})

	require.NoError(t, w.Close())

	rows := readAll(t, &buf)
	require.Len(t, rows, 1)
	assert.Equal(t, w.Columns()[0], rundown.Column(rows[0][0]))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("no space left on device")
}

func TestWriter_CloseReturnsFlushError(t *testing.T) {
	t.Parallel()

	w := csv.NewWriter(failingWriter{}, csv.Options{})

	err := w.Close()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no space left")
}
