package prometheus_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/rundown"
	"github.com/fwojciec/rundown/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	t.Parallel()

	t.Run("counts files by operation and result", func(t *testing.T) {
		t.Parallel()

		m := prometheus.NewMetrics()
		m.ObserveFile("clean", rundown.ResultOK)
		m.ObserveFile("clean", rundown.ResultOK)
		m.ObserveFile("extract", rundown.ResultFailed)

		count, err := testutil.GatherAndCount(m.Registry(), "rundown_files_total")
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("accumulates record counters", func(t *testing.T) {
		t.Parallel()

		m := prometheus.NewMetrics()
		m.AddRecords(3)
		m.AddRecords(4)
		m.AddDuplicates(2)
		m.AddFieldErrors(1)
		m.AddPrunedNodes(rundown.PruneStats{EmptyFields: 1, UnknownFields: 5, Uplinks: 2})

		count, err := testutil.GatherAndCount(m.Registry(), "rundown_pruned_nodes_total")
		require.NoError(t, err)
		assert.Equal(t, 3, count)
	})

	t.Run("writes textfile", func(t *testing.T) {
		t.Parallel()

		m := prometheus.NewMetrics()
		m.ObserveFile("extract", rundown.ResultOK)
		m.AddRecords(7)
		path := filepath.Join(t.TempDir(), "rundown.prom")

		require.NoError(t, m.WriteToTextfile(path))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		content := string(data)
		assert.Contains(t, content, `rundown_files_total{op="extract",result="ok"} 1`)
		assert.Contains(t, content, "rundown_records_total 7")
		assert.Contains(t, content, "# HELP rundown_field_errors_total")
	})
}
