package batch_test

import (
	"context"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/fwojciec/rundown"
	"github.com/fwojciec/rundown/mock"
)

// memSource returns an ExportSource serving files from memory in sorted
// order.
func memSource(files map[string]string) *mock.ExportSource {
	return &mock.ExportSource{
		ListFn: func(_ context.Context) ([]string, error) {
			paths := make([]string, 0, len(files))
			for p := range files {
				paths = append(paths, p)
			}
			slices.Sort(paths)
			return paths, nil
		},
		OpenFn: func(path string) (io.ReadCloser, error) {
			content, ok := files[path]
			if !ok {
				return nil, rundown.Errorf(rundown.ENOTFOUND, "%s not found", path)
			}
			return io.NopCloser(strings.NewReader(content)), nil
		},
	}
}

// recordingMetrics counts observed files per result.
type recordingMetrics struct {
	mu      sync.Mutex
	files   map[string]int
	records int
	dups    int
	errs    int
	pruned  int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{files: make(map[string]int)}
}

func (m *recordingMetrics) mock() *mock.Metrics {
	return &mock.Metrics{
		ObserveFileFn: func(op, result string) {
			m.mu.Lock()
			defer m.mu.Unlock()
			m.files[op+"/"+result]++
		},
		AddRecordsFn:     func(n int) { m.records += n },
		AddDuplicatesFn:  func(n int) { m.dups += n },
		AddFieldErrorsFn: func(n int) { m.errs += n },
		AddPrunedNodesFn: func(s rundown.PruneStats) {
			m.mu.Lock()
			defer m.mu.Unlock()
			m.pruned += s.Total()
		},
	}
}
