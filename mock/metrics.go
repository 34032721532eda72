package mock

import "github.com/fwojciec/rundown"

var _ rundown.Metrics = (*Metrics)(nil)

// Metrics is a mock implementation of rundown.Metrics.
type Metrics struct {
	ObserveFileFn    func(op, result string)
	AddRecordsFn     func(n int)
	AddDuplicatesFn  func(n int)
	AddFieldErrorsFn func(n int)
	AddPrunedNodesFn func(stats rundown.PruneStats)
}

func (m *Metrics) ObserveFile(op, result string) {
	m.ObserveFileFn(op, result)
}

func (m *Metrics) AddRecords(n int) {
	m.AddRecordsFn(n)
}

func (m *Metrics) AddDuplicates(n int) {
	m.AddDuplicatesFn(n)
}

func (m *Metrics) AddFieldErrors(n int) {
	m.AddFieldErrorsFn(n)
}

func (m *Metrics) AddPrunedNodes(stats rundown.PruneStats) {
	m.AddPrunedNodesFn(stats)
}
