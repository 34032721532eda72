// Package prometheus exposes batch counters as Prometheus metrics.
package prometheus

import (
	"github.com/fwojciec/rundown"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	labelOp     = "op"
	labelResult = "result"
	labelKind   = "kind"
)

// Ensure Metrics implements rundown.Metrics at compile time.
var _ rundown.Metrics = (*Metrics)(nil)

// Metrics collects batch counters in a private registry.
type Metrics struct {
	registry *prometheus.Registry

	files       *prometheus.CounterVec
	records     prometheus.Counter
	duplicates  prometheus.Counter
	fieldErrors prometheus.Counter
	pruned      *prometheus.CounterVec
}

// NewMetrics creates and registers the rundown counters.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		files: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rundown_files_total",
				Help: "Number of export files processed.",
			},
			[]string{labelOp, labelResult},
		),
		records: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rundown_records_total",
			Help: "Number of records written.",
		}),
		duplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rundown_duplicate_records_total",
			Help: "Number of duplicate records dropped.",
		}),
		fieldErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rundown_field_errors_total",
			Help: "Number of field values that could not be converted.",
		}),
		pruned: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rundown_pruned_nodes_total",
				Help: "Number of nodes removed while cleaning exports.",
			},
			[]string{labelKind},
		),
	}

	m.registry.MustRegister(
		m.files,
		m.records,
		m.duplicates,
		m.fieldErrors,
		m.pruned,
	)
	return m
}

// Registry returns the registry holding the counters.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveFile(op, result string) {
	m.files.WithLabelValues(op, result).Inc()
}

func (m *Metrics) AddRecords(n int) {
	m.records.Add(float64(n))
}

func (m *Metrics) AddDuplicates(n int) {
	m.duplicates.Add(float64(n))
}

func (m *Metrics) AddFieldErrors(n int) {
	m.fieldErrors.Add(float64(n))
}

func (m *Metrics) AddPrunedNodes(stats rundown.PruneStats) {
	m.pruned.WithLabelValues("empty").Add(float64(stats.EmptyFields))
	m.pruned.WithLabelValues("unknown").Add(float64(stats.UnknownFields))
	m.pruned.WithLabelValues("uplink").Add(float64(stats.Uplinks))
}

// WriteToTextfile writes the counters in the text exposition format read by
// the node exporter textfile collector. The file is replaced atomically.
func (m *Metrics) WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
