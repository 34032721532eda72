package rundown

// Outcomes of processing one export file.
const (
	ResultOK      = "ok"
	ResultFailed  = "failed"
	ResultSkipped = "skipped"
)

// Metrics receives counters from batch operations.
type Metrics interface {
	// ObserveFile counts one processed file of operation op ("clean" or
	// "extract") with one of the Result* outcomes.
	ObserveFile(op, result string)

	AddRecords(n int)
	AddDuplicates(n int)
	AddFieldErrors(n int)
	AddPrunedNodes(stats PruneStats)
}
