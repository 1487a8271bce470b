//go:build enable_execution_duration_record

package instrument

import "github.com/jt828/perf-metrics/pkg/perfmetrics"

//go:generate go run ../../cmd/perfgen --struct=StoreMetrics

// StoreMetrics accumulates the cost of blob repository calls. Time counters
// are in nanoseconds.
type StoreMetrics struct {
	GetTime  perfmetrics.Counter `perf_guard:"beginGet" perf_guard_size:"GetCount"`
	GetCount perfmetrics.Counter
	GetBytes perfmetrics.Counter `perf_size:"recordGetBytes"`

	PutTime  perfmetrics.Counter `perf_guard:"beginPut" perf_guard_size:"PutBytes"`
	PutBytes perfmetrics.Counter
	PutCount perfmetrics.Counter `perf_size:"recordPutCount"`

	DeleteTime  perfmetrics.Counter `perf_guard:"beginDelete" perf_guard_size:"DeleteCount"`
	DeleteCount perfmetrics.Counter

	Errors perfmetrics.Counter `perf_size:"recordErrors"`
}
