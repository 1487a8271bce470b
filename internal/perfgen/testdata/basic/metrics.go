//go:build enable_execution_duration_record

package basic

import (
	"time"

	"github.com/jt828/perf-metrics/pkg/perfmetrics"
)

//go:generate go run ../../../../cmd/perfgen --struct=Metrics

// Metrics is the sample aggregator used by the generator tests.
type Metrics struct {
	checkpoint time.Time `perf_start:"markCheckpoint"`

	ReadTime  perfmetrics.Counter `perf_elapsed:"recordRead" perf_instant:"checkpoint"`
	WriteTime perfmetrics.Counter `perf_time:"recordWrite" perf_instant:"checkpoint"`
	ReadBytes perfmetrics.Counter `perf_size:"recordReadBytes"`

	FlushTime  perfmetrics.Counter `perf_guard:"beginFlush" perf_guard_size:"FlushBytes"`
	FlushBytes perfmetrics.Counter

	label string
}

// SizeOnly has no time bindings at all.
type SizeOnly struct {
	Bytes perfmetrics.Counter `perf_size:"recordBytes"`
}

type Untagged struct {
	Bytes perfmetrics.Counter
}
