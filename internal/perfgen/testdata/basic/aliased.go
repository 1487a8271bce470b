//go:build enable_execution_duration_record

package basic

import pm "github.com/jt828/perf-metrics/pkg/perfmetrics"

type Aliased struct {
	Hits pm.Counter `perf_size:"recordHits"`
}
