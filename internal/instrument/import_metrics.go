//go:build enable_execution_duration_record

package instrument

import (
	"time"

	"github.com/jt828/perf-metrics/pkg/perfmetrics"
)

//go:generate go run ../../cmd/perfgen --struct=ImportMetrics

// ImportMetrics times the phases of a single import. Every checkpoint moves
// phaseStart, so WriteTime holds the time spent writing blobs and CommitTime
// the time between the last write and the end of the commit.
type ImportMetrics struct {
	phaseStart time.Time `perf_start:"startPhase"`

	WriteTime  perfmetrics.Counter `perf_elapsed:"recordWrite" perf_instant:"phaseStart"`
	CommitTime perfmetrics.Counter `perf_time:"recordCommit" perf_instant:"phaseStart"`

	ImportedBytes perfmetrics.Counter `perf_size:"recordImportedBytes"`
	ImportedCount perfmetrics.Counter `perf_size:"recordImportedCount"`
}
