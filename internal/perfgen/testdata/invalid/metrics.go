package invalid

import (
	"time"

	"github.com/jt828/perf-metrics/pkg/perfmetrics"
	"github.com/prometheus/client_golang/prometheus"
)

type MissingInstant struct {
	ReadTime perfmetrics.Counter `perf_time:"recordRead"`
}

type UnknownInstant struct {
	ReadTime perfmetrics.Counter `perf_time:"recordRead" perf_instant:"nope"`
}

type StartOnCounter struct {
	ReadTime perfmetrics.Counter `perf_start:"markRead"`
}

type SizeOnInstant struct {
	checkpoint time.Time `perf_size:"recordBytes"`
}

type GuardWithoutSize struct {
	FlushTime perfmetrics.Counter `perf_guard:"beginFlush"`
}

type GuardSizeNotCounter struct {
	FlushTime perfmetrics.Counter `perf_guard:"beginFlush" perf_guard_size:"label"`
	label     string
}

type DuplicateMethod struct {
	A perfmetrics.Counter `perf_size:"record"`
	B perfmetrics.Counter `perf_size:"record"`
}

type InstantAlone struct {
	checkpoint time.Time
	ReadTime   perfmetrics.Counter `perf_instant:"checkpoint"`
}

type BadMethodName struct {
	Bytes perfmetrics.Counter `perf_size:"record-bytes"`
}

type SharedDeclaration struct {
	A, B perfmetrics.Counter `perf_size:"record"`
}

type ForeignCounter struct {
	Reads prometheus.Counter `perf_size:"recordReads"`
}
