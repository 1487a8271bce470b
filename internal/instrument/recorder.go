//go:build enable_execution_duration_record

package instrument

import (
	"sync"
	"time"

	"github.com/jt828/perf-metrics/pkg/perfmetrics"
)

// Recorder owns the store-wide metrics. Guards are started without the lock
// and finalized under it, so concurrent calls only contend while adding
// their numbers.
type Recorder struct {
	mu      sync.Mutex
	store   StoreMetrics
	imports importTotals
}

type importTotals struct {
	imports    perfmetrics.Counter
	blobs      perfmetrics.Counter
	bytes      perfmetrics.Counter
	writeTime  perfmetrics.Counter
	commitTime perfmetrics.Counter
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Snapshot() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	m := &r.store
	return Stats{
		Get: OpStats{
			Count: m.GetCount.Load(),
			Bytes: m.GetBytes.Load(),
			Time:  m.GetTime.Duration(),
		},
		Put: OpStats{
			Count: m.PutCount.Load(),
			Bytes: m.PutBytes.Load(),
			Time:  m.PutTime.Duration(),
		},
		Delete: OpStats{
			Count: m.DeleteCount.Load(),
			Time:  m.DeleteTime.Duration(),
		},
		Errors: m.Errors.Load(),
		Import: ImportStats{
			Imports:    r.imports.imports.Load(),
			Blobs:      r.imports.blobs.Load(),
			Bytes:      r.imports.bytes.Load(),
			WriteTime:  r.imports.writeTime.Duration(),
			CommitTime: r.imports.commitTime.Duration(),
		},
	}
}

func (r *Recorder) end(g *perfmetrics.Guard[StoreMetrics]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g.End()
}

func (r *Recorder) update(fn func(m *StoreMetrics)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(&r.store)
}

// ImportTrace times one import. It belongs to the goroutine running the
// import and touches the Recorder only in Finish.
type ImportTrace struct {
	rec       *Recorder
	m         ImportMetrics
	lastWrite time.Time
	finished  bool
}

// BeginImport starts the write phase of a new import.
func (r *Recorder) BeginImport() *ImportTrace {
	t := &ImportTrace{rec: r}
	t.m.startPhase()
	return t
}

// Written closes the write of one blob of size bytes.
func (t *ImportTrace) Written(size int) {
	t.lastWrite = t.m.recordWrite()
	t.m.recordImportedBytes(uint64(size))
	t.m.recordImportedCount(1)
}

// Committed closes the commit phase.
func (t *ImportTrace) Committed() {
	t.m.recordCommit()
}

// LastWrite returns when the most recent write finished, or the zero time.
func (t *ImportTrace) LastWrite() time.Time {
	return t.lastWrite
}

// Finish merges the trace into its Recorder and returns the import's own
// numbers. Later calls return the same numbers without merging again.
func (t *ImportTrace) Finish() ImportStats {
	s := ImportStats{
		Imports:    1,
		Blobs:      t.m.ImportedCount.Load(),
		Bytes:      t.m.ImportedBytes.Load(),
		WriteTime:  t.m.WriteTime.Duration(),
		CommitTime: t.m.CommitTime.Duration(),
	}
	if t.finished {
		return s
	}
	t.finished = true

	r := t.rec
	r.mu.Lock()
	defer r.mu.Unlock()
	r.imports.imports.Add(1)
	r.imports.blobs.Add(t.m.ImportedCount.Load())
	r.imports.bytes.Add(t.m.ImportedBytes.Load())
	r.imports.writeTime.Add(t.m.WriteTime.Load())
	r.imports.commitTime.Add(t.m.CommitTime.Load())
	return s
}
