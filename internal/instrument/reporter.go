package instrument

import (
	"context"
	"sync"
	"time"

	"github.com/jt828/perf-metrics/pkg/observability"
	"github.com/jt828/perf-metrics/pkg/perfmetrics"
)

const (
	opGet    = "get"
	opPut    = "put"
	opDelete = "delete"

	phaseWrite  = "write"
	phaseCommit = "commit"
)

// Reporter exports the growth of a Recorder as Prometheus counters.
type Reporter struct {
	rec      *Recorder
	log      observability.Logger
	interval time.Duration

	mu   sync.Mutex
	last Stats

	operations    observability.Counter
	bytes         observability.Counter
	seconds       observability.Counter
	errors        observability.Counter
	imports       observability.Counter
	importBlobs   observability.Counter
	importBytes   observability.Counter
	importSeconds observability.Counter
}

func NewReporter(rec *Recorder, meter observability.Meter, log observability.Logger, interval time.Duration) *Reporter {
	opLabel := []string{"operation"}
	r := &Reporter{
		rec:      rec,
		log:      log,
		interval: interval,
		operations: meter.Counter("perf_store_operations_total", observability.MetricOpt{
			Help:      "Blob repository calls.",
			LabelKeys: opLabel,
		}),
		bytes: meter.Counter("perf_store_bytes_total", observability.MetricOpt{
			Help:      "Bytes read or written by blob repository calls.",
			LabelKeys: opLabel,
		}),
		seconds: meter.Counter("perf_store_seconds_total", observability.MetricOpt{
			Help:      "Time spent in blob repository calls.",
			LabelKeys: opLabel,
		}),
		errors: meter.Counter("perf_store_errors_total", observability.MetricOpt{
			Help: "Failed blob repository calls.",
		}),
		imports: meter.Counter("perf_import_total", observability.MetricOpt{
			Help: "Finished imports.",
		}),
		importBlobs: meter.Counter("perf_import_blobs_total", observability.MetricOpt{
			Help: "Blobs written by imports.",
		}),
		importBytes: meter.Counter("perf_import_bytes_total", observability.MetricOpt{
			Help: "Bytes written by imports.",
		}),
		importSeconds: meter.Counter("perf_import_seconds_total", observability.MetricOpt{
			Help:      "Time spent in import phases.",
			LabelKeys: []string{"phase"},
		}),
	}

	enabled := meter.Gauge("perf_recording_enabled", observability.MetricOpt{
		Help: "1 when execution duration recording is compiled in.",
	})
	if perfmetrics.Enabled {
		enabled.Set(1)
	} else {
		enabled.Set(0)
	}
	return r
}

// Run flushes on every tick until ctx is done, then flushes once more.
func (r *Reporter) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.Flush()
			return nil
		case <-ticker.C:
			r.Flush()
		}
	}
}

// Flush exports what was recorded since the previous flush and returns it.
func (r *Reporter) Flush() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := r.rec.Snapshot()
	d := snap.Sub(r.last)
	r.last = snap
	if d.IsZero() {
		return d
	}

	r.exportOp(opGet, d.Get)
	r.exportOp(opPut, d.Put)
	r.exportOp(opDelete, d.Delete)
	inc(r.errors, float64(d.Errors))

	inc(r.imports, float64(d.Import.Imports))
	inc(r.importBlobs, float64(d.Import.Blobs))
	inc(r.importBytes, float64(d.Import.Bytes))
	inc(r.importSeconds, d.Import.WriteTime.Seconds(), observability.Label{Key: "phase", Value: phaseWrite})
	inc(r.importSeconds, d.Import.CommitTime.Seconds(), observability.Label{Key: "phase", Value: phaseCommit})

	r.log.Debug("perf metrics flushed",
		observability.Uint64("get_count", d.Get.Count),
		observability.Duration("get_time", d.Get.Time),
		observability.Uint64("put_bytes", d.Put.Bytes),
		observability.Duration("put_time", d.Put.Time),
		observability.Uint64("delete_count", d.Delete.Count),
		observability.Uint64("errors", d.Errors),
		observability.Uint64("imports", d.Import.Imports),
	)
	return d
}

func (r *Reporter) exportOp(op string, s OpStats) {
	label := observability.OperationLabel(op)
	inc(r.operations, float64(s.Count), label)
	inc(r.bytes, float64(s.Bytes), label)
	inc(r.seconds, s.Time.Seconds(), label)
}

func inc(c observability.Counter, v float64, labels ...observability.Label) {
	if v > 0 {
		c.Inc(v, labels...)
	}
}
