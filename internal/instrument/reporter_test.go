//go:build enable_execution_duration_record

package instrument_test

import (
	"context"
	"testing"
	"time"

	"github.com/jt828/perf-metrics/internal/instrument"
	"github.com/jt828/perf-metrics/pkg/model"
	"github.com/jt828/perf-metrics/pkg/observability"
	obsImpl "github.com/jt828/perf-metrics/pkg/observability/implementation"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReporter_Flush(t *testing.T) {
	ctx := context.Background()

	t.Run("exports growth since the previous flush", func(t *testing.T) {
		rec := instrument.NewRecorder()
		meter := newFakeMeter()
		reporter := instrument.NewReporter(rec, meter, observability.NopLogger(), time.Minute)
		repo := instrument.WrapBlobRepository(newFakeBlobRepository(), rec)

		mustUpsert(t, ctx, repo, &model.Blob{Key: "a", Data: make([]byte, 100)})
		_, _ = repo.Get(ctx, "a")

		d := reporter.Flush()
		assert.Equal(t, uint64(1), d.Put.Count)
		assert.Equal(t, 1.0, meter.value("perf_store_operations_total", "put"))
		assert.Equal(t, 100.0, meter.value("perf_store_bytes_total", "put"))
		assert.Equal(t, 1.0, meter.value("perf_store_operations_total", "get"))
		assert.Equal(t, 100.0, meter.value("perf_store_bytes_total", "get"))
		assert.Greater(t, meter.value("perf_store_seconds_total", "put"), 0.0)
		assert.Equal(t, 1.0, meter.gauges["perf_recording_enabled"].v)

		mustUpsert(t, ctx, repo, &model.Blob{Key: "b", Data: make([]byte, 50)})

		d = reporter.Flush()
		assert.Equal(t, uint64(50), d.Put.Bytes)
		assert.Equal(t, 2.0, meter.value("perf_store_operations_total", "put"))
		assert.Equal(t, 150.0, meter.value("perf_store_bytes_total", "put"))

		assert.True(t, reporter.Flush().IsZero())
	})

	t.Run("exports imports by phase", func(t *testing.T) {
		rec := instrument.NewRecorder()
		meter := newFakeMeter()
		reporter := instrument.NewReporter(rec, meter, observability.NopLogger(), time.Minute)

		trace := rec.BeginImport()
		time.Sleep(time.Millisecond)
		trace.Written(42)
		time.Sleep(time.Millisecond)
		trace.Committed()
		trace.Finish()

		reporter.Flush()
		assert.Equal(t, 1.0, meter.value("perf_import_total", ""))
		assert.Equal(t, 1.0, meter.value("perf_import_blobs_total", ""))
		assert.Equal(t, 42.0, meter.value("perf_import_bytes_total", ""))
		assert.Greater(t, meter.value("perf_import_seconds_total", "write"), 0.0)
		assert.Greater(t, meter.value("perf_import_seconds_total", "commit"), 0.0)
	})

	t.Run("prometheus series per operation", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		rec := instrument.NewRecorder()
		reporter := instrument.NewReporter(rec, obsImpl.NewPrometheusMeterWithRegistry(reg), observability.NopLogger(), time.Minute)
		repo := instrument.WrapBlobRepository(newFakeBlobRepository(), rec)

		mustUpsert(t, ctx, repo, &model.Blob{Key: "a", Data: []byte("x")})
		_, _ = repo.Get(ctx, "a")
		_, _ = repo.Delete(ctx, "a")
		reporter.Flush()

		n, err := testutil.GatherAndCount(reg, "perf_store_operations_total")
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		n, err = testutil.GatherAndCount(reg, "perf_recording_enabled")
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}

func TestReporter_Run(t *testing.T) {
	rec := instrument.NewRecorder()
	meter := newFakeMeter()
	reporter := instrument.NewReporter(rec, meter, observability.NopLogger(), time.Hour)
	repo := instrument.WrapBlobRepository(newFakeBlobRepository(), rec)
	mustUpsert(t, context.Background(), repo, &model.Blob{Key: "a", Data: []byte("abc")})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- reporter.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("reporter did not stop")
	}
	assert.Equal(t, 3.0, meter.value("perf_store_bytes_total", "put"))
}
