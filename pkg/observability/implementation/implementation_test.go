package implementation_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jt828/perf-metrics/pkg/observability"
	"github.com/jt828/perf-metrics/pkg/observability/implementation"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestPrometheusMeter(t *testing.T) {
	t.Run("counter with labels", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		meter := implementation.NewPrometheusMeterWithRegistry(reg)

		c := meter.Counter("test_ops_total", observability.MetricOpt{
			Help:      "ops",
			LabelKeys: []string{"operation"},
		})
		c.Inc(2, observability.OperationLabel("get"))
		c.Inc(3, observability.OperationLabel("get"))
		c.Inc(1, observability.OperationLabel("put"))

		assert.Equal(t, 2, testutil.CollectAndCount(reg, "test_ops_total"))
		assert.Same(t, reg, implementation.PromRegistry(meter))
	})

	t.Run("gauge uses label keys", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		meter := implementation.NewPrometheusMeterWithRegistry(reg)

		g := meter.Gauge("test_depth", observability.MetricOpt{LabelKeys: []string{"operation"}})
		g.Set(5, observability.OperationLabel("import"))
		g.Add(-2, observability.OperationLabel("import"))

		mfs, err := reg.Gather()
		require.NoError(t, err)
		require.Len(t, mfs, 1)
		assert.Equal(t, 3.0, mfs[0].GetMetric()[0].GetGauge().GetValue())
	})

	t.Run("histogram without labels", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		meter := implementation.NewPrometheusMeterWithRegistry(reg)

		h := meter.Histogram("test_latency_seconds", observability.MetricOpt{Buckets: []float64{0.1, 1}})
		h.Observe(0.05)
		h.Observe(0.5)

		mfs, err := reg.Gather()
		require.NoError(t, err)
		require.Len(t, mfs, 1)
		assert.Equal(t, uint64(2), mfs[0].GetMetric()[0].GetHistogram().GetSampleCount())
	})

	t.Run("foreign meter has no registry", func(t *testing.T) {
		assert.Nil(t, implementation.PromRegistry(nil))
	})
}

func TestZapLogger(t *testing.T) {
	t.Run("maps fields and With", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		log := implementation.NewZapLoggerFrom(zap.New(core)).With(observability.String("component", "test"))

		log.Info("flushed", observability.Uint64("bytes", 42), observability.Duration("took", time.Millisecond))

		require.Equal(t, 1, logs.Len())
		entry := logs.All()[0]
		assert.Equal(t, "flushed", entry.Message)
		ctx := entry.ContextMap()
		assert.Equal(t, "test", ctx["component"])
		assert.Equal(t, uint64(42), ctx["bytes"])
		assert.Equal(t, time.Millisecond, ctx["took"])
	})

	t.Run("rejects unknown level", func(t *testing.T) {
		_, err := implementation.NewZapLogger("loud")
		assert.Error(t, err)
	})

	t.Run("accepts configured level", func(t *testing.T) {
		log, err := implementation.NewZapLogger("debug")
		require.NoError(t, err)
		assert.NotNil(t, log)
	})
}

func TestOtelTracer(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := implementation.NewOtelTracerFromProvider(tp, "test")

	_, span := tracer.Start(context.Background(), "BlobService.Put")
	span.SetAttributes(
		observability.String("blob.key", "a"),
		observability.Int("blob.size", 3),
		observability.Uint64("blob.id", 7),
		observability.Duration("wait", time.Microsecond),
	)
	span.RecordError(errors.New("boom"))
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "BlobService.Put", ended[0].Name())
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.ElementsMatch(t, []attribute.KeyValue{
		attribute.String("blob.key", "a"),
		attribute.Int("blob.size", 3),
		attribute.Int64("blob.id", 7),
		attribute.Int64("wait_ns", 1000),
	}, ended[0].Attributes())
}

func TestNewObservability(t *testing.T) {
	obs, err := implementation.NewObservability(context.Background(), implementation.Config{
		ServiceName: "perf-metrics-test",
		LogLevel:    "error",
	})
	require.NoError(t, err)

	require.NoError(t, obs.Start(context.Background()))
	assert.NotNil(t, implementation.PromRegistry(obs.Meter()))

	_, span := obs.Tracer().Start(context.Background(), "noop")
	span.End()

	assert.NoError(t, obs.Close(context.Background()))
}
