//go:build enable_execution_duration_record

package perfmetrics_test

import (
	"math"
	"testing"
	"time"

	"github.com/jt828/perf-metrics/pkg/perfmetrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clock resolution plus scheduler jitter
const slack = 250 * time.Millisecond

type ioStats struct {
	checkpoint time.Time
	readTime   perfmetrics.Counter
	writeTime  perfmetrics.Counter
	readBytes  perfmetrics.Counter
}

var (
	markIO = perfmetrics.ScopeStartMarker(func(s *ioStats) *time.Time { return &s.checkpoint })

	recordRead = perfmetrics.ElapsedTimeRecorder(
		func(s *ioStats) *time.Time { return &s.checkpoint },
		func(s *ioStats) *perfmetrics.Counter { return &s.readTime },
	)

	recordWrite = perfmetrics.TimeOnlyRecorder(
		func(s *ioStats) *time.Time { return &s.checkpoint },
		func(s *ioStats) *perfmetrics.Counter { return &s.writeTime },
	)

	recordReadBytes = perfmetrics.SizeAccumulator(func(s *ioStats) *perfmetrics.Counter { return &s.readBytes })
)

func TestElapsedTimeRecorder(t *testing.T) {
	t.Run("accumulates a real delay", func(t *testing.T) {
		var s ioStats
		markIO(&s)

		time.Sleep(10 * time.Millisecond)
		recordRead(&s)

		assert.GreaterOrEqual(t, s.readTime.Load(), uint64(10*time.Millisecond))
		assert.Less(t, s.readTime.Duration(), 10*time.Millisecond+slack)
	})

	t.Run("returns the new reference instant", func(t *testing.T) {
		var s ioStats
		markIO(&s)
		before := s.checkpoint

		now := recordRead(&s)

		assert.True(t, now.Equal(s.checkpoint))
		assert.False(t, now.Before(before))
	})

	t.Run("unset reference instant contributes nothing", func(t *testing.T) {
		var s ioStats

		now := recordRead(&s)

		assert.Zero(t, s.readTime.Load())
		assert.False(t, now.IsZero())
		assert.True(t, now.Equal(s.checkpoint))
	})

	t.Run("sum of intervals matches the covered span", func(t *testing.T) {
		var s ioStats
		delays := []time.Duration{2 * time.Millisecond, 5 * time.Millisecond, 3 * time.Millisecond}

		begin := time.Now()
		markIO(&s)
		var slept time.Duration
		for _, d := range delays {
			time.Sleep(d)
			slept += d
			recordRead(&s)
		}
		span := time.Since(begin)

		assert.GreaterOrEqual(t, s.readTime.Duration(), slept)
		assert.LessOrEqual(t, s.readTime.Duration(), span)
	})

	t.Run("reference instant without monotonic reading never goes negative", func(t *testing.T) {
		var s ioStats
		s.checkpoint = time.Now().Add(time.Hour).Round(0)

		recordRead(&s)

		assert.Zero(t, s.readTime.Load())
	})

	t.Run("overflow mutates neither field", func(t *testing.T) {
		var s ioStats
		s.readTime = perfmetrics.Counter(math.MaxUint64)
		s.checkpoint = time.Now().Add(-time.Second)
		checkpoint := s.checkpoint

		recoverOverflow(t, func() { recordRead(&s) })

		assert.Equal(t, uint64(math.MaxUint64), s.readTime.Load())
		assert.True(t, checkpoint.Equal(s.checkpoint))
	})
}

func TestTimeOnlyRecorder(t *testing.T) {
	t.Run("chains intervals off one reference instant", func(t *testing.T) {
		var s ioStats
		markIO(&s)

		time.Sleep(5 * time.Millisecond)
		recordRead(&s)
		time.Sleep(5 * time.Millisecond)
		recordWrite(&s)

		assert.GreaterOrEqual(t, s.readTime.Duration(), 5*time.Millisecond)
		assert.GreaterOrEqual(t, s.writeTime.Duration(), 5*time.Millisecond)
		assert.Less(t, s.writeTime.Duration(), 5*time.Millisecond+slack)
	})
}

func TestScopeStartMarker(t *testing.T) {
	t.Run("restart yields an immediate duration close to zero", func(t *testing.T) {
		var s ioStats
		markIO(&s)
		time.Sleep(20 * time.Millisecond)

		markIO(&s)
		recordWrite(&s)

		assert.Less(t, s.writeTime.Duration(), 20*time.Millisecond)
	})

	t.Run("does not touch accumulators", func(t *testing.T) {
		s := ioStats{readTime: 7, writeTime: 9, readBytes: 11}

		markIO(&s)

		assert.False(t, s.checkpoint.IsZero())
		assert.Equal(t, uint64(7), s.readTime.Load())
		assert.Equal(t, uint64(9), s.writeTime.Load())
		assert.Equal(t, uint64(11), s.readBytes.Load())
	})
}

func TestSizeAccumulator(t *testing.T) {
	t.Run("exact sum", func(t *testing.T) {
		var s ioStats
		for _, size := range []uint64{4096, 512, 0, 1} {
			recordReadBytes(&s, size)
		}
		assert.Equal(t, uint64(4609), s.readBytes.Load())
	})

	t.Run("overflow at the exact addition", func(t *testing.T) {
		var s ioStats
		recordReadBytes(&s, math.MaxUint64-100)
		recordReadBytes(&s, 100)
		require.Equal(t, uint64(math.MaxUint64), s.readBytes.Load())

		overflowErr := recoverOverflow(t, func() { recordReadBytes(&s, 1) })

		assert.Equal(t, uint64(1), overflowErr.Delta)
		assert.Equal(t, uint64(math.MaxUint64), s.readBytes.Load())
	})
}
