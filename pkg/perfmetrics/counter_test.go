//go:build enable_execution_duration_record

package perfmetrics_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/jt828/perf-metrics/pkg/perfmetrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recoverOverflow runs fn and returns the *OverflowError it panicked with.
func recoverOverflow(t *testing.T, fn func()) (overflowErr *perfmetrics.OverflowError) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected overflow panic")
		err, ok := r.(error)
		require.True(t, ok, "panic value is not an error: %v", r)
		assert.ErrorIs(t, err, perfmetrics.ErrOverflow)
		require.True(t, errors.As(err, &overflowErr))
	}()
	fn()
	return nil
}

func TestCounter_Add(t *testing.T) {
	t.Run("sums exactly", func(t *testing.T) {
		var c perfmetrics.Counter
		sizes := []uint64{0, 1, 512, 4096, 1 << 32, 7}
		var want uint64
		for _, s := range sizes {
			c.Add(s)
			want += s
		}
		assert.Equal(t, want, c.Load())
	})

	t.Run("reaches the maximum without overflowing", func(t *testing.T) {
		c := perfmetrics.Counter(math.MaxUint64 - 10)
		c.Add(10)
		assert.Equal(t, uint64(math.MaxUint64), c.Load())
	})

	t.Run("overflow panics and leaves the counter untouched", func(t *testing.T) {
		c := perfmetrics.Counter(math.MaxUint64 - 1)

		overflowErr := recoverOverflow(t, func() { c.Add(2) })

		assert.Equal(t, uint64(math.MaxUint64-1), overflowErr.Current)
		assert.Equal(t, uint64(2), overflowErr.Delta)
		assert.Equal(t, uint64(math.MaxUint64-1), c.Load())
	})
}

func TestCounter_AddDuration(t *testing.T) {
	var c perfmetrics.Counter
	c.AddDuration(10 * time.Millisecond)
	c.AddDuration(-time.Second)
	assert.Equal(t, uint64(10_000_000), c.Load())
	assert.Equal(t, 10*time.Millisecond, c.Duration())
}

func TestCounter_Duration(t *testing.T) {
	c := perfmetrics.Counter(math.MaxUint64)
	assert.Equal(t, time.Duration(math.MaxInt64), c.Duration())
}
