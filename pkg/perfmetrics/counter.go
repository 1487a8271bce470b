//go:build enable_execution_duration_record

package perfmetrics

import (
	"math"
	"math/bits"
	"time"
)

// Counter is an unsigned accumulator of nanoseconds or sizes. It only grows;
// an addition past math.MaxUint64 panics with an *OverflowError and leaves the
// counter untouched.
type Counter uint64

// Add adds delta to the counter.
func (c *Counter) Add(delta uint64) {
	sum, carry := bits.Add64(uint64(*c), delta, 0)
	if carry != 0 {
		panic(overflow(uint64(*c), delta))
	}
	*c = Counter(sum)
}

// AddDuration adds a non-negative duration in nanoseconds. Negative
// durations count as zero.
func (c *Counter) AddDuration(d time.Duration) {
	if d < 0 {
		d = 0
	}
	c.Add(uint64(d))
}

// Load returns the accumulated value.
func (c Counter) Load() uint64 {
	return uint64(c)
}

// Duration interprets the counter as nanoseconds. Values beyond the range of
// time.Duration saturate at its maximum.
func (c Counter) Duration() time.Duration {
	if uint64(c) > math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(c)
}
