//go:build enable_execution_duration_record

package perfmetrics

import (
	"time"
)

// InstantField selects the reference instant of an owner.
type InstantField[T any] func(owner *T) *time.Time

// CounterField selects a time or size accumulator of an owner.
type CounterField[T any] func(owner *T) *Counter

// ElapsedTimeRecorder returns a function that adds the time elapsed since the
// owner's reference instant to acc, moves the reference instant to now and
// returns now, so that the caller can chain further measurements without
// another clock read.
//
// A reference instant that was never set contributes nothing; the first call
// only establishes it.
func ElapsedTimeRecorder[T any](instant InstantField[T], acc CounterField[T]) func(owner *T) time.Time {
	return func(owner *T) time.Time {
		return checkpoint(instant(owner), acc(owner))
	}
}

// TimeOnlyRecorder is ElapsedTimeRecorder without the returned instant.
func TimeOnlyRecorder[T any](instant InstantField[T], acc CounterField[T]) func(owner *T) {
	return func(owner *T) {
		checkpoint(instant(owner), acc(owner))
	}
}

// SizeAccumulator returns a function that adds a size to acc.
func SizeAccumulator[T any](acc CounterField[T]) func(owner *T, size uint64) {
	return func(owner *T, size uint64) {
		acc(owner).Add(size)
	}
}

// ScopeStartMarker returns a function that sets the owner's reference instant
// to now. It does not touch any accumulator.
func ScopeStartMarker[T any](instant InstantField[T]) func(owner *T) {
	return func(owner *T) {
		*instant(owner) = time.Now()
	}
}

// checkpoint accumulates first so that an overflow leaves both fields as they
// were.
func checkpoint(ref *time.Time, acc *Counter) time.Time {
	now := time.Now()
	acc.AddDuration(since(*ref, now))
	*ref = now
	return now
}

func since(ref, now time.Time) time.Duration {
	if ref.IsZero() {
		return 0
	}
	d := now.Sub(ref)
	if d < 0 {
		return 0
	}
	return d
}
