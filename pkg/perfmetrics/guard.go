//go:build enable_execution_duration_record

package perfmetrics

import (
	"time"
)

// GuardTemplate assembles scope guards for one kind of operation. It binds the
// owner's time and size accumulators that guards finalize into.
type GuardTemplate[T any] struct {
	start      func(g *Guard[T])
	recordTime func(g *Guard[T])
	recordSize func(g *Guard[T], size uint64)
	ownerTime  func(owner *T, elapsed uint64)
	ownerSize  func(owner *T, size uint64)
}

// NewGuardTemplate returns a template whose guards finalize into the owner's
// timeAcc (nanoseconds) and sizeAcc.
func NewGuardTemplate[T any](timeAcc, sizeAcc CounterField[T]) *GuardTemplate[T] {
	startField := func(g *Guard[T]) *time.Time { return &g.startTime }
	return &GuardTemplate[T]{
		start: ScopeStartMarker(startField),
		recordTime: TimeOnlyRecorder(startField, func(g *Guard[T]) *Counter {
			return &g.elapsed
		}),
		recordSize: SizeAccumulator(func(g *Guard[T]) *Counter {
			return &g.totalSize
		}),
		ownerTime: SizeAccumulator(timeAcc),
		ownerSize: SizeAccumulator(sizeAcc),
	}
}

// Begin starts measuring one operation that accounts for size. The guard
// keeps a reference to owner and finalizes into it on End; a nil owner keeps
// the numbers on the guard only.
func (t *GuardTemplate[T]) Begin(owner *T, size uint64) *Guard[T] {
	g := &Guard[T]{
		tmpl:  t,
		owner: owner,
		size:  size,
	}
	t.start(g)
	return g
}

// Run measures fn. The guard is finalized however fn exits, including by
// panic.
func (t *GuardTemplate[T]) Run(owner *T, size uint64, fn func() error) error {
	g := t.Begin(owner, size)
	defer g.End()
	return fn()
}

// Guard measures a single operation between Begin and End. It has one owner
// and must not be copied or shared.
type Guard[T any] struct {
	tmpl  *GuardTemplate[T]
	owner *T

	size      uint64
	startTime time.Time
	elapsed   Counter
	totalSize Counter
	finalized bool
}

// End finalizes the measurement: the time since Begin goes into the guard's
// elapsed counter, the size given to Begin into its total size, and both are
// then added to the owner's bound accumulators. Only the first call has an
// effect, so End is safe to defer and to call early.
//
// Time is added before size. If either owner addition overflows, End panics
// at that addition; a time added earlier stays, and the guard is finalized.
func (g *Guard[T]) End() {
	if g.finalized {
		return
	}
	g.finalized = true

	g.tmpl.recordTime(g)
	g.tmpl.recordSize(g, g.size)

	if g.owner != nil {
		g.tmpl.ownerTime(g.owner, g.elapsed.Load())
		g.tmpl.ownerSize(g.owner, g.totalSize.Load())
	}
}

// Finalized reports whether End has run.
func (g *Guard[T]) Finalized() bool {
	return g.finalized
}

// Size returns the size the guard was created with.
func (g *Guard[T]) Size() uint64 {
	return g.size
}

// Elapsed returns the finalized duration, or zero before End.
func (g *Guard[T]) Elapsed() time.Duration {
	return g.elapsed.Duration()
}

// TotalSize returns the finalized size, or zero before End.
func (g *Guard[T]) TotalSize() uint64 {
	return g.totalSize.Load()
}
