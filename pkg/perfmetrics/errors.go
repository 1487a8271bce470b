//go:build enable_execution_duration_record

package perfmetrics

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrOverflow is the only failure of this package. It is raised as a panic,
// never returned.
var ErrOverflow = errors.New("perfmetrics: accumulator overflow")

// OverflowError describes the addition that would have exceeded the range of
// a Counter.
type OverflowError struct {
	Current uint64
	Delta   uint64
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("%v: current=%d delta=%d", ErrOverflow, e.Current, e.Delta)
}

func (e *OverflowError) Unwrap() error {
	return ErrOverflow
}

func overflow(current, delta uint64) error {
	return errors.WithStack(&OverflowError{Current: current, Delta: delta})
}
