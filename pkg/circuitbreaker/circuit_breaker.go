package circuitbreaker

import "time"

type State int

const (
	Closed State = iota
	HalfOpen
	Open
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case HalfOpen:
		return "half-open"
	case Open:
		return "open"
	default:
		return "unknown"
	}
}

type CircuitBreaker interface {
	Execute(fn func() (any, error)) (any, error)
	State() State
}

// Config describes when a breaker trips and how it recovers.
type Config struct {
	Name string
	// ConsecutiveFailures trips the breaker once reached. Zero keeps the
	// library default.
	ConsecutiveFailures uint32
	// Timeout is how long the breaker stays open before probing.
	Timeout time.Duration
	// MaxRequests is the number of probes allowed while half-open.
	MaxRequests uint32
	// IsSuccessful reports errors that must not count as failures, e.g.
	// a missing row.
	IsSuccessful func(err error) bool
	// OnStateChange is called on every transition.
	OnStateChange func(name string, from, to State)
}
