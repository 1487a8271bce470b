package implementation

import (
	"github.com/jt828/perf-metrics/pkg/circuitbreaker"
	"github.com/sony/gobreaker/v2"
)

type gobreakerCircuitBreaker struct {
	cb *gobreaker.CircuitBreaker[any]
}

func NewCircuitBreaker(cfg circuitbreaker.Config) circuitbreaker.CircuitBreaker {
	settings := gobreaker.Settings{
		Name:         cfg.Name,
		Timeout:      cfg.Timeout,
		MaxRequests:  cfg.MaxRequests,
		IsSuccessful: cfg.IsSuccessful,
	}
	if threshold := cfg.ConsecutiveFailures; threshold > 0 {
		settings.ReadyToTrip = func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		}
	}
	if cfg.IsSuccessful != nil {
		settings.IsSuccessful = func(err error) bool {
			return err == nil || cfg.IsSuccessful(err)
		}
	}
	if onChange := cfg.OnStateChange; onChange != nil {
		settings.OnStateChange = func(name string, from, to gobreaker.State) {
			onChange(name, toState(from), toState(to))
		}
	}

	return &gobreakerCircuitBreaker{
		cb: gobreaker.NewCircuitBreaker[any](settings),
	}
}

func (g *gobreakerCircuitBreaker) Execute(fn func() (any, error)) (any, error) {
	return g.cb.Execute(fn)
}

func (g *gobreakerCircuitBreaker) State() circuitbreaker.State {
	return toState(g.cb.State())
}

func toState(s gobreaker.State) circuitbreaker.State {
	switch s {
	case gobreaker.StateHalfOpen:
		return circuitbreaker.HalfOpen
	case gobreaker.StateOpen:
		return circuitbreaker.Open
	default:
		return circuitbreaker.Closed
	}
}
