package retry

import (
	"context"
	"time"
)

type Retry interface {
	Execute(ctx context.Context, fn func() error) error
}

type Config struct {
	RetryableFn func(err error) bool
	OnRetry     func(attempt uint64, err error)
	Interval    time.Duration
	MaxInterval time.Duration
}

type Option func(*Config)

func WithRetryable(fn func(err error) bool) Option {
	return func(c *Config) {
		c.RetryableFn = fn
	}
}

// WithOnRetry registers a hook called after every retryable failure with the
// 1-based number of the attempt that failed.
func WithOnRetry(fn func(attempt uint64, err error)) Option {
	return func(c *Config) {
		c.OnRetry = fn
	}
}

func WithInterval(d time.Duration) Option {
	return func(c *Config) {
		c.Interval = d
	}
}

// WithMaxInterval caps the exponential backoff. Zero means uncapped.
func WithMaxInterval(d time.Duration) Option {
	return func(c *Config) {
		c.MaxInterval = d
	}
}

func ApplyOptions(opts ...Option) *Config {
	c := &Config{Interval: 10 * time.Millisecond}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
