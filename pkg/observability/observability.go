package observability

import "context"

// Observability bundles the logging, metrics and tracing backends of a
// process. Start exposes the metrics endpoint; Close flushes and stops every
// backend.
type Observability interface {
	Close(ctx context.Context) error
	Logger() Logger
	Meter() Meter
	Start(ctx context.Context) error
	Tracer() Tracer
}
