package observability

import "context"

type Tracer interface {
	Start(ctx context.Context, name string) (context.Context, Span)
}

type Span interface {
	End()
	RecordError(err error)
	SetAttributes(fields ...Field)
}

type nopTracer struct{}

type nopSpan struct{}

// NopTracer returns a Tracer whose spans record nothing.
func NopTracer() Tracer { return nopTracer{} }

func (nopTracer) Start(ctx context.Context, _ string) (context.Context, Span) {
	return ctx, nopSpan{}
}

func (nopSpan) End()                   {}
func (nopSpan) RecordError(error)      {}
func (nopSpan) SetAttributes(...Field) {}
