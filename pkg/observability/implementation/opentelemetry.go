package implementation

import (
	"context"
	"fmt"
	"time"

	"github.com/jt828/perf-metrics/pkg/observability"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

type otelTracer struct {
	tracer trace.Tracer
}

type otelSpan struct {
	span trace.Span
}

func (s otelSpan) End() { s.span.End() }

func (s otelSpan) RecordError(err error) {
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

func (s otelSpan) SetAttributes(fields ...observability.Field) {
	s.span.SetAttributes(toAttributes(fields)...)
}

func (t otelTracer) Start(
	ctx context.Context,
	name string,
) (context.Context, observability.Span) {
	ctx, span := t.tracer.Start(ctx, name)
	return ctx, otelSpan{span}
}

// NewOtelTracerFromProvider is used by tests with an in-memory span recorder.
func NewOtelTracerFromProvider(tp trace.TracerProvider, serviceName string) observability.Tracer {
	return otelTracer{tracer: tp.Tracer(serviceName)}
}

func NewOtelTracer(
	ctx context.Context,
	serviceName string,
	serviceVersion string,
	endpoint string,
) (observability.Tracer, func(ctx context.Context) error, error) {
	exp, err := otlptracegrpc.New(
		ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, nil, err
	}

	res, err := resource.New(
		ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)

	return otelTracer{tracer: otel.Tracer(serviceName)},
		func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return tp.Shutdown(ctx)
		},
		nil
}

func toAttributes(fields []observability.Field) []attribute.KeyValue {
	out := make([]attribute.KeyValue, 0, len(fields))
	for _, f := range fields {
		switch v := f.Value.(type) {
		case string:
			out = append(out, attribute.String(f.Key, v))
		case int:
			out = append(out, attribute.Int(f.Key, v))
		case int64:
			out = append(out, attribute.Int64(f.Key, v))
		case uint64:
			out = append(out, attribute.Int64(f.Key, int64(v)))
		case bool:
			out = append(out, attribute.Bool(f.Key, v))
		case time.Duration:
			out = append(out, attribute.Int64(f.Key+"_ns", v.Nanoseconds()))
		case error:
			out = append(out, attribute.String(f.Key, v.Error()))
		default:
			out = append(out, attribute.String(f.Key, fmt.Sprint(v)))
		}
	}
	return out
}
