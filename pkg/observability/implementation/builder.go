package implementation

import (
	"context"

	"github.com/jt828/perf-metrics/pkg/observability"
)

type Config struct {
	ServiceName    string
	ServiceVersion string
	LogLevel       string
	MetricsAddr    string
	// OTLPEndpoint disables tracing when empty.
	OTLPEndpoint string
}

func NewObservability(ctx context.Context, cfg Config) (observability.Observability, error) {
	log, err := NewZapLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	log = log.With(observability.String("service", cfg.ServiceName))

	meter := NewPrometheusMeter()

	obs := &observabilityImplementation{
		log:         log,
		meter:       meter,
		tracer:      observability.NopTracer(),
		metricsAddr: cfg.MetricsAddr,
	}

	if cfg.OTLPEndpoint == "" {
		log.Warn("no otlp endpoint configured; tracing disabled")
		return obs, nil
	}

	tracer, shutdown, err := NewOtelTracer(ctx, cfg.ServiceName, cfg.ServiceVersion, cfg.OTLPEndpoint)
	if err != nil {
		return nil, err
	}
	obs.tracer = tracer
	obs.traceClose = shutdown

	return obs, nil
}
