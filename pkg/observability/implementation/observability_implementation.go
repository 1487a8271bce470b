package implementation

import (
	"context"
	"net/http"

	"github.com/jt828/perf-metrics/pkg/observability"
)

type observabilityImplementation struct {
	log    observability.Logger
	meter  observability.Meter
	tracer observability.Tracer

	metricsAddr   string
	metricsServer *http.Server
	traceClose    func(context.Context) error
}

func (o *observabilityImplementation) Close(ctx context.Context) error {
	var err error
	if o.metricsServer != nil {
		err = o.metricsServer.Shutdown(ctx)
	}
	if o.traceClose != nil {
		if e := o.traceClose(ctx); err == nil {
			err = e
		}
	}
	if z, ok := o.log.(*zapLogger); ok {
		_ = z.l.Sync()
	}
	return err
}

func (o *observabilityImplementation) Logger() observability.Logger { return o.log }
func (o *observabilityImplementation) Meter() observability.Meter   { return o.meter }
func (o *observabilityImplementation) Tracer() observability.Tracer { return o.tracer }

func (o *observabilityImplementation) Start(ctx context.Context) error {
	if o.metricsAddr == "" {
		return nil
	}
	if reg := PromRegistry(o.meter); reg != nil {
		o.metricsServer = StartMetricsServer(o.metricsAddr, reg, o.log)
	}
	return nil
}
