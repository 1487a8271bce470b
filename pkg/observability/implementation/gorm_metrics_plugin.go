package implementation

import (
	"context"
	"errors"
	"time"

	"github.com/jt828/perf-metrics/pkg/observability"
	"gorm.io/gorm"
)

type metricsStartTimeKey struct{}

// GormMetricsPlugin reports per-statement latency, rows and errors. Callbacks
// run on the goroutine that issued the statement, so the start time travels
// in the statement context.
type GormMetricsPlugin struct {
	queryLatency observability.Histogram
	queryTotal   observability.Counter
	queryErrors  observability.Counter
	rowsAffected observability.Counter
}

func NewGormMetricsPlugin(meter observability.Meter) *GormMetricsPlugin {
	labels := []string{"operation", "table"}
	return &GormMetricsPlugin{
		queryLatency: meter.Histogram("gorm_query_duration_seconds", observability.MetricOpt{
			Help:      "Duration of GORM statements in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			LabelKeys: labels,
		}),
		queryTotal: meter.Counter("gorm_query_total", observability.MetricOpt{
			Help:      "Total number of GORM statements",
			LabelKeys: labels,
		}),
		queryErrors: meter.Counter("gorm_query_errors_total", observability.MetricOpt{
			Help:      "Total number of failed GORM statements, record-not-found excluded",
			LabelKeys: labels,
		}),
		rowsAffected: meter.Counter("gorm_rows_affected_total", observability.MetricOpt{
			Help:      "Rows returned or changed by GORM statements",
			LabelKeys: labels,
		}),
	}
}

func (p *GormMetricsPlugin) Name() string {
	return "metrics"
}

func (p *GormMetricsPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	for _, err := range []error{
		cb.Create().Before("gorm:create").Register("metrics:before_create", p.before),
		cb.Create().After("gorm:create").Register("metrics:after_create", p.after("create")),
		cb.Query().Before("gorm:query").Register("metrics:before_query", p.before),
		cb.Query().After("gorm:query").Register("metrics:after_query", p.after("query")),
		cb.Update().Before("gorm:update").Register("metrics:before_update", p.before),
		cb.Update().After("gorm:update").Register("metrics:after_update", p.after("update")),
		cb.Delete().Before("gorm:delete").Register("metrics:before_delete", p.before),
		cb.Delete().After("gorm:delete").Register("metrics:after_delete", p.after("delete")),
		cb.Row().Before("gorm:row").Register("metrics:before_row", p.before),
		cb.Row().After("gorm:row").Register("metrics:after_row", p.after("row")),
		cb.Raw().Before("gorm:raw").Register("metrics:before_raw", p.before),
		cb.Raw().After("gorm:raw").Register("metrics:after_raw", p.after("raw")),
	} {
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *GormMetricsPlugin) before(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		ctx = context.Background()
	}
	db.Statement.Context = context.WithValue(ctx, metricsStartTimeKey{}, time.Now())
}

func (p *GormMetricsPlugin) after(operation string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		labels := []observability.Label{
			observability.OperationLabel(operation),
			{Key: "table", Value: db.Statement.Table},
		}

		p.queryTotal.Inc(1, labels...)

		if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
			p.queryErrors.Inc(1, labels...)
		}
		if db.RowsAffected > 0 {
			p.rowsAffected.Inc(float64(db.RowsAffected), labels...)
		}

		startTime, ok := db.Statement.Context.Value(metricsStartTimeKey{}).(time.Time)
		if ok {
			p.queryLatency.Observe(time.Since(startTime).Seconds(), labels...)
		}
	}
}
