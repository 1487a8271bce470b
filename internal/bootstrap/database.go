package bootstrap

import (
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jt828/perf-metrics/internal/config"
	"github.com/jt828/perf-metrics/internal/instrument"
	"github.com/jt828/perf-metrics/internal/repository"
	"github.com/jt828/perf-metrics/pkg/apperror"
	"github.com/jt828/perf-metrics/pkg/circuitbreaker"
	cbImpl "github.com/jt828/perf-metrics/pkg/circuitbreaker/implementation"
	"github.com/jt828/perf-metrics/pkg/observability"
	obsImpl "github.com/jt828/perf-metrics/pkg/observability/implementation"
	"github.com/jt828/perf-metrics/pkg/retry"
	retryImpl "github.com/jt828/perf-metrics/pkg/retry/implementation"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Database struct {
	DB                *gorm.DB
	CircuitBreaker    circuitbreaker.CircuitBreaker
	UnitOfWorkFactory repository.UnitOfWorkFactory
}

// InitializeDatabase opens the store and builds a unit of work factory whose
// blob repositories are measured into rec.
func InitializeDatabase(cfg config.Config, obs observability.Observability, rec *instrument.Recorder) (*Database, error) {
	log := obs.Logger().With(observability.String("component", "database"))

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Use(obsImpl.NewGormMetricsPlugin(obs.Meter())); err != nil {
		return nil, err
	}

	cb := cbImpl.NewCircuitBreaker(circuitbreaker.Config{
		Name:                "postgresql",
		ConsecutiveFailures: cfg.Storage.Breaker.ConsecutiveFailures,
		Timeout:             cfg.Storage.Breaker.Timeout,
		IsSuccessful: func(err error) bool {
			return errors.Is(err, apperror.ErrNotFound)
		},
		OnStateChange: func(name string, from, to circuitbreaker.State) {
			log.Warn("circuit breaker state changed",
				observability.String("breaker", name),
				observability.String("from", from.String()),
				observability.String("to", to.String()),
			)
		},
	})

	r := retryImpl.NewRetry(cfg.Storage.Retry.MaxRetries,
		retry.WithInterval(cfg.Storage.Retry.Interval),
		retry.WithMaxInterval(cfg.Storage.Retry.MaxInterval),
		retry.WithRetryable(IsRetryable),
		retry.WithOnRetry(func(attempt uint64, err error) {
			log.Warn("retrying database call", observability.Uint64("attempt", attempt), observability.Err(err))
		}),
	)

	uowFactory := repository.NewTransactionDbUnitOfWorkFactory(db, cb, r,
		repository.WithBlobRepositoryDecorator(func(inner repository.BlobRepository) repository.BlobRepository {
			return instrument.WrapBlobRepository(inner, rec)
		}),
	)

	return &Database{
		DB:                db,
		CircuitBreaker:    cb,
		UnitOfWorkFactory: uowFactory,
	}, nil
}

// IsRetryable reports transient PostgreSQL and network failures.
func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001": // serialization_failure
			return true
		case "40P01": // deadlock_detected
			return true
		case "08006": // connection_failure
			return true
		case "08001": // sqlclient_unable_to_establish_sqlconnection
			return true
		case "08004": // sqlserver_rejected_establishment_of_sqlconnection
			return true
		}
	}

	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
