package repository

import (
	"github.com/jt828/perf-metrics/pkg/circuitbreaker"
	"github.com/jt828/perf-metrics/pkg/retry"
	"gorm.io/gorm"
)

type UnitOfWorkFactory interface {
	New() (UnitOfWork, error)
}

// BlobRepositoryDecorator wraps every blob repository handed out by a unit
// of work, e.g. to instrument it.
type BlobRepositoryDecorator func(BlobRepository) BlobRepository

type Option func(*transactionDbUnitOfWorkFactory)

func WithBlobRepositoryDecorator(d BlobRepositoryDecorator) Option {
	return func(f *transactionDbUnitOfWorkFactory) {
		f.decorate = d
	}
}

type transactionDbUnitOfWorkFactory struct {
	db       *gorm.DB
	cb       circuitbreaker.CircuitBreaker
	retry    retry.Retry
	decorate BlobRepositoryDecorator
}

func NewTransactionDbUnitOfWorkFactory(db *gorm.DB, cb circuitbreaker.CircuitBreaker, retry retry.Retry, opts ...Option) UnitOfWorkFactory {
	f := &transactionDbUnitOfWorkFactory{db: db, cb: cb, retry: retry}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *transactionDbUnitOfWorkFactory) New() (UnitOfWork, error) {
	tx := f.db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &transactionDbUnitOfWork{tx: tx, cb: f.cb, retry: f.retry, decorate: f.decorate}, nil
}
