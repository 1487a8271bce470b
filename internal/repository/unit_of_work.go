package repository

import (
	"context"
	"sync"

	"github.com/jt828/perf-metrics/pkg/circuitbreaker"
	"github.com/jt828/perf-metrics/pkg/idempotency"
	"github.com/jt828/perf-metrics/pkg/retry"
	"gorm.io/gorm"
)

type UnitOfWork interface {
	Commit(ctx context.Context) error
	Abort(ctx context.Context) error
	BlobRepository() BlobRepository
	IdempotencyRecordRepository() idempotency.RecordRepository
}

type transactionDbUnitOfWork struct {
	tx                 *gorm.DB
	cb                 circuitbreaker.CircuitBreaker
	retry              retry.Retry
	decorate           BlobRepositoryDecorator
	blobRepository     BlobRepository
	blobRepositoryOnce sync.Once

	idempotencyRecordRepository     idempotency.RecordRepository
	idempotencyRecordRepositoryOnce sync.Once
}

func (u *transactionDbUnitOfWork) BlobRepository() BlobRepository {
	u.blobRepositoryOnce.Do(func() {
		u.blobRepository = NewBlobRepository(u.tx, u.cb, u.retry)
		if u.decorate != nil {
			u.blobRepository = u.decorate(u.blobRepository)
		}
	})
	return u.blobRepository
}

func (u *transactionDbUnitOfWork) IdempotencyRecordRepository() idempotency.RecordRepository {
	u.idempotencyRecordRepositoryOnce.Do(func() {
		u.idempotencyRecordRepository = NewIdempotencyRecordRepository(u.tx, u.cb, u.retry)
	})
	return u.idempotencyRecordRepository
}

func (u *transactionDbUnitOfWork) Commit(ctx context.Context) error {
	return u.tx.WithContext(ctx).Commit().Error
}

func (u *transactionDbUnitOfWork) Abort(ctx context.Context) error {
	return u.tx.WithContext(ctx).Rollback().Error
}
