package repository

import (
	"context"

	"github.com/jt828/perf-metrics/pkg/circuitbreaker"
	"github.com/jt828/perf-metrics/pkg/idempotency"
	"github.com/jt828/perf-metrics/pkg/model"
	"github.com/jt828/perf-metrics/pkg/retry"
	"gorm.io/gorm"
)

type IdempotencyRecordRepositoryImpl struct {
	db    *gorm.DB
	cb    circuitbreaker.CircuitBreaker
	retry retry.Retry
}

func NewIdempotencyRecordRepository(db *gorm.DB, cb circuitbreaker.CircuitBreaker, retry retry.Retry) idempotency.RecordRepository {
	return &IdempotencyRecordRepositoryImpl{db: db, cb: cb, retry: retry}
}

// Get returns nil without error when no record exists.
func (r *IdempotencyRecordRepositoryImpl) Get(ctx context.Context, id int64) (*idempotency.Record, error) {
	result, err := r.cb.Execute(func() (any, error) {
		var record *idempotency.Record
		err := r.retry.Execute(ctx, func() error {
			var entities []model.IdempotencyRecordDataEntity
			if err := r.db.WithContext(ctx).Where("id = ?", id).Find(&entities).Error; err != nil {
				return err
			}
			if len(entities) == 0 {
				return nil
			}
			domain := entities[0].ToDomain()
			record = &domain
			return nil
		})
		if err != nil {
			return nil, err
		}
		return record, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*idempotency.Record), nil
}

func (r *IdempotencyRecordRepositoryImpl) Insert(ctx context.Context, record *idempotency.Record) error {
	_, err := r.cb.Execute(func() (any, error) {
		err := r.retry.Execute(ctx, func() error {
			entity := model.NewIdempotencyRecordDataEntity(record)
			return r.db.WithContext(ctx).Create(&entity).Error
		})
		return nil, err
	})
	return err
}
