package repository

import (
	"context"

	"github.com/jt828/perf-metrics/pkg/circuitbreaker"
	"github.com/jt828/perf-metrics/pkg/model"
	"github.com/jt828/perf-metrics/pkg/retry"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BlobRepository interface {
	Get(ctx context.Context, key string) (*model.Blob, error)
	Upsert(ctx context.Context, blob *model.Blob) (*model.Blob, error)
	Delete(ctx context.Context, key string) (bool, error)
}

type BlobRepositoryImpl struct {
	db    *gorm.DB
	cb    circuitbreaker.CircuitBreaker
	retry retry.Retry
}

func NewBlobRepository(db *gorm.DB, cb circuitbreaker.CircuitBreaker, retry retry.Retry) BlobRepository {
	return &BlobRepositoryImpl{db: db, cb: cb, retry: retry}
}

// Get returns nil without error for a missing key.
func (r *BlobRepositoryImpl) Get(ctx context.Context, key string) (*model.Blob, error) {
	result, err := r.cb.Execute(func() (any, error) {
		var blob *model.Blob
		err := r.retry.Execute(ctx, func() error {
			var entities []model.BlobDataEntity
			if err := r.db.WithContext(ctx).Where("key = ?", key).Find(&entities).Error; err != nil {
				return err
			}
			if len(entities) == 0 {
				return nil
			}
			b := entities[0].ToDomain()
			blob = &b
			return nil
		})
		if err != nil {
			return nil, err
		}
		return blob, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*model.Blob), nil
}

// Upsert inserts the blob or, when the key exists, replaces its data, size
// and update time. It returns the stored row, which keeps the id and creation
// time of an existing key.
func (r *BlobRepositoryImpl) Upsert(ctx context.Context, blob *model.Blob) (*model.Blob, error) {
	result, err := r.cb.Execute(func() (any, error) {
		var stored *model.Blob
		err := r.retry.Execute(ctx, func() error {
			entity := blob.ToDataEntity()
			err := r.db.WithContext(ctx).
				Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "key"}},
					DoUpdates: clause.AssignmentColumns([]string{"data", "size", "updated_at"}),
				}, clause.Returning{}).
				Create(&entity).Error
			if err != nil {
				return err
			}
			b := entity.ToDomain()
			stored = &b
			return nil
		})
		if err != nil {
			return nil, err
		}
		return stored, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*model.Blob), nil
}

func (r *BlobRepositoryImpl) Delete(ctx context.Context, key string) (bool, error) {
	result, err := r.cb.Execute(func() (any, error) {
		var deleted bool
		err := r.retry.Execute(ctx, func() error {
			res := r.db.WithContext(ctx).Where("key = ?", key).Delete(&model.BlobDataEntity{})
			if res.Error != nil {
				return res.Error
			}
			deleted = res.RowsAffected > 0
			return nil
		})
		if err != nil {
			return nil, err
		}
		return deleted, nil
	})
	if err != nil {
		return false, err
	}
	return result.(bool), nil
}
