package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jt828/perf-metrics/internal/instrument"
	"github.com/jt828/perf-metrics/internal/repository"
	"github.com/jt828/perf-metrics/pkg/apperror"
	"github.com/jt828/perf-metrics/pkg/idempotency"
	"github.com/jt828/perf-metrics/pkg/model"
	"github.com/jt828/perf-metrics/pkg/observability"
	"github.com/jt828/perf-metrics/pkg/snowflake"
)

const MaxKeyLength = 255

type ImportItem struct {
	Key  string
	Data []byte
}

type ImportResult struct {
	Imported int   `json:"imported"`
	Bytes    int64 `json:"bytes"`
}

type BlobService interface {
	Put(ctx context.Context, key string, data []byte) (*model.Blob, error)
	Get(ctx context.Context, key string) (*model.Blob, error)
	Delete(ctx context.Context, key string) error
	// Import writes all items in one transaction. A non-zero idempotencyId
	// makes a repeated request return the first result without writing.
	Import(ctx context.Context, idempotencyId int64, items []ImportItem) (*ImportResult, error)
}

type blobService struct {
	uowFactory  repository.UnitOfWorkFactory
	idempotency idempotency.Idempotency
	snowflake   snowflake.Snowflake
	recorder    *instrument.Recorder
	tracer      observability.Tracer
	maxBlobSize int64
}

func NewBlobService(
	uowFactory repository.UnitOfWorkFactory,
	idempotency idempotency.Idempotency,
	snowflake snowflake.Snowflake,
	recorder *instrument.Recorder,
	tracer observability.Tracer,
	maxBlobSize int64,
) BlobService {
	return &blobService{
		uowFactory:  uowFactory,
		idempotency: idempotency,
		snowflake:   snowflake,
		recorder:    recorder,
		tracer:      tracer,
		maxBlobSize: maxBlobSize,
	}
}

func (s *blobService) Put(ctx context.Context, key string, data []byte) (*model.Blob, error) {
	ctx, span := s.tracer.Start(ctx, "BlobService.Put")
	defer span.End()
	span.SetAttributes(observability.String("blob.key", key), observability.Int("blob.size", len(data)))

	if err := s.validate(key, data); err != nil {
		span.RecordError(err)
		return nil, err
	}

	uow, err := s.uowFactory.New()
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	stored, err := uow.BlobRepository().Upsert(ctx, s.newBlob(key, data))
	if err != nil {
		_ = uow.Abort(ctx)
		span.RecordError(err)
		return nil, err
	}

	if err := uow.Commit(ctx); err != nil {
		span.RecordError(err)
		return nil, err
	}

	return stored, nil
}

func (s *blobService) Get(ctx context.Context, key string) (*model.Blob, error) {
	ctx, span := s.tracer.Start(ctx, "BlobService.Get")
	defer span.End()
	span.SetAttributes(observability.String("blob.key", key))

	if err := validateKey(key); err != nil {
		span.RecordError(err)
		return nil, err
	}

	uow, err := s.uowFactory.New()
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	blob, err := uow.BlobRepository().Get(ctx, key)
	if err != nil {
		_ = uow.Abort(ctx)
		span.RecordError(err)
		return nil, err
	}

	if err := uow.Commit(ctx); err != nil {
		span.RecordError(err)
		return nil, err
	}

	if blob == nil {
		return nil, fmt.Errorf("blob %q: %w", key, apperror.ErrNotFound)
	}
	span.SetAttributes(observability.Int("blob.size", len(blob.Data)))
	return blob, nil
}

func (s *blobService) Delete(ctx context.Context, key string) error {
	ctx, span := s.tracer.Start(ctx, "BlobService.Delete")
	defer span.End()
	span.SetAttributes(observability.String("blob.key", key))

	if err := validateKey(key); err != nil {
		span.RecordError(err)
		return err
	}

	uow, err := s.uowFactory.New()
	if err != nil {
		span.RecordError(err)
		return err
	}

	deleted, err := uow.BlobRepository().Delete(ctx, key)
	if err != nil {
		_ = uow.Abort(ctx)
		span.RecordError(err)
		return err
	}

	if err := uow.Commit(ctx); err != nil {
		span.RecordError(err)
		return err
	}

	if !deleted {
		return fmt.Errorf("blob %q: %w", key, apperror.ErrNotFound)
	}
	return nil
}

func (s *blobService) Import(ctx context.Context, idempotencyId int64, items []ImportItem) (*ImportResult, error) {
	ctx, span := s.tracer.Start(ctx, "BlobService.Import")
	defer span.End()
	span.SetAttributes(observability.Int("import.items", len(items)))

	if len(items) == 0 {
		err := fmt.Errorf("import without items: %w", apperror.ErrInvalidArgument)
		span.RecordError(err)
		return nil, err
	}
	for _, item := range items {
		if err := s.validate(item.Key, item.Data); err != nil {
			span.RecordError(err)
			return nil, err
		}
	}

	uow, err := s.uowFactory.New()
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	var trace *instrument.ImportTrace
	write := func() (any, error) {
		trace = s.recorder.BeginImport()
		result := &ImportResult{}
		for _, item := range items {
			if _, err := uow.BlobRepository().Upsert(ctx, s.newBlob(item.Key, item.Data)); err != nil {
				return nil, err
			}
			trace.Written(len(item.Data))
			result.Imported++
			result.Bytes += int64(len(item.Data))
		}
		return result, nil
	}

	var result any
	if idempotencyId == 0 {
		result, err = write()
	} else {
		result, err = s.idempotency.Execute(ctx, uow.IdempotencyRecordRepository(), idempotencyId,
			idempotency.RequestTypeImportBlobs, s.snowflake.Generate(),
			func() any { return &ImportResult{} }, write)
	}
	if err != nil {
		_ = uow.Abort(ctx)
		span.RecordError(err)
		return nil, err
	}

	if err := uow.Commit(ctx); err != nil {
		span.RecordError(err)
		return nil, err
	}

	// trace stays nil when the result was replayed
	if trace != nil {
		trace.Committed()
		stats := trace.Finish()
		span.SetAttributes(
			observability.Duration("import.write_time", stats.WriteTime),
			observability.Duration("import.commit_time", stats.CommitTime),
		)
	}

	res := result.(*ImportResult)
	span.SetAttributes(observability.Int("import.imported", res.Imported))
	return res, nil
}

func (s *blobService) newBlob(key string, data []byte) *model.Blob {
	if data == nil {
		data = []byte{}
	}
	now := time.Now().UTC()
	return &model.Blob{
		Id:        s.snowflake.Generate(),
		Key:       key,
		Data:      data,
		Size:      int64(len(data)),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *blobService) validate(key string, data []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if int64(len(data)) > s.maxBlobSize {
		return fmt.Errorf("blob %q is %d bytes, limit is %d: %w", key, len(data), s.maxBlobSize, apperror.ErrInvalidArgument)
	}
	return nil
}

func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("empty key: %w", apperror.ErrInvalidArgument)
	}
	if len(key) > MaxKeyLength {
		return fmt.Errorf("key longer than %d bytes: %w", MaxKeyLength, apperror.ErrInvalidArgument)
	}
	return nil
}
