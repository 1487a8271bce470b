//go:build enable_execution_duration_record

package instrument

import (
	"context"
	"errors"

	"github.com/jt828/perf-metrics/internal/repository"
	"github.com/jt828/perf-metrics/pkg/apperror"
	"github.com/jt828/perf-metrics/pkg/model"
)

type instrumentedBlobRepository struct {
	inner repository.BlobRepository
	rec   *Recorder
}

// WrapBlobRepository measures every call of inner into rec. Get is counted
// once per call plus the bytes it returned, Put by the bytes written and
// Delete once per call. Failed calls are timed and counted as errors.
func WrapBlobRepository(inner repository.BlobRepository, rec *Recorder) repository.BlobRepository {
	return &instrumentedBlobRepository{inner: inner, rec: rec}
}

func (r *instrumentedBlobRepository) Get(ctx context.Context, key string) (*model.Blob, error) {
	g := r.rec.store.beginGet(1)
	defer r.rec.end(g)

	blob, err := r.inner.Get(ctx, key)
	r.observe(err)
	if blob != nil {
		r.rec.update(func(m *StoreMetrics) { m.recordGetBytes(uint64(len(blob.Data))) })
	}
	return blob, err
}

func (r *instrumentedBlobRepository) Upsert(ctx context.Context, blob *model.Blob) (*model.Blob, error) {
	g := r.rec.store.beginPut(uint64(len(blob.Data)))
	defer r.rec.end(g)

	stored, err := r.inner.Upsert(ctx, blob)
	r.observe(err)
	r.rec.update(func(m *StoreMetrics) { m.recordPutCount(1) })
	return stored, err
}

func (r *instrumentedBlobRepository) Delete(ctx context.Context, key string) (bool, error) {
	g := r.rec.store.beginDelete(1)
	defer r.rec.end(g)

	deleted, err := r.inner.Delete(ctx, key)
	r.observe(err)
	return deleted, err
}

func (r *instrumentedBlobRepository) observe(err error) {
	if err == nil || errors.Is(err, apperror.ErrNotFound) {
		return
	}
	r.rec.update(func(m *StoreMetrics) { m.recordErrors(1) })
}
