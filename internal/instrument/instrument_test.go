package instrument_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jt828/perf-metrics/internal/repository"
	"github.com/jt828/perf-metrics/pkg/model"
	"github.com/jt828/perf-metrics/pkg/observability"
	"github.com/stretchr/testify/require"
)

func mustUpsert(t *testing.T, ctx context.Context, repo repository.BlobRepository, blob *model.Blob) *model.Blob {
	t.Helper()
	stored, err := repo.Upsert(ctx, blob)
	require.NoError(t, err)
	return stored
}

// fakeBlobRepository serves blobs from memory after an optional delay.
type fakeBlobRepository struct {
	mu    sync.Mutex
	blobs map[string]*model.Blob
	delay time.Duration
	err   error
	panic bool
}

func newFakeBlobRepository() *fakeBlobRepository {
	return &fakeBlobRepository{blobs: map[string]*model.Blob{}}
}

func (f *fakeBlobRepository) wait() error {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.panic {
		panic("storage engine crashed")
	}
	return f.err
}

func (f *fakeBlobRepository) Get(ctx context.Context, key string) (*model.Blob, error) {
	if err := f.wait(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.blobs[key], nil
}

func (f *fakeBlobRepository) Upsert(ctx context.Context, blob *model.Blob) (*model.Blob, error) {
	if err := f.wait(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blobs[blob.Key] = blob
	return blob, nil
}

func (f *fakeBlobRepository) Delete(ctx context.Context, key string) (bool, error) {
	if err := f.wait(); err != nil {
		return false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.blobs[key]
	delete(f.blobs, key)
	return ok, nil
}

type fakeMeter struct {
	mu       sync.Mutex
	counters map[string]*fakeCounter
	gauges   map[string]*fakeGauge
}

func newFakeMeter() *fakeMeter {
	return &fakeMeter{counters: map[string]*fakeCounter{}, gauges: map[string]*fakeGauge{}}
}

func (m *fakeMeter) Counter(name string, _ ...observability.MetricOpt) observability.Counter {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := &fakeCounter{values: map[string]float64{}}
	m.counters[name] = c
	return c
}

func (m *fakeMeter) Histogram(name string, _ ...observability.MetricOpt) observability.Histogram {
	return nil
}

func (m *fakeMeter) Gauge(name string, _ ...observability.MetricOpt) observability.Gauge {
	m.mu.Lock()
	defer m.mu.Unlock()
	g := &fakeGauge{}
	m.gauges[name] = g
	return g
}

// value returns the counter total for the given label value, "" for none.
func (m *fakeMeter) value(name, label string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters[name].get(label)
}

type fakeCounter struct {
	mu     sync.Mutex
	values map[string]float64
}

func (c *fakeCounter) Inc(v float64, labels ...observability.Label) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := ""
	if len(labels) > 0 {
		key = labels[0].Value
	}
	c.values[key] += v
}

func (c *fakeCounter) get(label string) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values[label]
}

type fakeGauge struct {
	v float64
}

func (g *fakeGauge) Set(v float64, _ ...observability.Label) { g.v = v }
func (g *fakeGauge) Add(v float64, _ ...observability.Label) { g.v += v }
