package implementation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jt828/perf-metrics/pkg/idempotency"
)

type idempotencyImpl struct {
	now func() time.Time
}

func NewIdempotency() idempotency.Idempotency {
	return &idempotencyImpl{now: func() time.Time { return time.Now().UTC() }}
}

func (i *idempotencyImpl) Execute(
	ctx context.Context,
	repo idempotency.RecordRepository,
	id int64,
	requestType idempotency.RequestType,
	referenceId int64,
	newResult func() any,
	fn func() (any, error),
) (any, error) {
	record, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if record != nil {
		if record.RequestType != requestType {
			return nil, fmt.Errorf("id %d: %w", id, idempotency.ErrRequestTypeMismatch)
		}
		result := newResult()
		if err := json.Unmarshal([]byte(record.ResponseData), result); err != nil {
			return nil, fmt.Errorf("decoding stored result %d: %w", id, err)
		}
		return result, nil
	}

	result, err := fn()
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}

	err = repo.Insert(ctx, &idempotency.Record{
		Id:           id,
		RequestType:  requestType,
		ReferenceId:  referenceId,
		ResponseData: string(data),
		CreatedAt:    i.now(),
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
