package idempotency

import (
	"context"
	"errors"
)

type RequestType string

const RequestTypeImportBlobs RequestType = "import_blobs"

// ErrRequestTypeMismatch is returned when an id is reused for a different
// kind of request.
var ErrRequestTypeMismatch = errors.New("idempotency id already used by another request type")

type RecordRepository interface {
	Get(ctx context.Context, id int64) (*Record, error)
	Insert(ctx context.Context, record *Record) error
}

// Idempotency runs fn at most once per id. A repeated id replays the stored
// result, decoded into the value returned by newResult.
type Idempotency interface {
	Execute(ctx context.Context, repo RecordRepository, id int64, requestType RequestType, referenceId int64, newResult func() any, fn func() (any, error)) (any, error)
}
