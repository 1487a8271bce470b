package idempotency

import "time"

type Record struct {
	Id           int64
	RequestType  RequestType
	ReferenceId  int64
	ResponseData string
	CreatedAt    time.Time
}
