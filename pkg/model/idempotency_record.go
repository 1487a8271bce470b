package model

import (
	"time"

	"github.com/jt828/perf-metrics/pkg/idempotency"
)

func (dataEntity *IdempotencyRecordDataEntity) ToDomain() idempotency.Record {
	return idempotency.Record{
		Id:           dataEntity.Id,
		RequestType:  idempotency.RequestType(dataEntity.RequestType),
		ReferenceId:  dataEntity.ReferenceId,
		ResponseData: dataEntity.ResponseData,
		CreatedAt:    dataEntity.CreatedAt,
	}
}

func NewIdempotencyRecordDataEntity(record *idempotency.Record) IdempotencyRecordDataEntity {
	return IdempotencyRecordDataEntity{
		Id:           record.Id,
		RequestType:  string(record.RequestType),
		ReferenceId:  record.ReferenceId,
		ResponseData: record.ResponseData,
		CreatedAt:    record.CreatedAt,
	}
}

type IdempotencyRecordDataEntity struct {
	Id           int64     `gorm:"column:id"`
	RequestType  string    `gorm:"column:request_type"`
	ReferenceId  int64     `gorm:"column:reference_id"`
	ResponseData string    `gorm:"column:response_data"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (dataEntity *IdempotencyRecordDataEntity) TableName() string {
	return "main.idempotency_records"
}
