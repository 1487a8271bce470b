package model

import "time"

func (dataEntity *BlobDataEntity) ToDomain() Blob {
	return Blob(*dataEntity)
}

type BlobDataEntity struct {
	Id        int64     `gorm:"column:id"`
	Key       string    `gorm:"column:key;uniqueIndex"`
	Data      []byte    `gorm:"column:data"`
	Size      int64     `gorm:"column:size"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (dataEntity *BlobDataEntity) TableName() string {
	return "main.blobs"
}

type Blob struct {
	Id        int64
	Key       string
	Data      []byte
	Size      int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (b *Blob) ToDataEntity() BlobDataEntity {
	return BlobDataEntity(*b)
}
