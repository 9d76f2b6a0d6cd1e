package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type Document struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId  uuid.UUID `gorm:"type:uuid;not null;index"`
	Name       string    `gorm:"type:varchar(255);not null"`
	PageCount  int       `gorm:"not null;default:0"`
	StorageURL string    `gorm:"type:text"`
	Status     string    `gorm:"type:varchar(16);not null;default:'uploading'"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (Document) TableName() string {
	return "documents"
}

type DocumentChunk struct {
	Id         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DocumentId uuid.UUID       `gorm:"type:uuid;not null;index"`
	PageNumber int             `gorm:"not null"`
	Content    string          `gorm:"type:text;not null"`
	Embedding  pgvector.Vector `gorm:"type:vector(768)"`
	CreatedAt  time.Time       `gorm:"autoCreateTime"`

	Document *Document `gorm:"foreignKey:DocumentId;references:Id;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (DocumentChunk) TableName() string {
	return "document_chunks"
}
