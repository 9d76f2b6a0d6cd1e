package entity

import (
	"time"

	"github.com/google/uuid"
)

type DocumentStatus string

const (
	DocumentStatusUploading DocumentStatus = "uploading"
	DocumentStatusIndexing  DocumentStatus = "indexing"
	DocumentStatusReady     DocumentStatus = "ready"
	DocumentStatusFailed    DocumentStatus = "failed"
)

// Document is a course material uploaded for a session. Indexing (chunking,
// embedding) happens in the external AI backend, which reports chunks back
// through the trusted channel.
type Document struct {
	Id         uuid.UUID
	SessionId  uuid.UUID
	Name       string
	PageCount  int
	StorageURL string
	Status     DocumentStatus
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}

// DocumentChunk is a page-scoped slice of a document with its embedding.
// Written only by the trusted backend path.
type DocumentChunk struct {
	Id         uuid.UUID
	DocumentId uuid.UUID
	PageNumber int
	Content    string
	Embedding  []float32
	CreatedAt  time.Time
}
