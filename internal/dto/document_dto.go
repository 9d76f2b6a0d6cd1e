package dto

import (
	"time"

	"github.com/google/uuid"
)

type RegisterDocumentRequest struct {
	SessionId  uuid.UUID
	Name       string `json:"name" validate:"required,min=1,max=255"`
	PageCount  int    `json:"page_count" validate:"gte=0"`
	StorageURL string `json:"storage_url"`
}

type RegisterDocumentResponse struct {
	Id uuid.UUID `json:"id"`
}

type DocumentResponse struct {
	Id        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	PageCount int        `json:"page_count"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type ListDocumentsResponse struct {
	Documents []DocumentResponse `json:"documents"`
}

// IndexedChunkPayload is one embedded page slice reported back by the AI
// backend once document indexing finishes.
type IndexedChunkPayload struct {
	PageNumber int       `json:"page_number" validate:"gte=1"`
	Content    string    `json:"content" validate:"required"`
	Embedding  []float32 `json:"embedding" validate:"required"`
}

type ReportIndexedRequest struct {
	DocumentId uuid.UUID             `json:"document_id" validate:"required"`
	Status     string                `json:"status" validate:"required,oneof=ready failed"`
	Chunks     []IndexedChunkPayload `json:"chunks,omitempty"`
}
