package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSessionRequest struct {
	Name           string `json:"name" validate:"required,min=1,max=200"`
	SourceLanguage string `json:"source_language" validate:"required,min=2,max=16"`
	TargetLanguage string `json:"target_language" validate:"required,min=2,max=16"`
}

type CreateSessionResponse struct {
	Id uuid.UUID `json:"id"`
}

type SessionResponse struct {
	Id             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	SourceLanguage string     `json:"source_language"`
	TargetLanguage string     `json:"target_language"`
	Status         string     `json:"status"`
	SegmentCount   int64      `json:"segment_count"`
	ViewerCount    int64      `json:"viewer_count"`
	EndedAt        *time.Time `json:"ended_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

type ListSessionsResponse struct {
	Sessions []SessionResponse `json:"sessions"`
	Total    int64             `json:"total"`
}

type UpdateSessionRequest struct {
	Id   uuid.UUID
	Name string `json:"name" validate:"required,min=1,max=200"`
}

type EndSessionResponse struct {
	Id      uuid.UUID `json:"id"`
	EndedAt time.Time `json:"ended_at"`
}
