package dto

import (
	"time"

	"github.com/google/uuid"
)

type WordTimingPayload struct {
	Word    string `json:"word"`
	StartMs int64  `json:"start_ms"`
	EndMs   int64  `json:"end_ms"`
}

// IngestSegmentRequest is posted by the AI backend over the trusted channel
// as speech is transcribed. Citations ride along with the segment they were
// retrieved for.
type IngestSegmentRequest struct {
	SessionId      uuid.UUID               `json:"session_id" validate:"required"`
	Text           string                  `json:"text" validate:"required"`
	TranslatedText *string                 `json:"translated_text,omitempty"`
	StartMs        int64                   `json:"start_ms" validate:"gte=0"`
	EndMs          int64                   `json:"end_ms" validate:"gtefield=StartMs"`
	Words          []WordTimingPayload     `json:"words,omitempty"`
	Citations      []IngestCitationPayload `json:"citations,omitempty"`
}

type IngestCitationPayload struct {
	DocumentId     *uuid.UUID `json:"document_id,omitempty"`
	DocumentName   string     `json:"document_name" validate:"required"`
	PageNumber     int        `json:"page_number" validate:"gte=1"`
	Snippet        string     `json:"snippet"`
	RelevanceScore float64    `json:"relevance_score"`
	Rank           int        `json:"rank"`
}

type IngestSegmentResponse struct {
	SegmentId uuid.UUID `json:"segment_id"`
}

type SegmentResponse struct {
	Id             uuid.UUID           `json:"id"`
	Text           string              `json:"text"`
	TranslatedText *string             `json:"translated_text,omitempty"`
	StartMs        int64               `json:"start_ms"`
	EndMs          int64               `json:"end_ms"`
	Words          []WordTimingPayload `json:"words,omitempty"`
	Citations      []CitationResponse  `json:"citations,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
}

type TranscriptResponse struct {
	SessionId uuid.UUID         `json:"session_id"`
	Segments  []SegmentResponse `json:"segments"`
	Total     int64             `json:"total"`
}
