package dto

import (
	"time"

	"github.com/google/uuid"
)

type NoteResponse struct {
	Id                        uuid.UUID  `json:"id"`
	SessionId                 uuid.UUID  `json:"session_id"`
	ContentMarkdown           string     `json:"content_markdown"`
	ContentMarkdownTranslated *string    `json:"content_markdown_translated,omitempty"`
	TargetLanguage            *string    `json:"target_language,omitempty"`
	Version                   int        `json:"version"`
	GeneratedAt               *time.Time `json:"generated_at,omitempty"`
	LastEditedAt              *time.Time `json:"last_edited_at,omitempty"`
	CreatedAt                 time.Time  `json:"created_at"`
	UpdatedAt                 *time.Time `json:"updated_at,omitempty"`
}

// UpsertNoteRequest saves edited content. Pointer fields that arrive nil
// mean "leave unchanged", so a save that omits the translated column never
// wipes it.
type UpsertNoteRequest struct {
	SessionId                 uuid.UUID
	ContentMarkdown           string  `json:"content_markdown" validate:"required"`
	ContentMarkdownTranslated *string `json:"content_markdown_translated,omitempty"`
	TargetLanguage            *string `json:"target_language,omitempty"`
}

type UpsertNoteResponse struct {
	Id      uuid.UUID `json:"id"`
	Version int       `json:"version"`
}

type GenerateNoteRequest struct {
	SessionId uuid.UUID
	Force     bool `json:"force"`
}

// NoteStatusResponse also reports the AI backend's warmup state so a client
// triggering generation can show the cold-start wait instead of a stall.
type NoteStatusResponse struct {
	State          string     `json:"state"`
	BackendState   string     `json:"backend_state,omitempty"`
	Dirty          bool       `json:"dirty"`
	Version        int        `json:"version"`
	Progress       float64    `json:"progress"`
	PendingConfirm bool       `json:"pending_confirm"`
	LastSavedAt    *time.Time `json:"last_saved_at,omitempty"`
	LastError      string     `json:"last_error,omitempty"`
}

// UpsertGeneratedNoteRequest is the trusted-channel version posted by the
// AI backend when generation completes out-of-band.
type UpsertGeneratedNoteRequest struct {
	SessionId                 uuid.UUID `json:"session_id" validate:"required"`
	ContentMarkdown           string    `json:"content_markdown" validate:"required"`
	ContentMarkdownTranslated *string   `json:"content_markdown_translated,omitempty"`
	TargetLanguage            *string   `json:"target_language,omitempty"`
}

type ExportNoteResponse struct {
	Format      string `json:"format"` // "pdf" or "markdown" fallback
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}
