package entity

import (
	"time"

	"github.com/google/uuid"
)

// Note is the single structured-notes document of a session. Version starts
// at 1 and increases by exactly one per successful content mutation.
type Note struct {
	Id                        uuid.UUID
	SessionId                 uuid.UUID
	ContentMarkdown           string
	ContentMarkdownTranslated *string
	TargetLanguage            *string
	Version                   int
	GeneratedAt               *time.Time
	LastEditedAt              *time.Time
	CreatedAt                 time.Time
	UpdatedAt                 *time.Time
}
