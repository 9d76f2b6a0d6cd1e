package entity

import (
	"time"

	"github.com/google/uuid"
)

// Citation links a transcript moment to a page of a course document.
// Rows are immutable once inserted; display uniqueness is derived from
// (DocumentName, PageNumber), never stored.
type Citation struct {
	Id             uuid.UUID
	SessionId      uuid.UUID
	SegmentId      *uuid.UUID
	DocumentId     *uuid.UUID
	DocumentName   string
	PageNumber     int
	Snippet        string
	RelevanceScore float64
	Rank           int
	CreatedAt      time.Time
}
