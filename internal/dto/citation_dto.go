package dto

import (
	"time"

	"github.com/google/uuid"
)

// CitationResponse carries both the display number and the stable identity
// key ("<document>-p<page>"), so a client can highlight the matching
// reference card without re-deriving the key.
type CitationResponse struct {
	Id             uuid.UUID  `json:"id"`
	Number         int        `json:"number"`
	Key            string     `json:"key"`
	DocumentId     *uuid.UUID `json:"document_id,omitempty"`
	DocumentName   string     `json:"document_name"`
	PageNumber     int        `json:"page_number"`
	Snippet        string     `json:"snippet"`
	RelevanceScore float64    `json:"relevance_score"`
	CreatedAt      time.Time  `json:"created_at"`
}

// CitationListResponse is the deduplicated reference list of a session:
// one entry per distinct document+page, ordered by citation number.
type CitationListResponse struct {
	SessionId uuid.UUID          `json:"session_id"`
	Citations []CitationResponse `json:"citations"`
}
