package entity

import (
	"time"

	"github.com/google/uuid"
)

// WordTiming carries word-level timestamps from the speech pipeline.
type WordTiming struct {
	Word    string `json:"word"`
	StartMs int64  `json:"start_ms"`
	EndMs   int64  `json:"end_ms"`
}

// TranscriptSegment is one utterance of a session's transcript, ordered by
// StartMs. Citations embedded in the segment reference pages of the course
// documents that were retrieved for this window of speech.
type TranscriptSegment struct {
	Id             uuid.UUID
	SessionId      uuid.UUID
	Text           string
	TranslatedText *string
	StartMs        int64
	EndMs          int64
	Words          []WordTiming
	Citations      []*Citation
	CreatedAt      time.Time
}
