package dto

import "github.com/google/uuid"

// Messages carried on the in-process bus between ingest and live delivery.

type PublishSegmentMessage struct {
	SessionId uuid.UUID `json:"session_id"`
	SegmentId uuid.UUID `json:"segment_id"`
}

type PublishNoteReadyMessage struct {
	SessionId uuid.UUID `json:"session_id"`
	Version   int       `json:"version"`
}
