package entity

import (
	"time"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	SessionStatusActive SessionStatus = "active"
	SessionStatusEnded  SessionStatus = "ended"
)

// Session is a single lecture recording/translation instance owned by one
// user. Ending a session makes it read-only for segment and citation ingest.
type Session struct {
	Id             uuid.UUID
	UserId         uuid.UUID
	Name           string
	SourceLanguage string
	TargetLanguage string
	Status         SessionStatus
	EndedAt        *time.Time
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	DeletedAt      *time.Time
	IsDeleted      bool
}

func (s *Session) IsActive() bool {
	return s.Status == SessionStatusActive
}
