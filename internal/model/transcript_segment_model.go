package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type TranscriptSegment struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId      uuid.UUID `gorm:"type:uuid;not null;index:idx_segments_session_start,priority:1"`
	Text           string    `gorm:"type:text;not null"`
	TranslatedText *string   `gorm:"type:text"`
	StartMs        int64     `gorm:"not null;index:idx_segments_session_start,priority:2"`
	EndMs          int64     `gorm:"not null"`
	Words          datatypes.JSON
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

func (TranscriptSegment) TableName() string {
	return "transcript_segments"
}
