package model

import (
	"time"

	"github.com/google/uuid"
)

type Citation struct {
	Id             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId      uuid.UUID  `gorm:"type:uuid;not null;index"`
	SegmentId      *uuid.UUID `gorm:"type:uuid;index"`
	DocumentId     *uuid.UUID `gorm:"type:uuid;index"`
	DocumentName   string     `gorm:"type:varchar(255);not null"`
	PageNumber     int        `gorm:"not null"`
	Snippet        string     `gorm:"type:text"`
	RelevanceScore float64    `gorm:"not null;default:0"`
	Rank           int        `gorm:"not null;default:0"`
	CreatedAt      time.Time  `gorm:"autoCreateTime"`

	// Relationships
	Session *Session           `gorm:"foreignKey:SessionId;references:Id;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Segment *TranscriptSegment `gorm:"foreignKey:SegmentId;references:Id;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (Citation) TableName() string {
	return "citations"
}
