package model

import (
	"time"

	"github.com/google/uuid"
)

type Note struct {
	Id                        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId                 uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"` // At most one note per session
	ContentMarkdown           string    `gorm:"type:text"`
	ContentMarkdownTranslated *string   `gorm:"type:text"`
	TargetLanguage            *string   `gorm:"type:varchar(16)"`
	Version                   int       `gorm:"not null;default:1"`
	GeneratedAt               *time.Time
	LastEditedAt              *time.Time
	CreatedAt                 time.Time `gorm:"autoCreateTime"`
	UpdatedAt                 time.Time `gorm:"autoUpdateTime"`
}

func (Note) TableName() string {
	return "notes"
}
