package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Session struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId         uuid.UUID `gorm:"type:uuid;not null;index"` // Owner; every access check resolves through this
	Name           string    `gorm:"type:varchar(255);not null"`
	SourceLanguage string    `gorm:"type:varchar(16);not null"`
	TargetLanguage string    `gorm:"type:varchar(16);not null"`
	Status         string    `gorm:"type:varchar(16);not null;default:'active';index"`
	EndedAt        *time.Time
	CreatedAt      time.Time      `gorm:"autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime"`
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

func (Session) TableName() string {
	return "sessions"
}
