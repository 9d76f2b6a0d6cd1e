package specification

import (
	"time"

	"gorm.io/gorm"
)

type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// IdleSince matches sessions whose last update predates the cutoff.
// Used by lensctl end-stale.
type IdleSince struct {
	Cutoff time.Time
}

func (s IdleSince) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("updated_at < ?", s.Cutoff)
}
