package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderByStartTime orders segments by their start offset; the citation
// number registry depends on this being the scan order.
type OrderByStartTime struct{}

func (s OrderByStartTime) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("start_ms ASC")
}

type BySegmentIDs struct {
	SegmentIDs []uuid.UUID
}

func (s BySegmentIDs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("segment_id IN ?", s.SegmentIDs)
}

type ByDocumentID struct {
	DocumentID uuid.UUID
}

func (s ByDocumentID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("document_id = ?", s.DocumentID)
}
