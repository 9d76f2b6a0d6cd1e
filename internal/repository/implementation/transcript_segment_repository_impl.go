package implementation

import (
	"context"
	"errors"

	"lecturelens-be/internal/entity"
	"lecturelens-be/internal/mapper"
	"lecturelens-be/internal/model"
	"lecturelens-be/internal/repository/contract"
	"lecturelens-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TranscriptSegmentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TranscriptSegmentMapper
}

func NewTranscriptSegmentRepository(db *gorm.DB) contract.TranscriptSegmentRepository {
	return &TranscriptSegmentRepositoryImpl{
		db:     db,
		mapper: mapper.NewTranscriptSegmentMapper(),
	}
}

func (r *TranscriptSegmentRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *TranscriptSegmentRepositoryImpl) Create(ctx context.Context, segment *entity.TranscriptSegment) error {
	m := r.mapper.ToModel(segment)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*segment = *r.mapper.ToEntity(m)
	return nil
}

func (r *TranscriptSegmentRepositoryImpl) CreateBulk(ctx context.Context, segments []*entity.TranscriptSegment) error {
	if len(segments) == 0 {
		return nil
	}
	models := make([]*model.TranscriptSegment, len(segments))
	for i, s := range segments {
		models[i] = r.mapper.ToModel(s)
	}
	if err := r.db.WithContext(ctx).Create(&models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*segments[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *TranscriptSegmentRepositoryImpl) DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("session_id = ?", sessionId).Delete(&model.TranscriptSegment{}).Error
}

func (r *TranscriptSegmentRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.TranscriptSegment, error) {
	var m model.TranscriptSegment
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *TranscriptSegmentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TranscriptSegment, error) {
	var models []*model.TranscriptSegment
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *TranscriptSegmentRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.TranscriptSegment{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
