package implementation

import (
	"context"

	"lecturelens-be/internal/entity"
	"lecturelens-be/internal/mapper"
	"lecturelens-be/internal/model"
	"lecturelens-be/internal/repository/contract"
	"lecturelens-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CitationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CitationMapper
}

func NewCitationRepository(db *gorm.DB) contract.CitationRepository {
	return &CitationRepositoryImpl{
		db:     db,
		mapper: mapper.NewCitationMapper(),
	}
}

func (r *CitationRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *CitationRepositoryImpl) Create(ctx context.Context, citation *entity.Citation) error {
	m := r.mapper.ToModel(citation)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*citation = *r.mapper.ToEntity(m)
	return nil
}

func (r *CitationRepositoryImpl) CreateBulk(ctx context.Context, citations []*entity.Citation) error {
	if len(citations) == 0 {
		return nil
	}
	models := r.mapper.ToModels(citations)
	if err := r.db.WithContext(ctx).Create(&models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*citations[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *CitationRepositoryImpl) DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("session_id = ?", sessionId).Delete(&model.Citation{}).Error
}

func (r *CitationRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Citation, error) {
	var models []*model.Citation
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *CitationRepositoryImpl) FindAllBySegmentIds(ctx context.Context, segmentIds []uuid.UUID) ([]*entity.Citation, error) {
	if len(segmentIds) == 0 {
		return []*entity.Citation{}, nil
	}
	var models []*model.Citation
	err := r.db.WithContext(ctx).
		Where("segment_id IN ?", segmentIds).
		Order("created_at ASC, rank ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *CitationRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Citation{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
