package mapper

import (
	"time"

	"lecturelens-be/internal/entity"
	"lecturelens-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) ToEntity(d *model.Document) *entity.Document {
	if d == nil {
		return nil
	}

	var updatedAt *time.Time
	if !d.UpdatedAt.IsZero() {
		t := d.UpdatedAt
		updatedAt = &t
	}

	return &entity.Document{
		Id:         d.Id,
		SessionId:  d.SessionId,
		Name:       d.Name,
		PageCount:  d.PageCount,
		StorageURL: d.StorageURL,
		Status:     entity.DocumentStatus(d.Status),
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  updatedAt,
	}
}

func (m *DocumentMapper) ToModel(d *entity.Document) *model.Document {
	if d == nil {
		return nil
	}

	var updatedAt time.Time
	if d.UpdatedAt != nil {
		updatedAt = *d.UpdatedAt
	}

	return &model.Document{
		Id:         d.Id,
		SessionId:  d.SessionId,
		Name:       d.Name,
		PageCount:  d.PageCount,
		StorageURL: d.StorageURL,
		Status:     string(d.Status),
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  updatedAt,
	}
}

func (m *DocumentMapper) ToEntities(docs []*model.Document) []*entity.Document {
	entities := make([]*entity.Document, len(docs))
	for i, d := range docs {
		entities[i] = m.ToEntity(d)
	}
	return entities
}

func (m *DocumentMapper) ChunkToEntity(c *model.DocumentChunk) *entity.DocumentChunk {
	if c == nil {
		return nil
	}

	return &entity.DocumentChunk{
		Id:         c.Id,
		DocumentId: c.DocumentId,
		PageNumber: c.PageNumber,
		Content:    c.Content,
		Embedding:  c.Embedding.Slice(),
		CreatedAt:  c.CreatedAt,
	}
}

func (m *DocumentMapper) ChunkToModel(c *entity.DocumentChunk) *model.DocumentChunk {
	if c == nil {
		return nil
	}

	return &model.DocumentChunk{
		Id:         c.Id,
		DocumentId: c.DocumentId,
		PageNumber: c.PageNumber,
		Content:    c.Content,
		Embedding:  pgvector.NewVector(c.Embedding),
		CreatedAt:  c.CreatedAt,
	}
}
