package mapper

import (
	"lecturelens-be/internal/entity"
	"lecturelens-be/internal/model"
)

type CitationMapper struct{}

func NewCitationMapper() *CitationMapper {
	return &CitationMapper{}
}

func (m *CitationMapper) ToEntity(c *model.Citation) *entity.Citation {
	if c == nil {
		return nil
	}

	return &entity.Citation{
		Id:             c.Id,
		SessionId:      c.SessionId,
		SegmentId:      c.SegmentId,
		DocumentId:     c.DocumentId,
		DocumentName:   c.DocumentName,
		PageNumber:     c.PageNumber,
		Snippet:        c.Snippet,
		RelevanceScore: c.RelevanceScore,
		Rank:           c.Rank,
		CreatedAt:      c.CreatedAt,
	}
}

func (m *CitationMapper) ToModel(c *entity.Citation) *model.Citation {
	if c == nil {
		return nil
	}

	return &model.Citation{
		Id:             c.Id,
		SessionId:      c.SessionId,
		SegmentId:      c.SegmentId,
		DocumentId:     c.DocumentId,
		DocumentName:   c.DocumentName,
		PageNumber:     c.PageNumber,
		Snippet:        c.Snippet,
		RelevanceScore: c.RelevanceScore,
		Rank:           c.Rank,
		CreatedAt:      c.CreatedAt,
	}
}

func (m *CitationMapper) ToEntities(citations []*model.Citation) []*entity.Citation {
	entities := make([]*entity.Citation, len(citations))
	for i, c := range citations {
		entities[i] = m.ToEntity(c)
	}
	return entities
}

func (m *CitationMapper) ToModels(citations []*entity.Citation) []*model.Citation {
	models := make([]*model.Citation, len(citations))
	for i, c := range citations {
		models[i] = m.ToModel(c)
	}
	return models
}
