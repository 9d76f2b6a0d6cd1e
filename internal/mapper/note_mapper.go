package mapper

import (
	"time"

	"lecturelens-be/internal/entity"
	"lecturelens-be/internal/model"
)

type NoteMapper struct{}

func NewNoteMapper() *NoteMapper {
	return &NoteMapper{}
}

func (m *NoteMapper) ToEntity(n *model.Note) *entity.Note {
	if n == nil {
		return nil
	}

	var updatedAt *time.Time
	if !n.UpdatedAt.IsZero() {
		t := n.UpdatedAt
		updatedAt = &t
	}

	return &entity.Note{
		Id:                        n.Id,
		SessionId:                 n.SessionId,
		ContentMarkdown:           n.ContentMarkdown,
		ContentMarkdownTranslated: n.ContentMarkdownTranslated,
		TargetLanguage:            n.TargetLanguage,
		Version:                   n.Version,
		GeneratedAt:               n.GeneratedAt,
		LastEditedAt:              n.LastEditedAt,
		CreatedAt:                 n.CreatedAt,
		UpdatedAt:                 updatedAt,
	}
}

func (m *NoteMapper) ToModel(n *entity.Note) *model.Note {
	if n == nil {
		return nil
	}

	var updatedAt time.Time
	if n.UpdatedAt != nil {
		updatedAt = *n.UpdatedAt
	}

	return &model.Note{
		Id:                        n.Id,
		SessionId:                 n.SessionId,
		ContentMarkdown:           n.ContentMarkdown,
		ContentMarkdownTranslated: n.ContentMarkdownTranslated,
		TargetLanguage:            n.TargetLanguage,
		Version:                   n.Version,
		GeneratedAt:               n.GeneratedAt,
		LastEditedAt:              n.LastEditedAt,
		CreatedAt:                 n.CreatedAt,
		UpdatedAt:                 updatedAt,
	}
}
