package mapper

import (
	"encoding/json"

	"lecturelens-be/internal/entity"
	"lecturelens-be/internal/model"

	"gorm.io/datatypes"
)

type TranscriptSegmentMapper struct{}

func NewTranscriptSegmentMapper() *TranscriptSegmentMapper {
	return &TranscriptSegmentMapper{}
}

func (m *TranscriptSegmentMapper) ToEntity(s *model.TranscriptSegment) *entity.TranscriptSegment {
	if s == nil {
		return nil
	}

	var words []entity.WordTiming
	if len(s.Words) > 0 {
		// Malformed timing payloads degrade to an empty word list, never an error
		_ = json.Unmarshal(s.Words, &words)
	}

	return &entity.TranscriptSegment{
		Id:             s.Id,
		SessionId:      s.SessionId,
		Text:           s.Text,
		TranslatedText: s.TranslatedText,
		StartMs:        s.StartMs,
		EndMs:          s.EndMs,
		Words:          words,
		CreatedAt:      s.CreatedAt,
	}
}

func (m *TranscriptSegmentMapper) ToModel(s *entity.TranscriptSegment) *model.TranscriptSegment {
	if s == nil {
		return nil
	}

	var words datatypes.JSON
	if len(s.Words) > 0 {
		if raw, err := json.Marshal(s.Words); err == nil {
			words = raw
		}
	}

	return &model.TranscriptSegment{
		Id:             s.Id,
		SessionId:      s.SessionId,
		Text:           s.Text,
		TranslatedText: s.TranslatedText,
		StartMs:        s.StartMs,
		EndMs:          s.EndMs,
		Words:          words,
		CreatedAt:      s.CreatedAt,
	}
}

func (m *TranscriptSegmentMapper) ToEntities(segments []*model.TranscriptSegment) []*entity.TranscriptSegment {
	entities := make([]*entity.TranscriptSegment, len(segments))
	for i, s := range segments {
		entities[i] = m.ToEntity(s)
	}
	return entities
}
