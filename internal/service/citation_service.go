package service

import (
	"context"

	"lecturelens-be/internal/dto"
	"lecturelens-be/internal/repository/unitofwork"
	"lecturelens-be/pkg/citation"

	"github.com/google/uuid"
)

type ICitationService interface {
	// ListBySession returns the deduplicated reference panel of a session:
	// one entry per distinct document+page, ordered by citation number.
	ListBySession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.CitationListResponse, error)
}

type citationService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewCitationService(uowFactory unitofwork.RepositoryFactory) ICitationService {
	return &citationService{
		uowFactory: uowFactory,
	}
}

func (s *citationService) ListBySession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.CitationListResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := resolveOwnedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}

	segments, err := loadOrderedTranscript(ctx, uow, session.Id)
	if err != nil {
		return nil, err
	}

	numbers := citation.NumberCitations(segments)
	unique := citation.Dedupe(segments, numbers)

	result := make([]dto.CitationResponse, 0, len(unique))
	for _, n := range unique {
		result = append(result, dto.CitationResponse{
			Id:             n.Citation.Id,
			Number:         n.Number,
			Key:            n.Key,
			DocumentId:     n.Citation.DocumentId,
			DocumentName:   n.Citation.DocumentName,
			PageNumber:     n.Citation.PageNumber,
			Snippet:        n.Citation.Snippet,
			RelevanceScore: n.Citation.RelevanceScore,
			CreatedAt:      n.Citation.CreatedAt,
		})
	}

	return &dto.CitationListResponse{
		SessionId: session.Id,
		Citations: result,
	}, nil
}
