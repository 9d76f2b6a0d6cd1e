package service

import (
	"context"
	"fmt"
	"time"

	"lecturelens-be/internal/dto"
	"lecturelens-be/internal/entity"
	"lecturelens-be/internal/pkg/apperrors"
	"lecturelens-be/internal/repository/specification"
	"lecturelens-be/internal/repository/unitofwork"
	"lecturelens-be/pkg/events"
	pktNats "lecturelens-be/pkg/nats"

	"github.com/google/uuid"
)

type IDocumentService interface {
	Register(ctx context.Context, userId uuid.UUID, req *dto.RegisterDocumentRequest) (*dto.RegisterDocumentResponse, error)
	List(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.ListDocumentsResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, documentId uuid.UUID) error

	// ReportIndexed is the trusted path: the AI backend reports the result of
	// indexing a document, including page-level chunks with embeddings.
	ReportIndexed(ctx context.Context, req *dto.ReportIndexedRequest) error
}

type documentService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pktNats.Publisher
}

func NewDocumentService(uowFactory unitofwork.RepositoryFactory, eventPublisher *pktNats.Publisher) IDocumentService {
	return &documentService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
	}
}

func (s *documentService) Register(ctx context.Context, userId uuid.UUID, req *dto.RegisterDocumentRequest) (*dto.RegisterDocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := resolveOwnedSession(ctx, uow, userId, req.SessionId)
	if err != nil {
		return nil, err
	}

	document := &entity.Document{
		Id:         uuid.New(),
		SessionId:  session.Id,
		Name:       req.Name,
		PageCount:  req.PageCount,
		StorageURL: req.StorageURL,
		Status:     entity.DocumentStatusIndexing,
		CreatedAt:  time.Now(),
	}

	if err := uow.DocumentRepository().Create(ctx, document); err != nil {
		return nil, err
	}

	return &dto.RegisterDocumentResponse{Id: document.Id}, nil
}

func (s *documentService) List(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.ListDocumentsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := resolveOwnedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}

	documents, err := uow.DocumentRepository().FindAll(ctx,
		specification.BySessionID{SessionID: session.Id},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	result := make([]dto.DocumentResponse, 0, len(documents))
	for _, doc := range documents {
		result = append(result, dto.DocumentResponse{
			Id:        doc.Id,
			Name:      doc.Name,
			PageCount: doc.PageCount,
			Status:    string(doc.Status),
			CreatedAt: doc.CreatedAt,
			UpdatedAt: doc.UpdatedAt,
		})
	}

	return &dto.ListDocumentsResponse{Documents: result}, nil
}

func (s *documentService) Delete(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, documentId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := resolveOwnedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return err
	}

	document, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: documentId},
		specification.BySessionID{SessionID: session.Id},
	)
	if err != nil {
		return err
	}
	if document == nil {
		return apperrors.ErrNotAuthorizedOrNotFound
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.DocumentChunkRepository().DeleteByDocumentId(ctx, document.Id); err != nil {
		return err
	}
	if err := uow.DocumentRepository().Delete(ctx, document.Id); err != nil {
		return err
	}

	return uow.Commit()
}

func (s *documentService) ReportIndexed(ctx context.Context, req *dto.ReportIndexedRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	document, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: req.DocumentId})
	if err != nil {
		return err
	}
	if document == nil {
		return apperrors.ErrNotAuthorizedOrNotFound
	}

	chunks := make([]*entity.DocumentChunk, 0, len(req.Chunks))
	for _, c := range req.Chunks {
		chunks = append(chunks, &entity.DocumentChunk{
			Id:         uuid.New(),
			DocumentId: document.Id,
			PageNumber: c.PageNumber,
			Content:    c.Content,
			Embedding:  c.Embedding,
			CreatedAt:  time.Now(),
		})
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	// Replace chunks wholesale; re-indexing drops the previous set
	if err := uow.DocumentChunkRepository().DeleteByDocumentId(ctx, document.Id); err != nil {
		return err
	}
	if len(chunks) > 0 {
		if err := uow.DocumentChunkRepository().CreateBulk(ctx, chunks); err != nil {
			return err
		}
	}

	now := time.Now()
	if req.Status == "ready" {
		document.Status = entity.DocumentStatusReady
	} else {
		document.Status = entity.DocumentStatusFailed
	}
	document.UpdatedAt = &now
	if err := uow.DocumentRepository().Update(ctx, document); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	if s.eventPublisher != nil {
		evt := events.New(events.TypeDocumentIndexed, map[string]interface{}{
			"document_id": document.Id,
			"session_id":  document.SessionId,
			"status":      string(document.Status),
		})
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish DOCUMENT_INDEXED event: %v\n", err)
		}
	}

	return nil
}
