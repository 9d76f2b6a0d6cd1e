package service

import (
	"context"
	"fmt"
	"time"

	"lecturelens-be/internal/dto"
	"lecturelens-be/internal/entity"
	"lecturelens-be/internal/repository/memory"
	"lecturelens-be/internal/repository/specification"
	"lecturelens-be/internal/repository/unitofwork"
	"lecturelens-be/pkg/events"
	pktNats "lecturelens-be/pkg/nats"
	"lecturelens-be/pkg/notesync"
	"lecturelens-be/pkg/presence"

	"github.com/google/uuid"
)

type ISessionService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error)
	List(ctx context.Context, userId uuid.UUID) (*dto.ListSessionsResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.SessionResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateSessionRequest) (*dto.SessionResponse, error)
	End(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.EndSessionResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
}

type sessionService struct {
	uowFactory     unitofwork.RepositoryFactory
	liveStore      *memory.LiveSessionRepository
	presence       *presence.Tracker
	notes          *notesync.Coordinator
	eventPublisher *pktNats.Publisher
}

func NewSessionService(
	uowFactory unitofwork.RepositoryFactory,
	liveStore *memory.LiveSessionRepository,
	presenceTracker *presence.Tracker,
	notes *notesync.Coordinator,
	eventPublisher *pktNats.Publisher,
) ISessionService {
	return &sessionService{
		uowFactory:     uowFactory,
		liveStore:      liveStore,
		presence:       presenceTracker,
		notes:          notes,
		eventPublisher: eventPublisher,
	}
}

func (s *sessionService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session := &entity.Session{
		Id:             uuid.New(),
		UserId:         userId,
		Name:           req.Name,
		SourceLanguage: req.SourceLanguage,
		TargetLanguage: req.TargetLanguage,
		Status:         entity.SessionStatusActive,
		CreatedAt:      time.Now(),
	}

	if err := uow.SessionRepository().Create(ctx, session); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		evt := events.New(events.TypeSessionStarted, map[string]interface{}{
			"session_id": session.Id,
			"user_id":    userId,
		})
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish SESSION_STARTED event: %v\n", err)
		}
	}

	return &dto.CreateSessionResponse{Id: session.Id}, nil
}

func (s *sessionService) List(ctx context.Context, userId uuid.UUID) (*dto.ListSessionsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.SessionRepository().FindAll(ctx,
		specification.OwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	result := make([]dto.SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		res, err := s.toResponse(ctx, uow, session)
		if err != nil {
			return nil, err
		}
		result = append(result, *res)
	}

	return &dto.ListSessionsResponse{
		Sessions: result,
		Total:    int64(len(result)),
	}, nil
}

func (s *sessionService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.SessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := resolveOwnedSession(ctx, uow, userId, id)
	if err != nil {
		return nil, err
	}

	return s.toResponse(ctx, uow, session)
}

func (s *sessionService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateSessionRequest) (*dto.SessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := resolveOwnedSession(ctx, uow, userId, req.Id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session.Name = req.Name
	session.UpdatedAt = &now

	if err := uow.SessionRepository().Update(ctx, session); err != nil {
		return nil, err
	}

	return s.toResponse(ctx, uow, session)
}

func (s *sessionService) End(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.EndSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := resolveOwnedSession(ctx, uow, userId, id)
	if err != nil {
		return nil, err
	}
	if !session.IsActive() {
		// Ending twice is idempotent
		return &dto.EndSessionResponse{Id: session.Id, EndedAt: *session.EndedAt}, nil
	}

	now := time.Now()
	session.Status = entity.SessionStatusEnded
	session.EndedAt = &now
	session.UpdatedAt = &now

	if err := uow.SessionRepository().Update(ctx, session); err != nil {
		return nil, err
	}

	s.liveStore.Delete(session.Id.String())
	if s.presence != nil {
		if err := s.presence.Clear(ctx, session.Id); err != nil {
			fmt.Printf("[WARN] Failed to clear presence for session %s: %v\n", session.Id, err)
		}
	}
	if s.notes != nil {
		s.notes.Release(ctx, session.Id)
	}

	if s.eventPublisher != nil {
		evt := events.New(events.TypeSessionEnded, map[string]interface{}{
			"session_id": session.Id,
			"user_id":    userId,
		})
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish SESSION_ENDED event: %v\n", err)
		}
	}

	return &dto.EndSessionResponse{Id: session.Id, EndedAt: now}, nil
}

func (s *sessionService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := resolveOwnedSession(ctx, uow, userId, id)
	if err != nil {
		return err
	}

	if s.notes != nil {
		s.notes.Release(ctx, session.Id)
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.CitationRepository().DeleteBySessionId(ctx, session.Id); err != nil {
		return err
	}
	if err := uow.TranscriptSegmentRepository().DeleteBySessionId(ctx, session.Id); err != nil {
		return err
	}
	if err := uow.NoteRepository().DeleteBySessionId(ctx, session.Id); err != nil {
		return err
	}
	if err := uow.DocumentRepository().DeleteBySessionId(ctx, session.Id); err != nil {
		return err
	}
	if err := uow.SessionRepository().Delete(ctx, session.Id); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	s.liveStore.Delete(session.Id.String())
	if s.presence != nil {
		_ = s.presence.Clear(ctx, session.Id)
	}

	return nil
}

func (s *sessionService) toResponse(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.Session) (*dto.SessionResponse, error) {
	segmentCount, err := uow.TranscriptSegmentRepository().Count(ctx, specification.BySessionID{SessionID: session.Id})
	if err != nil {
		return nil, err
	}

	var viewerCount int64
	if s.presence != nil {
		if n, err := s.presence.Count(ctx, session.Id); err == nil {
			viewerCount = n
		}
	}

	return &dto.SessionResponse{
		Id:             session.Id,
		Name:           session.Name,
		SourceLanguage: session.SourceLanguage,
		TargetLanguage: session.TargetLanguage,
		Status:         string(session.Status),
		SegmentCount:   segmentCount,
		ViewerCount:    viewerCount,
		EndedAt:        session.EndedAt,
		CreatedAt:      session.CreatedAt,
		UpdatedAt:      session.UpdatedAt,
	}, nil
}
