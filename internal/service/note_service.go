package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lecturelens-be/internal/dto"
	"lecturelens-be/internal/entity"
	"lecturelens-be/internal/pkg/apperrors"
	"lecturelens-be/internal/repository/specification"
	"lecturelens-be/internal/repository/unitofwork"
	"lecturelens-be/internal/websocket"
	"lecturelens-be/pkg/aibackend"
	"lecturelens-be/pkg/events"
	pktNats "lecturelens-be/pkg/nats"
	"lecturelens-be/pkg/notesync"

	"github.com/google/uuid"
)

type INoteService interface {
	Show(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.NoteResponse, error)
	Status(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.NoteStatusResponse, error)

	// Edit buffers new content into the session's lifecycle manager; the
	// manager persists it after the auto-save debounce window.
	Edit(ctx context.Context, userId uuid.UUID, req *dto.UpsertNoteRequest) (*dto.NoteStatusResponse, error)

	// Save flushes pending edits immediately, bypassing the debounce.
	Save(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.NoteStatusResponse, error)

	Generate(ctx context.Context, userId uuid.UUID, req *dto.GenerateNoteRequest) (*dto.NoteStatusResponse, error)
	ConfirmRegenerate(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.NoteStatusResponse, error)
	DeclineRegenerate(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.NoteStatusResponse, error)

	Export(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.ExportNoteResponse, error)

	// UpsertGenerated is the trusted write path used by the AI backend when
	// generation completes out-of-band.
	UpsertGenerated(ctx context.Context, req *dto.UpsertGeneratedNoteRequest) (*dto.UpsertNoteResponse, error)
}

type noteService struct {
	uowFactory     unitofwork.RepositoryFactory
	notes          *notesync.Coordinator
	aiClient       *aibackend.Client
	warmup         *aibackend.WarmupMonitor
	wsHub          *websocket.Hub
	eventPublisher *pktNats.Publisher
}

func NewNoteService(
	uowFactory unitofwork.RepositoryFactory,
	notes *notesync.Coordinator,
	aiClient *aibackend.Client,
	warmup *aibackend.WarmupMonitor,
	wsHub *websocket.Hub,
	eventPublisher *pktNats.Publisher,
) INoteService {
	return &noteService{
		uowFactory:     uowFactory,
		notes:          notes,
		aiClient:       aiClient,
		warmup:         warmup,
		wsHub:          wsHub,
		eventPublisher: eventPublisher,
	}
}

func (s *noteService) manager(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*notesync.Manager, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := resolveOwnedSession(ctx, uow, userId, sessionId); err != nil {
		return nil, err
	}
	return s.notes.ForSession(ctx, sessionId)
}

func (s *noteService) Show(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.NoteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, err := resolveOwnedSession(ctx, uow, userId, sessionId); err != nil {
		return nil, err
	}

	note, err := uow.NoteRepository().FindOne(ctx, specification.BySessionID{SessionID: sessionId})
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, apperrors.ErrNotAuthorizedOrNotFound
	}

	return noteToResponse(note), nil
}

func (s *noteService) Status(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.NoteStatusResponse, error) {
	m, err := s.manager(ctx, userId, sessionId)
	if err != nil {
		return nil, err
	}
	return s.statusToResponse(m.Status()), nil
}

func (s *noteService) Edit(ctx context.Context, userId uuid.UUID, req *dto.UpsertNoteRequest) (*dto.NoteStatusResponse, error) {
	m, err := s.manager(ctx, userId, req.SessionId)
	if err != nil {
		return nil, err
	}

	m.Edit(req.ContentMarkdown, req.ContentMarkdownTranslated)
	return s.statusToResponse(m.Status()), nil
}

func (s *noteService) Save(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.NoteStatusResponse, error) {
	m, err := s.manager(ctx, userId, sessionId)
	if err != nil {
		return nil, err
	}

	if err := m.SaveNow(ctx); err != nil {
		return nil, err
	}
	return s.statusToResponse(m.Status()), nil
}

func (s *noteService) Generate(ctx context.Context, userId uuid.UUID, req *dto.GenerateNoteRequest) (*dto.NoteStatusResponse, error) {
	m, err := s.manager(ctx, userId, req.SessionId)
	if err != nil {
		return nil, err
	}

	if req.Force {
		// Force only opens the confirmation gate; the destructive step still
		// needs an explicit confirm call
		m.RequestRegenerate()
		return s.statusToResponse(m.Status()), nil
	}

	if err := m.Generate(ctx); err != nil {
		return nil, err
	}
	return s.statusToResponse(m.Status()), nil
}

func (s *noteService) ConfirmRegenerate(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.NoteStatusResponse, error) {
	m, err := s.manager(ctx, userId, sessionId)
	if err != nil {
		return nil, err
	}

	if err := m.ConfirmRegenerate(ctx); err != nil {
		return nil, err
	}
	return s.statusToResponse(m.Status()), nil
}

func (s *noteService) DeclineRegenerate(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.NoteStatusResponse, error) {
	m, err := s.manager(ctx, userId, sessionId)
	if err != nil {
		return nil, err
	}

	m.DeclineRegenerate()
	return s.statusToResponse(m.Status()), nil
}

func (s *noteService) Export(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.ExportNoteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, err := resolveOwnedSession(ctx, uow, userId, sessionId); err != nil {
		return nil, err
	}

	note, err := uow.NoteRepository().FindOne(ctx, specification.BySessionID{SessionID: sessionId})
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, apperrors.ErrNotAuthorizedOrNotFound
	}

	pdf, err := s.aiClient.ExportPDF(ctx, sessionId.String(), note.ContentMarkdown)
	if err != nil {
		if errors.Is(err, apperrors.ErrExportUnavailable) {
			// PDF rendering is down; hand back the raw Markdown instead
			return &dto.ExportNoteResponse{
				Format:      "markdown",
				ContentType: "text/markdown; charset=utf-8",
				Data:        []byte(note.ContentMarkdown),
			}, nil
		}
		return nil, err
	}

	return &dto.ExportNoteResponse{
		Format:      "pdf",
		ContentType: "application/pdf",
		Data:        pdf,
	}, nil
}

func (s *noteService) UpsertGenerated(ctx context.Context, req *dto.UpsertGeneratedNoteRequest) (*dto.UpsertNoteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := resolveSession(ctx, uow, req.SessionId)
	if err != nil {
		return nil, err
	}

	note, err := upsertNote(ctx, uow, session.Id, req.ContentMarkdown, req.ContentMarkdownTranslated, req.TargetLanguage, true)
	if err != nil {
		return nil, err
	}

	if s.wsHub != nil {
		s.wsHub.BroadcastToSession(session.Id, "note", noteToResponse(note))
	}
	if s.eventPublisher != nil {
		evt := events.New(events.TypeNoteGenerated, map[string]interface{}{
			"session_id": session.Id,
			"version":    note.Version,
		})
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish NOTE_GENERATED event: %v\n", err)
		}
	}

	return &dto.UpsertNoteResponse{Id: note.Id, Version: note.Version}, nil
}

// upsertNote creates the session note at version 1 or advances the existing
// one by exactly one version. Pointer arguments that arrive nil leave the
// stored value untouched, so a write that omits the translated column or the
// target language never wipes them.
func upsertNote(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	sessionId uuid.UUID,
	content string,
	translated *string,
	targetLanguage *string,
	generated bool,
) (*entity.Note, error) {
	now := time.Now()

	note, err := uow.NoteRepository().FindOne(ctx, specification.BySessionID{SessionID: sessionId})
	if err != nil {
		return nil, err
	}

	if note == nil {
		note = &entity.Note{
			Id:              uuid.New(),
			SessionId:       sessionId,
			ContentMarkdown: content,
			Version:         1,
			CreatedAt:       now,
		}
		if translated != nil {
			note.ContentMarkdownTranslated = translated
		}
		if targetLanguage != nil {
			note.TargetLanguage = targetLanguage
		}
		if generated {
			note.GeneratedAt = &now
		} else {
			note.LastEditedAt = &now
		}
		if err := uow.NoteRepository().Create(ctx, note); err != nil {
			return nil, err
		}
		return note, nil
	}

	note.ContentMarkdown = content
	if translated != nil {
		note.ContentMarkdownTranslated = translated
	}
	if targetLanguage != nil {
		note.TargetLanguage = targetLanguage
	}
	note.Version++
	note.UpdatedAt = &now
	if generated {
		note.GeneratedAt = &now
	} else {
		note.LastEditedAt = &now
	}
	if err := uow.NoteRepository().Update(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func noteToResponse(note *entity.Note) *dto.NoteResponse {
	return &dto.NoteResponse{
		Id:                        note.Id,
		SessionId:                 note.SessionId,
		ContentMarkdown:           note.ContentMarkdown,
		ContentMarkdownTranslated: note.ContentMarkdownTranslated,
		TargetLanguage:            note.TargetLanguage,
		Version:                   note.Version,
		GeneratedAt:               note.GeneratedAt,
		LastEditedAt:              note.LastEditedAt,
		CreatedAt:                 note.CreatedAt,
		UpdatedAt:                 note.UpdatedAt,
	}
}

func (s *noteService) statusToResponse(status notesync.Status) *dto.NoteStatusResponse {
	res := &dto.NoteStatusResponse{
		State:          string(status.State),
		Dirty:          status.Dirty,
		Version:        status.Version,
		Progress:       status.Progress,
		PendingConfirm: status.PendingConfirm,
		LastSavedAt:    status.LastSavedAt,
		LastError:      status.LastError,
	}
	if s.warmup != nil {
		res.BackendState = string(s.warmup.State())
	}
	return res
}
