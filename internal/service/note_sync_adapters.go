package service

import (
	"context"

	"lecturelens-be/internal/repository/specification"
	"lecturelens-be/internal/repository/unitofwork"
	"lecturelens-be/pkg/aibackend"
	"lecturelens-be/pkg/notesync"

	"github.com/google/uuid"
)

// noteStore adapts the note repository to the lifecycle manager's Store
// contract, carrying the upsert version semantics with it.
type noteStore struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewNoteStore(uowFactory unitofwork.RepositoryFactory) notesync.Store {
	return &noteStore{uowFactory: uowFactory}
}

func (s *noteStore) Load(ctx context.Context, sessionID uuid.UUID) (*notesync.Snapshot, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	note, err := uow.NoteRepository().FindOne(ctx, specification.BySessionID{SessionID: sessionID})
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, nil
	}
	return &notesync.Snapshot{
		Content:    note.ContentMarkdown,
		Translated: note.ContentMarkdownTranslated,
		Version:    note.Version,
	}, nil
}

func (s *noteStore) Save(ctx context.Context, sessionID uuid.UUID, content string, translated *string) (*notesync.Snapshot, error) {
	return s.save(ctx, sessionID, content, translated, false)
}

func (s *noteStore) SaveGenerated(ctx context.Context, sessionID uuid.UUID, content string, translated *string) (*notesync.Snapshot, error) {
	return s.save(ctx, sessionID, content, translated, true)
}

func (s *noteStore) save(ctx context.Context, sessionID uuid.UUID, content string, translated *string, generated bool) (*notesync.Snapshot, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	note, err := upsertNote(ctx, uow, sessionID, content, translated, nil, generated)
	if err != nil {
		return nil, err
	}
	return &notesync.Snapshot{
		Content:    note.ContentMarkdown,
		Translated: note.ContentMarkdownTranslated,
		Version:    note.Version,
	}, nil
}

// noteGenerator adapts the AI backend client to the lifecycle manager's
// Generator contract. The session's target language rides along on every
// generation request.
type noteGenerator struct {
	client     *aibackend.Client
	uowFactory unitofwork.RepositoryFactory
}

func NewNoteGenerator(client *aibackend.Client, uowFactory unitofwork.RepositoryFactory) notesync.Generator {
	return &noteGenerator{client: client, uowFactory: uowFactory}
}

func (g *noteGenerator) Start(ctx context.Context, sessionID uuid.UUID, force bool) (string, error) {
	uow := g.uowFactory.NewUnitOfWork(ctx)

	session, err := resolveSession(ctx, uow, sessionID)
	if err != nil {
		return "", err
	}

	resp, err := g.client.GenerateNotes(ctx, aibackend.GenerateRequest{
		SessionId:       session.Id.String(),
		TargetLanguage:  session.TargetLanguage,
		ForceRegenerate: force,
	})
	if err != nil {
		return "", err
	}
	return resp.JobId, nil
}

func (g *noteGenerator) Status(ctx context.Context, jobID string) (notesync.Progress, error) {
	resp, err := g.client.GetGenerationStatus(ctx, jobID)
	if err != nil {
		return notesync.Progress{}, err
	}

	progress := notesync.Progress{
		Fraction:   resp.Progress,
		Content:    resp.ContentMarkdown,
		Translated: resp.ContentTranslated,
		Message:    resp.Error,
	}
	switch resp.Status {
	case aibackend.GenerationReady:
		progress.State = notesync.GenReady
	case aibackend.GenerationError:
		progress.State = notesync.GenError
	default:
		progress.State = notesync.GenPending
	}
	return progress, nil
}
