package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lecturelens-be/internal/dto"
	"lecturelens-be/internal/pkg/apperrors"
	"lecturelens-be/pkg/aibackend"
	"lecturelens-be/pkg/notesync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct{}

func (stubGenerator) Start(context.Context, uuid.UUID, bool) (string, error) {
	return "job-1", nil
}

func (stubGenerator) Status(context.Context, string) (notesync.Progress, error) {
	return notesync.Progress{State: notesync.GenPending}, nil
}

type immediateAwaiter struct{}

func (immediateAwaiter) Await(context.Context) {}

func newNoteService(t *testing.T, f *testFixture, aiClient *aibackend.Client, warmup *aibackend.WarmupMonitor) INoteService {
	t.Helper()

	notes := notesync.NewCoordinator(
		NewNoteStore(f.factory),
		stubGenerator{},
		immediateAwaiter{},
		notesync.Options{AutoSaveDelay: 50 * time.Millisecond, PollInterval: 10 * time.Millisecond},
		testLogger{},
	)
	t.Cleanup(func() { notes.Shutdown(context.Background()) })

	return NewNoteService(f.factory, notes, aiClient, warmup, nil, nil)
}

type okProber struct{}

func (okProber) Probe(context.Context) error { return nil }

func strPtr(s string) *string { return &s }

func TestNoteServiceUpsertGeneratedVersions(t *testing.T) {
	f := newFixture(t)
	svc := newNoteService(t, f, nil, nil)
	ctx := context.Background()

	session := seedSession(t, f.factory, f.owner.Id)

	first, err := svc.UpsertGenerated(ctx, &dto.UpsertGeneratedNoteRequest{
		SessionId:                 session.Id,
		ContentMarkdown:           "# Lecture Notes",
		ContentMarkdownTranslated: strPtr("# Catatan Kuliah"),
		TargetLanguage:            strPtr("id"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Version)

	second, err := svc.UpsertGenerated(ctx, &dto.UpsertGeneratedNoteRequest{
		SessionId:       session.Id,
		ContentMarkdown: "# Lecture Notes v2",
	})
	require.NoError(t, err)
	assert.Equal(t, first.Id, second.Id)
	assert.Equal(t, 2, second.Version)

	// The second write omitted the translated column and target language;
	// both must survive
	note, err := svc.Show(ctx, f.owner.Id, session.Id)
	require.NoError(t, err)
	assert.Equal(t, "# Lecture Notes v2", note.ContentMarkdown)
	require.NotNil(t, note.ContentMarkdownTranslated)
	assert.Equal(t, "# Catatan Kuliah", *note.ContentMarkdownTranslated)
	require.NotNil(t, note.TargetLanguage)
	assert.Equal(t, "id", *note.TargetLanguage)
	assert.NotNil(t, note.GeneratedAt)
}

func TestNoteServiceUpsertGeneratedUnknownSession(t *testing.T) {
	f := newFixture(t)
	svc := newNoteService(t, f, nil, nil)

	_, err := svc.UpsertGenerated(context.Background(), &dto.UpsertGeneratedNoteRequest{
		SessionId:       uuid.New(),
		ContentMarkdown: "orphan",
	})
	assert.ErrorIs(t, err, apperrors.ErrNotAuthorizedOrNotFound)
}

func TestNoteServiceShowOwnership(t *testing.T) {
	f := newFixture(t)
	svc := newNoteService(t, f, nil, nil)
	ctx := context.Background()

	session := seedSession(t, f.factory, f.owner.Id)
	_, err := svc.UpsertGenerated(ctx, &dto.UpsertGeneratedNoteRequest{
		SessionId:       session.Id,
		ContentMarkdown: "private notes",
	})
	require.NoError(t, err)

	_, err = svc.Show(ctx, f.stranger.Id, session.Id)
	assert.ErrorIs(t, err, apperrors.ErrNotAuthorizedOrNotFound)

	_, err = svc.Show(ctx, f.owner.Id, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrNotAuthorizedOrNotFound)
}

func TestNoteServiceEditThenSave(t *testing.T) {
	f := newFixture(t)
	svc := newNoteService(t, f, nil, nil)
	ctx := context.Background()

	session := seedSession(t, f.factory, f.owner.Id)
	_, err := svc.UpsertGenerated(ctx, &dto.UpsertGeneratedNoteRequest{
		SessionId:                 session.Id,
		ContentMarkdown:           "generated",
		ContentMarkdownTranslated: strPtr("terjemahan"),
	})
	require.NoError(t, err)

	status, err := svc.Edit(ctx, f.owner.Id, &dto.UpsertNoteRequest{
		SessionId:       session.Id,
		ContentMarkdown: "edited by hand",
	})
	require.NoError(t, err)
	assert.True(t, status.Dirty)

	status, err = svc.Save(ctx, f.owner.Id, session.Id)
	require.NoError(t, err)
	assert.False(t, status.Dirty)
	assert.Equal(t, 2, status.Version)

	note, err := svc.Show(ctx, f.owner.Id, session.Id)
	require.NoError(t, err)
	assert.Equal(t, "edited by hand", note.ContentMarkdown)
	require.NotNil(t, note.ContentMarkdownTranslated)
	assert.Equal(t, "terjemahan", *note.ContentMarkdownTranslated, "edit without translation keeps the stored one")
	assert.NotNil(t, note.LastEditedAt)
}

func TestNoteServiceGenerateForceOpensConfirmGate(t *testing.T) {
	f := newFixture(t)
	svc := newNoteService(t, f, nil, nil)
	ctx := context.Background()

	session := seedSession(t, f.factory, f.owner.Id)
	_, err := svc.UpsertGenerated(ctx, &dto.UpsertGeneratedNoteRequest{
		SessionId:       session.Id,
		ContentMarkdown: "existing content",
	})
	require.NoError(t, err)

	// Plain generate against an existing note needs confirmation
	_, err = svc.Generate(ctx, f.owner.Id, &dto.GenerateNoteRequest{SessionId: session.Id})
	assert.ErrorIs(t, err, apperrors.ErrConfirmationRequired)

	// Force only arms the gate
	status, err := svc.Generate(ctx, f.owner.Id, &dto.GenerateNoteRequest{SessionId: session.Id, Force: true})
	require.NoError(t, err)
	assert.True(t, status.PendingConfirm)

	// Declining leaves everything as it was
	status, err = svc.DeclineRegenerate(ctx, f.owner.Id, session.Id)
	require.NoError(t, err)
	assert.False(t, status.PendingConfirm)

	note, err := svc.Show(ctx, f.owner.Id, session.Id)
	require.NoError(t, err)
	assert.Equal(t, "existing content", note.ContentMarkdown)
	assert.Equal(t, 1, note.Version)
}

func TestNoteServiceExportFallsBackToMarkdown(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer backend.Close()

	f := newFixture(t)
	svc := newNoteService(t, f, aibackend.NewClient(backend.URL, ""), nil)
	ctx := context.Background()

	session := seedSession(t, f.factory, f.owner.Id)
	_, err := svc.UpsertGenerated(ctx, &dto.UpsertGeneratedNoteRequest{
		SessionId:       session.Id,
		ContentMarkdown: "# Exportable",
	})
	require.NoError(t, err)

	res, err := svc.Export(ctx, f.owner.Id, session.Id)
	require.NoError(t, err)
	assert.Equal(t, "markdown", res.Format)
	assert.Equal(t, "text/markdown; charset=utf-8", res.ContentType)
	assert.Equal(t, "# Exportable", string(res.Data))
}

func TestNoteServiceExportPDF(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4 fake"))
	}))
	defer backend.Close()

	f := newFixture(t)
	svc := newNoteService(t, f, aibackend.NewClient(backend.URL, ""), nil)
	ctx := context.Background()

	session := seedSession(t, f.factory, f.owner.Id)
	_, err := svc.UpsertGenerated(ctx, &dto.UpsertGeneratedNoteRequest{
		SessionId:       session.Id,
		ContentMarkdown: "# Exportable",
	})
	require.NoError(t, err)

	res, err := svc.Export(ctx, f.owner.Id, session.Id)
	require.NoError(t, err)
	assert.Equal(t, "pdf", res.Format)
	assert.Equal(t, "application/pdf", res.ContentType)
	assert.Equal(t, "%PDF-1.4 fake", string(res.Data))
}

func TestNoteServiceStatusReportsBackendState(t *testing.T) {
	f := newFixture(t)
	warmup := aibackend.NewWarmupMonitor(okProber{}, time.Second, 10*time.Millisecond, testLogger{})
	svc := newNoteService(t, f, nil, warmup)
	ctx := context.Background()

	session := seedSession(t, f.factory, f.owner.Id)

	status, err := svc.Status(ctx, f.owner.Id, session.Id)
	require.NoError(t, err)
	assert.Equal(t, string(aibackend.WarmupUnknown), status.BackendState)

	// Once the probe succeeds the status reflects a ready backend
	warmup.Await(ctx)
	status, err = svc.Status(ctx, f.owner.Id, session.Id)
	require.NoError(t, err)
	assert.Equal(t, string(aibackend.WarmupReady), status.BackendState)
}
