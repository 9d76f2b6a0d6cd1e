package service

import (
	"context"
	"testing"

	"lecturelens-be/internal/dto"
	"lecturelens-be/internal/pkg/apperrors"
	"lecturelens-be/internal/repository/memory"
	"lecturelens-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionService(t *testing.T) (ISessionService, *testFixture) {
	t.Helper()
	f := newFixture(t)
	svc := NewSessionService(f.factory, memory.NewLiveSessionRepository(), nil, nil, nil)
	return svc, f
}

func TestSessionServiceCreateAndShow(t *testing.T) {
	svc, f := newSessionService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, f.owner.Id, &dto.CreateSessionRequest{
		Name:           "Linear Algebra",
		SourceLanguage: "en",
		TargetLanguage: "ko",
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.Id)

	shown, err := svc.Show(ctx, f.owner.Id, created.Id)
	require.NoError(t, err)
	assert.Equal(t, "Linear Algebra", shown.Name)
	assert.Equal(t, "active", shown.Status)
	assert.Equal(t, int64(0), shown.SegmentCount)
}

func TestSessionServiceShowHidesOtherUsersSessions(t *testing.T) {
	svc, f := newSessionService(t)
	ctx := context.Background()

	session := seedSession(t, f.factory, f.owner.Id)

	// A stranger probing the id gets the same answer as probing a random id
	_, err := svc.Show(ctx, f.stranger.Id, session.Id)
	assert.ErrorIs(t, err, apperrors.ErrNotAuthorizedOrNotFound)

	_, err = svc.Show(ctx, f.stranger.Id, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrNotAuthorizedOrNotFound)

	// The owner still sees it
	_, err = svc.Show(ctx, f.owner.Id, session.Id)
	assert.NoError(t, err)
}

func TestSessionServiceUpdateRename(t *testing.T) {
	svc, f := newSessionService(t)
	ctx := context.Background()

	session := seedSession(t, f.factory, f.owner.Id)

	res, err := svc.Update(ctx, f.owner.Id, &dto.UpdateSessionRequest{Id: session.Id, Name: "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", res.Name)

	_, err = svc.Update(ctx, f.stranger.Id, &dto.UpdateSessionRequest{Id: session.Id, Name: "Hijacked"})
	assert.ErrorIs(t, err, apperrors.ErrNotAuthorizedOrNotFound)
}

func TestSessionServiceEndIsIdempotent(t *testing.T) {
	svc, f := newSessionService(t)
	ctx := context.Background()

	session := seedSession(t, f.factory, f.owner.Id)

	first, err := svc.End(ctx, f.owner.Id, session.Id)
	require.NoError(t, err)

	second, err := svc.End(ctx, f.owner.Id, session.Id)
	require.NoError(t, err)
	assert.Equal(t, first.Id, second.Id)
	assert.WithinDuration(t, first.EndedAt, second.EndedAt, 0)

	shown, err := svc.Show(ctx, f.owner.Id, session.Id)
	require.NoError(t, err)
	assert.Equal(t, "ended", shown.Status)
}

func TestSessionServiceListOrdersNewestFirst(t *testing.T) {
	svc, f := newSessionService(t)
	ctx := context.Background()

	seedSession(t, f.factory, f.owner.Id)
	seedSession(t, f.factory, f.owner.Id)
	seedSession(t, f.factory, f.stranger.Id)

	res, err := svc.List(ctx, f.owner.Id)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Total)
	assert.Len(t, res.Sessions, 2)
}

func TestSessionServiceDeleteCascades(t *testing.T) {
	svc, f := newSessionService(t)
	ctx := context.Background()

	session := seedSession(t, f.factory, f.owner.Id)
	seg := seedSegment(t, f.factory, session.Id, 0, "hello", "Slides.pdf", 1)
	require.NotNil(t, seg)

	require.NoError(t, svc.Delete(ctx, f.owner.Id, session.Id))

	uow := f.factory.NewUnitOfWork(ctx)
	remaining, err := uow.TranscriptSegmentRepository().Count(ctx, specification.BySessionID{SessionID: session.Id})
	require.NoError(t, err)
	assert.Equal(t, int64(0), remaining)

	_, err = svc.Show(ctx, f.owner.Id, session.Id)
	assert.ErrorIs(t, err, apperrors.ErrNotAuthorizedOrNotFound)
}
