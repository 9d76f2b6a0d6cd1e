package service

import (
	"context"
	"testing"

	"lecturelens-be/internal/dto"
	"lecturelens-be/internal/entity"
	"lecturelens-be/internal/pkg/apperrors"
	"lecturelens-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentServiceRegisterAndList(t *testing.T) {
	f := newFixture(t)
	svc := NewDocumentService(f.factory, nil)
	ctx := context.Background()

	session := seedSession(t, f.factory, f.owner.Id)

	res, err := svc.Register(ctx, f.owner.Id, &dto.RegisterDocumentRequest{
		SessionId:  session.Id,
		Name:       "Slides.pdf",
		PageCount:  42,
		StorageURL: "s3://bucket/slides.pdf",
	})
	require.NoError(t, err)

	list, err := svc.List(ctx, f.owner.Id, session.Id)
	require.NoError(t, err)
	require.Len(t, list.Documents, 1)
	assert.Equal(t, res.Id, list.Documents[0].Id)
	assert.Equal(t, "Slides.pdf", list.Documents[0].Name)
	assert.Equal(t, string(entity.DocumentStatusIndexing), list.Documents[0].Status)

	_, err = svc.Register(ctx, f.stranger.Id, &dto.RegisterDocumentRequest{
		SessionId: session.Id,
		Name:      "Intruder.pdf",
	})
	assert.ErrorIs(t, err, apperrors.ErrNotAuthorizedOrNotFound)
}

func TestDocumentServiceReportIndexedReplacesChunks(t *testing.T) {
	f := newFixture(t)
	svc := NewDocumentService(f.factory, nil)
	ctx := context.Background()

	session := seedSession(t, f.factory, f.owner.Id)
	res, err := svc.Register(ctx, f.owner.Id, &dto.RegisterDocumentRequest{
		SessionId: session.Id,
		Name:      "Textbook.pdf",
		PageCount: 3,
	})
	require.NoError(t, err)

	err = svc.ReportIndexed(ctx, &dto.ReportIndexedRequest{
		DocumentId: res.Id,
		Status:     "ready",
		Chunks: []dto.IndexedChunkPayload{
			{PageNumber: 1, Content: "chapter one", Embedding: []float32{0.1, 0.2}},
			{PageNumber: 2, Content: "chapter two", Embedding: []float32{0.3, 0.4}},
		},
	})
	require.NoError(t, err)

	uow := f.factory.NewUnitOfWork(ctx)
	count, err := uow.DocumentChunkRepository().Count(ctx, specification.ByDocumentID{DocumentID: res.Id})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// Re-indexing replaces the previous set instead of appending
	err = svc.ReportIndexed(ctx, &dto.ReportIndexedRequest{
		DocumentId: res.Id,
		Status:     "ready",
		Chunks: []dto.IndexedChunkPayload{
			{PageNumber: 1, Content: "chapter one, revised", Embedding: []float32{0.5, 0.6}},
		},
	})
	require.NoError(t, err)

	count, err = uow.DocumentChunkRepository().Count(ctx, specification.ByDocumentID{DocumentID: res.Id})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	list, err := svc.List(ctx, f.owner.Id, session.Id)
	require.NoError(t, err)
	assert.Equal(t, string(entity.DocumentStatusReady), list.Documents[0].Status)
}

func TestDocumentServiceReportIndexedFailure(t *testing.T) {
	f := newFixture(t)
	svc := NewDocumentService(f.factory, nil)
	ctx := context.Background()

	session := seedSession(t, f.factory, f.owner.Id)
	res, err := svc.Register(ctx, f.owner.Id, &dto.RegisterDocumentRequest{
		SessionId: session.Id,
		Name:      "Corrupt.pdf",
	})
	require.NoError(t, err)

	require.NoError(t, svc.ReportIndexed(ctx, &dto.ReportIndexedRequest{
		DocumentId: res.Id,
		Status:     "failed",
	}))

	list, err := svc.List(ctx, f.owner.Id, session.Id)
	require.NoError(t, err)
	assert.Equal(t, string(entity.DocumentStatusFailed), list.Documents[0].Status)

	assert.ErrorIs(t,
		svc.ReportIndexed(ctx, &dto.ReportIndexedRequest{DocumentId: uuid.New(), Status: "ready"}),
		apperrors.ErrNotAuthorizedOrNotFound)
}

func TestDocumentServiceDelete(t *testing.T) {
	f := newFixture(t)
	svc := NewDocumentService(f.factory, nil)
	ctx := context.Background()

	session := seedSession(t, f.factory, f.owner.Id)
	res, err := svc.Register(ctx, f.owner.Id, &dto.RegisterDocumentRequest{
		SessionId: session.Id,
		Name:      "Removable.pdf",
	})
	require.NoError(t, err)

	assert.ErrorIs(t,
		svc.Delete(ctx, f.stranger.Id, session.Id, res.Id),
		apperrors.ErrNotAuthorizedOrNotFound)

	require.NoError(t, svc.Delete(ctx, f.owner.Id, session.Id, res.Id))

	list, err := svc.List(ctx, f.owner.Id, session.Id)
	require.NoError(t, err)
	assert.Empty(t, list.Documents)
}
