package service

import (
	"context"
	"testing"

	"lecturelens-be/internal/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCitationServiceDeduplicatesByDocumentAndPage(t *testing.T) {
	f := newFixture(t)
	svc := NewCitationService(f.factory)
	ctx := context.Background()

	session := seedSession(t, f.factory, f.owner.Id)

	seedSegment(t, f.factory, session.Id, 0, "intro", "Slides.pdf", 3)
	seedSegment(t, f.factory, session.Id, 2000, "detail", "Slides.pdf", 3)
	seedSegment(t, f.factory, session.Id, 4000, "aside", "Textbook.pdf", 41)
	seedSegment(t, f.factory, session.Id, 6000, "other page", "Slides.pdf", 5)

	res, err := svc.ListBySession(ctx, f.owner.Id, session.Id)
	require.NoError(t, err)

	// Slides.pdf p3 collapses into one entry; three distinct sources remain
	require.Len(t, res.Citations, 3)
	assert.Equal(t, 1, res.Citations[0].Number)
	assert.Equal(t, "Slides.pdf-p3", res.Citations[0].Key)
	assert.Equal(t, "Slides.pdf", res.Citations[0].DocumentName)
	assert.Equal(t, 3, res.Citations[0].PageNumber)
	assert.Equal(t, 2, res.Citations[1].Number)
	assert.Equal(t, "Textbook.pdf-p41", res.Citations[1].Key)
	assert.Equal(t, "Textbook.pdf", res.Citations[1].DocumentName)
	assert.Equal(t, 3, res.Citations[2].Number)
	assert.Equal(t, "Slides.pdf-p5", res.Citations[2].Key)
	assert.Equal(t, 5, res.Citations[2].PageNumber)
}

func TestCitationServiceEmptySession(t *testing.T) {
	f := newFixture(t)
	svc := NewCitationService(f.factory)

	session := seedSession(t, f.factory, f.owner.Id)

	res, err := svc.ListBySession(context.Background(), f.owner.Id, session.Id)
	require.NoError(t, err)
	assert.Empty(t, res.Citations)
}

func TestCitationServiceOwnership(t *testing.T) {
	f := newFixture(t)
	svc := NewCitationService(f.factory)

	session := seedSession(t, f.factory, f.owner.Id)

	_, err := svc.ListBySession(context.Background(), f.stranger.Id, session.Id)
	assert.ErrorIs(t, err, apperrors.ErrNotAuthorizedOrNotFound)
}
