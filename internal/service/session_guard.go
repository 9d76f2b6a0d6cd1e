package service

import (
	"context"

	"lecturelens-be/internal/entity"
	"lecturelens-be/internal/pkg/apperrors"
	"lecturelens-be/internal/repository/specification"
	"lecturelens-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// resolveOwnedSession loads a session only when it exists AND belongs to the
// caller. Both failure modes collapse into ErrNotAuthorizedOrNotFound so the
// response never reveals whether someone else's session exists.
func resolveOwnedSession(ctx context.Context, uow unitofwork.UnitOfWork, userId, sessionId uuid.UUID) (*entity.Session, error) {
	session, err := uow.SessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperrors.ErrNotAuthorizedOrNotFound
	}
	return session, nil
}

// resolveSession loads a session by id without an ownership filter. Only the
// trusted service-to-service path may use it; that path is authenticated by
// the service key, not by a user identity.
func resolveSession(ctx context.Context, uow unitofwork.UnitOfWork, sessionId uuid.UUID) (*entity.Session, error) {
	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperrors.ErrNotAuthorizedOrNotFound
	}
	return session, nil
}

// requireActive rejects writes against an ended session.
func requireActive(session *entity.Session) error {
	if !session.IsActive() {
		return apperrors.ErrSessionEnded
	}
	return nil
}
