package contract

import (
	"context"

	"lecturelens-be/internal/entity"
	"lecturelens-be/internal/repository/specification"

	"github.com/google/uuid"
)

type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error
	Update(ctx context.Context, session *entity.Session) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Session, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Session, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
