package contract

import (
	"context"

	"lecturelens-be/internal/entity"
	"lecturelens-be/internal/repository/specification"

	"github.com/google/uuid"
)

type CitationRepository interface {
	Create(ctx context.Context, citation *entity.Citation) error
	CreateBulk(ctx context.Context, citations []*entity.Citation) error
	DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Citation, error)
	FindAllBySegmentIds(ctx context.Context, segmentIds []uuid.UUID) ([]*entity.Citation, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
