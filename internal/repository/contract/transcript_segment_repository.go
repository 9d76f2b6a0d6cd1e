package contract

import (
	"context"

	"lecturelens-be/internal/entity"
	"lecturelens-be/internal/repository/specification"

	"github.com/google/uuid"
)

type TranscriptSegmentRepository interface {
	Create(ctx context.Context, segment *entity.TranscriptSegment) error
	CreateBulk(ctx context.Context, segments []*entity.TranscriptSegment) error
	DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.TranscriptSegment, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TranscriptSegment, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
