package contract

import (
	"context"

	"lecturelens-be/internal/entity"
	"lecturelens-be/internal/repository/specification"

	"github.com/google/uuid"
)

type DocumentRepository interface {
	Create(ctx context.Context, document *entity.Document) error
	Update(ctx context.Context, document *entity.Document) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

type DocumentChunkRepository interface {
	CreateBulk(ctx context.Context, chunks []*entity.DocumentChunk) error
	DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error
	FindAllByDocumentId(ctx context.Context, documentId uuid.UUID) ([]*entity.DocumentChunk, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
