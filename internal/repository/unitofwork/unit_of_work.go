package unitofwork

import (
	"context"

	"lecturelens-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	SessionRepository() contract.SessionRepository
	TranscriptSegmentRepository() contract.TranscriptSegmentRepository
	CitationRepository() contract.CitationRepository
	DocumentRepository() contract.DocumentRepository
	DocumentChunkRepository() contract.DocumentChunkRepository
	NoteRepository() contract.NoteRepository
}
