package contract

import (
	"context"

	"lecturelens-be/internal/entity"
	"lecturelens-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	CreateEmailVerificationToken(ctx context.Context, token *entity.EmailVerificationToken) error
	FindEmailVerificationToken(ctx context.Context, userId uuid.UUID, token string) (*entity.EmailVerificationToken, error)
	DeleteEmailVerificationTokens(ctx context.Context, userId uuid.UUID) error

	CreatePasswordResetToken(ctx context.Context, token *entity.PasswordResetToken) error
	FindPasswordResetToken(ctx context.Context, token string) (*entity.PasswordResetToken, error)
	MarkPasswordResetTokenUsed(ctx context.Context, id uuid.UUID) error

	CreateRefreshToken(ctx context.Context, token *entity.UserRefreshToken) error
	FindRefreshTokenByHash(ctx context.Context, hash string) (*entity.UserRefreshToken, error)
	RevokeRefreshToken(ctx context.Context, id uuid.UUID) error

	CreateProvider(ctx context.Context, provider *entity.UserProvider) error
	FindProvider(ctx context.Context, providerName, providerUserId string) (*entity.UserProvider, error)
}
