package implementation

import (
	"context"
	"errors"

	"lecturelens-be/internal/entity"
	"lecturelens-be/internal/mapper"
	"lecturelens-be/internal/model"
	"lecturelens-be/internal/repository/contract"
	"lecturelens-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserMapper
}

func NewUserRepository(db *gorm.DB) contract.UserRepository {
	return &UserRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserMapper(),
	}
}

func (r *UserRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *entity.User) error {
	m := r.mapper.ToModel(user)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*user = *r.mapper.ToEntity(m)
	return nil
}

func (r *UserRepositoryImpl) Update(ctx context.Context, user *entity.User) error {
	m := r.mapper.ToModel(user)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*user = *r.mapper.ToEntity(m)
	return nil
}

func (r *UserRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	var m model.User
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *UserRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.User{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Email verification tokens

func (r *UserRepositoryImpl) CreateEmailVerificationToken(ctx context.Context, token *entity.EmailVerificationToken) error {
	m := &model.EmailVerificationToken{
		Id:        token.Id,
		UserId:    token.UserId,
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
		CreatedAt: token.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *UserRepositoryImpl) FindEmailVerificationToken(ctx context.Context, userId uuid.UUID, token string) (*entity.EmailVerificationToken, error) {
	var m model.EmailVerificationToken
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND token = ?", userId, token).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entity.EmailVerificationToken{
		Id:        m.Id,
		UserId:    m.UserId,
		Token:     m.Token,
		ExpiresAt: m.ExpiresAt,
		CreatedAt: m.CreatedAt,
	}, nil
}

func (r *UserRepositoryImpl) DeleteEmailVerificationTokens(ctx context.Context, userId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userId).Delete(&model.EmailVerificationToken{}).Error
}

// Password reset tokens

func (r *UserRepositoryImpl) CreatePasswordResetToken(ctx context.Context, token *entity.PasswordResetToken) error {
	m := &model.PasswordResetToken{
		Id:        token.Id,
		UserId:    token.UserId,
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
		Used:      token.Used,
		CreatedAt: token.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *UserRepositoryImpl) FindPasswordResetToken(ctx context.Context, token string) (*entity.PasswordResetToken, error) {
	var m model.PasswordResetToken
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entity.PasswordResetToken{
		Id:        m.Id,
		UserId:    m.UserId,
		Token:     m.Token,
		ExpiresAt: m.ExpiresAt,
		Used:      m.Used,
		CreatedAt: m.CreatedAt,
	}, nil
}

func (r *UserRepositoryImpl) MarkPasswordResetTokenUsed(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.PasswordResetToken{}).
		Where("id = ?", id).
		Update("used", true).Error
}

// Refresh tokens

func (r *UserRepositoryImpl) CreateRefreshToken(ctx context.Context, token *entity.UserRefreshToken) error {
	m := &model.UserRefreshToken{
		Id:        token.Id,
		UserId:    token.UserId,
		TokenHash: token.TokenHash,
		ExpiresAt: token.ExpiresAt,
		Revoked:   token.Revoked,
		CreatedAt: token.CreatedAt,
		IpAddress: token.IpAddress,
		UserAgent: token.UserAgent,
	}
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *UserRepositoryImpl) FindRefreshTokenByHash(ctx context.Context, hash string) (*entity.UserRefreshToken, error) {
	var m model.UserRefreshToken
	err := r.db.WithContext(ctx).Where("token_hash = ?", hash).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entity.UserRefreshToken{
		Id:        m.Id,
		UserId:    m.UserId,
		TokenHash: m.TokenHash,
		ExpiresAt: m.ExpiresAt,
		Revoked:   m.Revoked,
		CreatedAt: m.CreatedAt,
		IpAddress: m.IpAddress,
		UserAgent: m.UserAgent,
	}, nil
}

func (r *UserRepositoryImpl) RevokeRefreshToken(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.UserRefreshToken{}).
		Where("id = ?", id).
		Update("revoked", true).Error
}

// OAuth providers

func (r *UserRepositoryImpl) CreateProvider(ctx context.Context, provider *entity.UserProvider) error {
	m := &model.UserProvider{
		Id:             provider.Id,
		UserId:         provider.UserId,
		ProviderName:   provider.ProviderName,
		ProviderUserId: provider.ProviderUserId,
		AvatarURL:      provider.AvatarURL,
		CreatedAt:      provider.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *UserRepositoryImpl) FindProvider(ctx context.Context, providerName, providerUserId string) (*entity.UserProvider, error) {
	var m model.UserProvider
	err := r.db.WithContext(ctx).
		Where("provider_name = ? AND provider_user_id = ?", providerName, providerUserId).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entity.UserProvider{
		Id:             m.Id,
		UserId:         m.UserId,
		ProviderName:   m.ProviderName,
		ProviderUserId: m.ProviderUserId,
		AvatarURL:      m.AvatarURL,
		CreatedAt:      m.CreatedAt,
	}, nil
}
