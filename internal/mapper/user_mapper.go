package mapper

import (
	"lecturelens-be/internal/entity"
	"lecturelens-be/internal/model"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}

	return &entity.User{
		Id:              u.Id,
		Email:           u.Email,
		PasswordHash:    u.PasswordHash,
		FullName:        u.FullName,
		Status:          entity.UserStatus(u.Status),
		EmailVerified:   u.EmailVerified,
		EmailVerifiedAt: u.EmailVerifiedAt,
		AvatarURL:       u.AvatarURL,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

func (m *UserMapper) ToModel(u *entity.User) *model.User {
	if u == nil {
		return nil
	}

	return &model.User{
		Id:              u.Id,
		Email:           u.Email,
		PasswordHash:    u.PasswordHash,
		FullName:        u.FullName,
		Status:          string(u.Status),
		EmailVerified:   u.EmailVerified,
		EmailVerifiedAt: u.EmailVerifiedAt,
		AvatarURL:       u.AvatarURL,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}
