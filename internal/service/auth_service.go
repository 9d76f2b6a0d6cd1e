package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"os"
	"time"

	"lecturelens-be/internal/dto"
	"lecturelens-be/internal/entity"
	"lecturelens-be/internal/pkg/apperrors"
	"lecturelens-be/internal/pkg/mailer"
	"lecturelens-be/internal/repository/specification"
	"lecturelens-be/internal/repository/unitofwork"
	"lecturelens-be/pkg/events"
	pktNats "lecturelens-be/pkg/nats"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	SignUp(ctx context.Context, req *dto.SignUpRequest) (*dto.SignUpResponse, error)
	SignIn(ctx context.Context, req *dto.SignInRequest, ipAddress, userAgent string) (*dto.SignInResponse, error)
	VerifyEmail(ctx context.Context, req *dto.VerifyEmailRequest) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.RefreshTokenResponse, error)
	SignOut(ctx context.Context, refreshToken string) error
	RequestPasswordReset(ctx context.Context, req *dto.RequestPasswordResetRequest) error
	VerifyPasswordReset(ctx context.Context, req *dto.VerifyPasswordResetRequest) error
}

type authService struct {
	uowFactory     unitofwork.RepositoryFactory
	emailService   mailer.IEmailService
	eventPublisher *pktNats.Publisher
}

func NewAuthService(uowFactory unitofwork.RepositoryFactory, emailService mailer.IEmailService, eventPublisher *pktNats.Publisher) IAuthService {
	return &authService{
		uowFactory:     uowFactory,
		emailService:   emailService,
		eventPublisher: eventPublisher,
	}
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n), nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func signAccessToken(userId uuid.UUID) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userId.String(),
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "default_secret"
	}
	return token.SignedString([]byte(secret))
}

func (s *authService) SignUp(ctx context.Context, req *dto.SignUpRequest) (*dto.SignUpResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.ErrAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	hashStr := string(hash)

	user := &entity.User{
		Id:            uuid.New(),
		Email:         req.Email,
		FullName:      req.FullName,
		PasswordHash:  &hashStr,
		Status:        entity.UserStatusPending,
		EmailVerified: false,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, err
	}

	otpCode, err := generateOTP()
	if err != nil {
		return nil, err
	}

	verificationToken := &entity.EmailVerificationToken{
		Id:        uuid.New(),
		UserId:    user.Id,
		Token:     otpCode,
		ExpiresAt: time.Now().Add(15 * time.Minute),
		CreatedAt: time.Now(),
	}

	if err := uow.UserRepository().CreateEmailVerificationToken(ctx, verificationToken); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	go func() {
		if emailErr := s.emailService.SendOTP(user.Email, otpCode); emailErr != nil {
			fmt.Printf("Error sending registration email: %v\n", emailErr)
		}
	}()

	if s.eventPublisher != nil {
		evt := events.New(events.TypeUserRegistered, map[string]interface{}{
			"user_id": user.Id,
			"email":   user.Email,
		})
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish USER_REGISTERED event: %v\n", err)
		}
	}

	return &dto.SignUpResponse{Id: user.Id, Email: user.Email}, nil
}

func (s *authService) VerifyEmail(ctx context.Context, req *dto.VerifyEmailRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: req.UserId})
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.ErrTokenInvalid
	}
	if user.Status == entity.UserStatusActive {
		return nil
	}

	tokenEntity, err := uow.UserRepository().FindEmailVerificationToken(ctx, req.UserId, req.Token)
	if err != nil {
		return err
	}
	if tokenEntity == nil || time.Now().After(tokenEntity.ExpiresAt) {
		return apperrors.ErrTokenInvalid
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	now := time.Now()
	user.Status = entity.UserStatusActive
	user.EmailVerified = true
	user.EmailVerifiedAt = &now
	user.UpdatedAt = now
	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return err
	}

	if err := uow.UserRepository().DeleteEmailVerificationTokens(ctx, user.Id); err != nil {
		return err
	}

	return uow.Commit()
}

func (s *authService) SignIn(ctx context.Context, req *dto.SignInRequest, ipAddress, userAgent string) (*dto.SignInResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	if user.Status == entity.UserStatusPending || !user.EmailVerified {
		return nil, apperrors.ErrAuthenticationRequired
	}
	if user.Status == entity.UserStatusBlocked {
		return nil, apperrors.ErrInvalidCredentials
	}

	signedToken, err := signAccessToken(user.Id)
	if err != nil {
		return nil, err
	}

	rawRefreshToken := uuid.New().String()
	refreshTokenEntity := &entity.UserRefreshToken{
		Id:        uuid.New(),
		UserId:    user.Id,
		TokenHash: hashToken(rawRefreshToken),
		ExpiresAt: time.Now().Add(30 * 24 * time.Hour),
		Revoked:   false,
		CreatedAt: time.Now(),
		IpAddress: ipAddress,
		UserAgent: userAgent,
	}
	if err := uow.UserRepository().CreateRefreshToken(ctx, refreshTokenEntity); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &dto.SignInResponse{
		AccessToken:  signedToken,
		RefreshToken: rawRefreshToken,
		User: dto.UserResponse{
			Id:        user.Id,
			Email:     user.Email,
			FullName:  user.FullName,
			AvatarURL: user.AvatarURL,
			CreatedAt: user.CreatedAt,
		},
	}, nil
}

func (s *authService) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.RefreshTokenResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	stored, err := uow.UserRepository().FindRefreshTokenByHash(ctx, hashToken(req.RefreshToken))
	if err != nil {
		return nil, err
	}
	if stored == nil || stored.Revoked || time.Now().After(stored.ExpiresAt) {
		return nil, apperrors.ErrTokenInvalid
	}

	signedToken, err := signAccessToken(stored.UserId)
	if err != nil {
		return nil, err
	}

	// Rotate: revoke the presented token, issue a fresh one
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.UserRepository().RevokeRefreshToken(ctx, stored.Id); err != nil {
		return nil, err
	}

	rawRefreshToken := uuid.New().String()
	next := &entity.UserRefreshToken{
		Id:        uuid.New(),
		UserId:    stored.UserId,
		TokenHash: hashToken(rawRefreshToken),
		ExpiresAt: time.Now().Add(30 * 24 * time.Hour),
		CreatedAt: time.Now(),
		IpAddress: stored.IpAddress,
		UserAgent: stored.UserAgent,
	}
	if err := uow.UserRepository().CreateRefreshToken(ctx, next); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &dto.RefreshTokenResponse{
		AccessToken:  signedToken,
		RefreshToken: rawRefreshToken,
	}, nil
}

func (s *authService) SignOut(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)

	stored, err := uow.UserRepository().FindRefreshTokenByHash(ctx, hashToken(refreshToken))
	if err != nil {
		return err
	}
	if stored == nil {
		return nil
	}
	return uow.UserRepository().RevokeRefreshToken(ctx, stored.Id)
}

func (s *authService) RequestPasswordReset(ctx context.Context, req *dto.RequestPasswordResetRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return err
	}
	if user == nil {
		// Respond success regardless so the endpoint can't enumerate accounts
		return nil
	}

	rawToken := uuid.New().String()
	resetToken := &entity.PasswordResetToken{
		Id:        uuid.New(),
		UserId:    user.Id,
		Token:     hashToken(rawToken),
		ExpiresAt: time.Now().Add(time.Hour),
		CreatedAt: time.Now(),
	}
	if err := uow.UserRepository().CreatePasswordResetToken(ctx, resetToken); err != nil {
		return err
	}

	go func() {
		if emailErr := s.emailService.SendResetToken(user.Email, rawToken); emailErr != nil {
			fmt.Printf("Error sending reset email: %v\n", emailErr)
		}
	}()

	if s.eventPublisher != nil {
		evt := events.New(events.TypePasswordResetReq, map[string]interface{}{
			"user_id": user.Id,
		})
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish PASSWORD_RESET_REQUESTED event: %v\n", err)
		}
	}

	return nil
}

func (s *authService) VerifyPasswordReset(ctx context.Context, req *dto.VerifyPasswordResetRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	stored, err := uow.UserRepository().FindPasswordResetToken(ctx, hashToken(req.Token))
	if err != nil {
		return err
	}
	if stored == nil || stored.Used || time.Now().After(stored.ExpiresAt) {
		return apperrors.ErrTokenInvalid
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: stored.UserId})
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.ErrTokenInvalid
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	hashStr := string(hash)

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	user.PasswordHash = &hashStr
	user.UpdatedAt = time.Now()
	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return err
	}

	if err := uow.UserRepository().MarkPasswordResetTokenUsed(ctx, stored.Id); err != nil {
		return err
	}

	return uow.Commit()
}
