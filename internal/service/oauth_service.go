package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"lecturelens-be/internal/dto"
	"lecturelens-be/internal/entity"
	"lecturelens-be/internal/repository/specification"
	"lecturelens-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

type IOAuthService interface {
	GetLoginURL(provider string) (string, error)
	HandleCallback(ctx context.Context, provider string, code string) (*dto.SignInResponse, error)
}

type oauthService struct {
	uowFactory unitofwork.RepositoryFactory
	googleConf *oauth2.Config
}

func NewOAuthService(uowFactory unitofwork.RepositoryFactory) IOAuthService {
	conf := &oauth2.Config{
		ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		RedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}

	return &oauthService{
		uowFactory: uowFactory,
		googleConf: conf,
	}
}

func (s *oauthService) GetLoginURL(provider string) (string, error) {
	if provider != "google" {
		return "", errors.New("unsupported provider")
	}

	b := make([]byte, 16)
	rand.Read(b)
	state := base64.URLEncoding.EncodeToString(b)

	return s.googleConf.AuthCodeURL(state), nil
}

func (s *oauthService) HandleCallback(ctx context.Context, provider string, code string) (*dto.SignInResponse, error) {
	if provider != "google" {
		return nil, errors.New("unsupported provider")
	}

	token, err := s.googleConf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("code exchange failed: %w", err)
	}

	resp, err := http.Get("https://www.googleapis.com/oauth2/v2/userinfo?access_token=" + token.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed getting user info: %w", err)
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed reading response: %w", err)
	}

	var googleUser struct {
		ID            string `json:"id"`
		Email         string `json:"email"`
		VerifiedEmail bool   `json:"verified_email"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}
	if err := json.Unmarshal(content, &googleUser); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: googleUser.Email})
	if err != nil {
		return nil, err
	}

	if user == nil {
		now := time.Now()
		user = &entity.User{
			Id:              uuid.New(),
			Email:           googleUser.Email,
			FullName:        googleUser.Name,
			Status:          entity.UserStatusActive,
			EmailVerified:   googleUser.VerifiedEmail,
			EmailVerifiedAt: &now,
			AvatarURL:       &googleUser.Picture,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		if err := uow.Begin(ctx); err != nil {
			return nil, err
		}
		defer uow.Rollback()

		if err := uow.UserRepository().Create(ctx, user); err != nil {
			return nil, err
		}
		if err := uow.UserRepository().CreateProvider(ctx, &entity.UserProvider{
			Id:             uuid.New(),
			UserId:         user.Id,
			ProviderName:   provider,
			ProviderUserId: googleUser.ID,
			AvatarURL:      googleUser.Picture,
			CreatedAt:      now,
		}); err != nil {
			return nil, err
		}
		if err := uow.Commit(); err != nil {
			return nil, err
		}
	} else {
		// Link the provider on first OAuth sign-in of an existing account
		linked, err := uow.UserRepository().FindProvider(ctx, provider, googleUser.ID)
		if err != nil {
			return nil, err
		}
		if linked == nil {
			if err := uow.UserRepository().CreateProvider(ctx, &entity.UserProvider{
				Id:             uuid.New(),
				UserId:         user.Id,
				ProviderName:   provider,
				ProviderUserId: googleUser.ID,
				AvatarURL:      googleUser.Picture,
				CreatedAt:      time.Now(),
			}); err != nil {
				return nil, err
			}
		}
	}

	signedToken, err := signAccessToken(user.Id)
	if err != nil {
		return nil, err
	}

	rawRefreshToken := uuid.New().String()
	if err := uow.UserRepository().CreateRefreshToken(ctx, &entity.UserRefreshToken{
		Id:        uuid.New(),
		UserId:    user.Id,
		TokenHash: hashToken(rawRefreshToken),
		ExpiresAt: time.Now().Add(30 * 24 * time.Hour),
		CreatedAt: time.Now(),
	}); err != nil {
		return nil, err
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
