package service

import (
	"context"

	"github.com/gymportal/portal/internal/api/dto"
	"github.com/gymportal/portal/internal/auth"
	"github.com/gymportal/portal/internal/domain/user"
	"github.com/gymportal/portal/internal/session"
	"github.com/gymportal/portal/internal/validator"
)

// AuthService fronts the hosted identity provider and keeps the session
// cache in step with sign-in and sign-out
type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Logout(ctx context.Context, accessToken string) error
	GetSession(ctx context.Context, accessToken string) (*dto.SessionResponse, error)
}

type authService struct {
	ServiceParams
	provider auth.Provider
	sessions session.Service
}

func NewAuthService(params ServiceParams, provider auth.Provider, sessions session.Service) AuthService {
	return &authService{
		ServiceParams: params,
		provider:      provider,
		sessions:      sessions,
	}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := validator.ValidateRequest(req); err != nil {
		return nil, err
	}

	result, err := s.provider.SignIn(ctx, auth.Credentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.UserRepo.EnsureProfile(ctx, user.NewUser(result.Claims.UserID, result.Claims.Email)); err != nil {
		s.Logger.Errorw("failed to ensure profile on login",
			"user_id", result.Claims.UserID,
			"error", err)
		return nil, err
	}

	s.sessions.OnSignIn(ctx, result.AccessToken, result.Claims)

	return &dto.LoginResponse{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		ExpiresAt:    result.ExpiresAt,
		UserID:       result.Claims.UserID,
	}, nil
}

// Logout evicts the cached session even when the provider call fails
func (s *authService) Logout(ctx context.Context, accessToken string) error {
	s.sessions.OnSignOut(ctx, accessToken)
	if err := s.provider.SignOut(ctx, accessToken); err != nil {
		s.Logger.Warnw("provider sign out failed", "error", err)
		return err
	}
	return nil
}

func (s *authService) GetSession(ctx context.Context, accessToken string) (*dto.SessionResponse, error) {
	sess, err := s.sessions.Get(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	return dto.NewSessionResponse(sess), nil
}
