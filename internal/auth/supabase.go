package auth

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/gymportal/portal/internal/config"
	ierr "github.com/gymportal/portal/internal/errors"
	"github.com/gymportal/portal/internal/types"
	"github.com/nedpals/supabase-go"
)

type supabaseAuth struct {
	config config.SupabaseConfig
	client *supabase.Client
}

func NewSupabaseAuth(cfg *config.Configuration) Provider {
	apiKey := cfg.Supabase.AnonKey
	if apiKey == "" {
		apiKey = cfg.Supabase.ServiceKey
	}

	client := supabase.CreateClient(cfg.Supabase.BaseURL, apiKey)
	if client == nil {
		log.Fatalf("failed to create Supabase client")
	}

	return &supabaseAuth{
		config: cfg.Supabase,
		client: client,
	}
}

func (s *supabaseAuth) SignIn(ctx context.Context, req Credentials) (*SignInResult, error) {
	details, err := s.client.Auth.SignIn(ctx, supabase.UserCredentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invalid email or password").
			Mark(ierr.ErrUnauthorized)
	}

	claims, err := s.ValidateToken(ctx, details.AccessToken)
	if err != nil {
		return nil, err
	}

	return &SignInResult{
		AccessToken:  details.AccessToken,
		RefreshToken: details.RefreshToken,
		ExpiresAt:    claims.ExpiresAt,
		Claims:       claims,
	}, nil
}

func (s *supabaseAuth) SignOut(ctx context.Context, accessToken string) error {
	if err := s.client.Auth.SignOut(ctx, accessToken); err != nil {
		return ierr.WithError(err).
			WithHint("Could not sign out").
			Mark(ierr.ErrHTTPClient)
	}
	return nil
}

// ValidateToken verifies a Supabase access token locally with the project's JWT secret
func (s *supabaseAuth) ValidateToken(ctx context.Context, token string) (*Claims, error) {
	return ParseToken(token, s.config.JWTSecret)
}

// ParseToken verifies an HS256 Supabase access token. The role comes from
// app_metadata so members cannot grant it to themselves through user_metadata.
func ParseToken(token, secret string) (*Claims, error) {
	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invalid or expired token").
			Mark(ierr.ErrUnauthorized)
	}

	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok || !parsedToken.Valid {
		return nil, ierr.NewError("invalid token claims").
			WithHint("Invalid or expired token").
			Mark(ierr.ErrUnauthorized)
	}

	userID, userOk := claims["sub"].(string)
	if !userOk || userID == "" {
		return nil, ierr.NewError("token missing user ID").
			WithHint("Invalid or expired token").
			Mark(ierr.ErrUnauthorized)
	}

	role := types.UserRoleMember
	if appMetadata, ok := claims["app_metadata"].(map[string]interface{}); ok {
		if r, ok := appMetadata["role"].(string); ok && types.UserRole(r) == types.UserRoleAdmin {
			role = types.UserRoleAdmin
		}
	}

	out := &Claims{
		UserID: userID,
		Role:   role,
	}
	if email, ok := claims["email"].(string); ok {
		out.Email = email
	}
	if exp, ok := claims["exp"].(float64); ok {
		out.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return out, nil
}
