package auth

import (
	"context"
	"time"

	"github.com/gymportal/portal/internal/config"
	"github.com/gymportal/portal/internal/types"
)

type Credentials struct {
	Email    string
	Password string
}

// Claims is what the portal trusts from a verified access token
type Claims struct {
	UserID    string
	Email     string
	Role      types.UserRole
	ExpiresAt time.Time
}

type SignInResult struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	Claims       *Claims
}

// Provider is the hosted identity service
type Provider interface {
	SignIn(ctx context.Context, req Credentials) (*SignInResult, error)
	SignOut(ctx context.Context, accessToken string) error
	ValidateToken(ctx context.Context, token string) (*Claims, error)
}

func NewProvider(cfg *config.Configuration) Provider {
	return NewSupabaseAuth(cfg)
}
