package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/gymportal/portal/internal/auth"
	ierr "github.com/gymportal/portal/internal/errors"
	"github.com/gymportal/portal/internal/types"
)

const (
	MemberToken = "member-token"
	AdminToken  = "admin-token"
)

// StaticAuthProvider accepts a fixed set of access tokens
type StaticAuthProvider struct {
	mu     sync.Mutex
	tokens map[string]*auth.Claims
	Calls  int
}

var _ auth.Provider = (*StaticAuthProvider)(nil)

// NewStaticAuthProvider knows MemberToken and AdminToken for the default seeded users
func NewStaticAuthProvider() *StaticAuthProvider {
	expires := time.Now().Add(time.Hour)
	return &StaticAuthProvider{
		tokens: map[string]*auth.Claims{
			MemberToken: {UserID: DefaultUserID, Email: "member@gym.test", Role: types.UserRoleMember, ExpiresAt: expires},
			AdminToken:  {UserID: DefaultAdminID, Email: "admin@gym.test", Role: types.UserRoleAdmin, ExpiresAt: expires},
		},
	}
}

func (p *StaticAuthProvider) SignIn(ctx context.Context, req auth.Credentials) (*auth.SignInResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for token, claims := range p.tokens {
		if claims.Email == req.Email && req.Password != "" {
			return &auth.SignInResult{AccessToken: token, ExpiresAt: claims.ExpiresAt, Claims: claims}, nil
		}
	}
	return nil, ierr.NewError("invalid credentials").
		WithHint("Invalid email or password").
		Mark(ierr.ErrUnauthorized)
}

func (p *StaticAuthProvider) SignOut(ctx context.Context, accessToken string) error {
	return nil
}

func (p *StaticAuthProvider) ValidateToken(ctx context.Context, token string) (*auth.Claims, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Calls++
	claims, ok := p.tokens[token]
	if !ok {
		return nil, ierr.NewError("unknown token").
			WithHint("Invalid or expired session").
			Mark(ierr.ErrUnauthorized)
	}
	return claims, nil
}
