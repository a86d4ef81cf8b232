package session

import (
	"context"
	"time"

	"github.com/gymportal/portal/internal/auth"
	"github.com/gymportal/portal/internal/cache"
	"github.com/gymportal/portal/internal/config"
	ierr "github.com/gymportal/portal/internal/errors"
	"github.com/gymportal/portal/internal/logger"
	"github.com/gymportal/portal/internal/types"
)

// Session is the caller identity resolved from an access token
type Session struct {
	UserID    string         `json:"user_id"`
	Email     string         `json:"email"`
	Role      types.UserRole `json:"role"`
	ExpiresAt time.Time      `json:"expires_at"`
	FetchedAt time.Time      `json:"fetched_at"`
}

func (s *Session) IsAdmin() bool {
	return s.Role == types.UserRoleAdmin
}

// Service fetches sessions and reuses them for a bounded staleness window.
// Sign-in seeds the cache and sign-out evicts the entry immediately.
type Service interface {
	Get(ctx context.Context, accessToken string) (*Session, error)
	OnSignIn(ctx context.Context, accessToken string, claims *auth.Claims) *Session
	OnSignOut(ctx context.Context, accessToken string)
}

type service struct {
	provider auth.Provider
	cache    cache.Cache
	ttl      time.Duration
	logger   *logger.Logger
	now      func() time.Time
}

// NewService owns a dedicated cache so session entries are unaffected by the
// shared cache's enabled flag and default expiry
func NewService(cfg *config.Configuration, provider auth.Provider, logger *logger.Logger) Service {
	store := cache.NewInMemoryCache(cfg.Session.TTL, cfg.Session.CleanupInterval, true)
	return newService(provider, store, cfg.Session.TTL, logger, time.Now)
}

func newService(provider auth.Provider, store cache.Cache, ttl time.Duration, logger *logger.Logger, now func() time.Time) *service {
	if ttl <= 0 {
		ttl = cache.DefaultExpiration
	}
	return &service{
		provider: provider,
		cache:    store,
		ttl:      ttl,
		logger:   logger,
		now:      now,
	}
}

func (s *service) key(accessToken string) string {
	return cache.GenerateKey(cache.PrefixSession, accessToken)
}

func (s *service) Get(ctx context.Context, accessToken string) (*Session, error) {
	if accessToken == "" {
		return nil, ierr.NewError("missing access token").
			WithHint("Authentication required").
			Mark(ierr.ErrUnauthorized)
	}

	if v, ok := s.cache.Get(ctx, s.key(accessToken)); ok {
		if sess, ok := v.(*Session); ok && s.fresh(sess) {
			return sess, nil
		}
		s.cache.Delete(ctx, s.key(accessToken))
	}

	claims, err := s.provider.ValidateToken(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	return s.store(ctx, accessToken, claims), nil
}

func (s *service) OnSignIn(ctx context.Context, accessToken string, claims *auth.Claims) *Session {
	sess := s.store(ctx, accessToken, claims)
	s.logger.Debugw("session cached on sign in", "user_id", sess.UserID)
	return sess
}

func (s *service) OnSignOut(ctx context.Context, accessToken string) {
	s.cache.Delete(ctx, s.key(accessToken))
}

func (s *service) store(ctx context.Context, accessToken string, claims *auth.Claims) *Session {
	sess := &Session{
		UserID:    claims.UserID,
		Email:     claims.Email,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt,
		FetchedAt: s.now(),
	}
	s.cache.Set(ctx, s.key(accessToken), sess, s.expiration(sess))
	return sess
}

// expiration never outlives the token itself
func (s *service) expiration(sess *Session) time.Duration {
	ttl := s.ttl
	if !sess.ExpiresAt.IsZero() {
		if left := sess.ExpiresAt.Sub(s.now()); left < ttl {
			ttl = left
		}
	}
	if ttl <= 0 {
		ttl = time.Second
	}
	return ttl
}

func (s *service) fresh(sess *Session) bool {
	now := s.now()
	if !sess.ExpiresAt.IsZero() && !now.Before(sess.ExpiresAt) {
		return false
	}
	return now.Sub(sess.FetchedAt) < s.ttl
}
