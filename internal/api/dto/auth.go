package dto

import (
	"time"

	"github.com/gymportal/portal/internal/session"
	"github.com/gymportal/portal/internal/types"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	ExpiresAt    time.Time `json:"expiresAt"`
	UserID       string    `json:"userId"`
}

type SessionResponse struct {
	UserID    string         `json:"userId"`
	Email     string         `json:"email"`
	Role      types.UserRole `json:"role"`
	ExpiresAt time.Time      `json:"expiresAt"`
}

func NewSessionResponse(s *session.Session) *SessionResponse {
	return &SessionResponse{
		UserID:    s.UserID,
		Email:     s.Email,
		Role:      s.Role,
		ExpiresAt: s.ExpiresAt,
	}
}
