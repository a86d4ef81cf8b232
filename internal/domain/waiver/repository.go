package waiver

import (
	"context"
)

type Repository interface {
	Create(ctx context.Context, w *Waiver) error
	// GetLatestByUser returns ErrNotFound when the user never signed
	GetLatestByUser(ctx context.Context, userID string) (*Waiver, error)
}
