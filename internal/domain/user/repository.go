package user

import (
	"context"
)

type Repository interface {
	// EnsureProfile inserts the profile when missing and returns the stored row
	EnsureProfile(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByStripeCustomerID(ctx context.Context, customerID string) (*User, error)
	SetStripeCustomerID(ctx context.Context, userID, customerID string) error
}
