package testutil

import (
	"context"
	"time"

	"github.com/gymportal/portal/internal/domain/user"
	ierr "github.com/gymportal/portal/internal/errors"
	"github.com/samber/lo"
)

// InMemoryUserStore implements user.Repository
type InMemoryUserStore struct {
	*InMemoryStore[*user.User]
}

func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{
		InMemoryStore: NewInMemoryStore[*user.User](),
	}
}

func (s *InMemoryUserStore) EnsureProfile(ctx context.Context, u *user.User) (*user.User, error) {
	if existing, err := s.InMemoryStore.Get(ctx, u.ID); err == nil {
		c := *existing
		if u.Email != "" {
			c.Email = u.Email
		}
		c.UpdatedAt = time.Now().UTC()
		s.InMemoryStore.Put(ctx, c.ID, &c)
		return lo.ToPtr(c), nil
	}

	c := *u
	s.InMemoryStore.Put(ctx, c.ID, &c)
	return lo.ToPtr(c), nil
}

func (s *InMemoryUserStore) GetByID(ctx context.Context, id string) (*user.User, error) {
	u, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("user not found").
			WithHintf("User %s not found", id).
			Mark(ierr.ErrNotFound)
	}
	return lo.ToPtr(*u), nil
}

func (s *InMemoryUserStore) GetByStripeCustomerID(ctx context.Context, customerID string) (*user.User, error) {
	u, ok := s.InMemoryStore.Find(ctx, func(_ context.Context, u *user.User) bool {
		return u.StripeCustomerID != nil && *u.StripeCustomerID == customerID
	})
	if !ok {
		return nil, ierr.NewError("user not found").
			WithHint("No user linked to this customer").
			Mark(ierr.ErrNotFound)
	}
	return lo.ToPtr(*u), nil
}

func (s *InMemoryUserStore) SetStripeCustomerID(ctx context.Context, userID, customerID string) error {
	u, err := s.InMemoryStore.Get(ctx, userID)
	if err != nil {
		return ierr.NewError("user not found").
			WithHintf("User %s not found", userID).
			Mark(ierr.ErrNotFound)
	}
	c := *u
	c.StripeCustomerID = lo.ToPtr(customerID)
	c.UpdatedAt = time.Now().UTC()
	s.InMemoryStore.Put(ctx, c.ID, &c)
	return nil
}

// Seed stores u as is
func (s *InMemoryUserStore) Seed(u *user.User) {
	c := *u
	s.InMemoryStore.Put(context.Background(), c.ID, &c)
}
