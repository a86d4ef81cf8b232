package testutil

import (
	"context"

	"github.com/gymportal/portal/internal/domain/waiver"
	ierr "github.com/gymportal/portal/internal/errors"
	"github.com/samber/lo"
)

// InMemoryWaiverStore implements waiver.Repository
type InMemoryWaiverStore struct {
	*InMemoryStore[*waiver.Waiver]
}

func NewInMemoryWaiverStore() *InMemoryWaiverStore {
	return &InMemoryWaiverStore{
		InMemoryStore: NewInMemoryStore[*waiver.Waiver](),
	}
}

func (s *InMemoryWaiverStore) Create(ctx context.Context, w *waiver.Waiver) error {
	c := *w
	return s.InMemoryStore.Create(ctx, c.ID, &c)
}

func (s *InMemoryWaiverStore) GetLatestByUser(ctx context.Context, userID string) (*waiver.Waiver, error) {
	items := s.InMemoryStore.List(ctx, func(_ context.Context, w *waiver.Waiver) bool {
		return w.UserID == userID
	}, func(a, b *waiver.Waiver) bool {
		return a.SignedAt.After(b.SignedAt)
	})
	if len(items) == 0 {
		return nil, ierr.NewError("waiver not found").
			WithHint("No signed waiver on file").
			Mark(ierr.ErrNotFound)
	}
	return lo.ToPtr(*items[0]), nil
}
