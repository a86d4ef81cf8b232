package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/gymportal/portal/internal/domain/payment"
	"github.com/gymportal/portal/internal/domain/user"
	ierr "github.com/gymportal/portal/internal/errors"
	"github.com/gymportal/portal/internal/types"
	"github.com/samber/lo"
)

// InMemoryPaymentStore implements payment.Repository with the same merge
// rules as the SQL upsert. Rows are copied in and out.
type InMemoryPaymentStore struct {
	*InMemoryStore[*payment.Payment]
	mu       sync.Mutex
	users    user.Repository
	now      func() time.Time
	upserts  int
	updates  int
	failNext error
}

// NewInMemoryPaymentStore creates a new in-memory payment repository. users
// backs the display fields of ListAllWithUsers and may be nil.
func NewInMemoryPaymentStore(users user.Repository) *InMemoryPaymentStore {
	return &InMemoryPaymentStore{
		InMemoryStore: NewInMemoryStore[*payment.Payment](),
		users:         users,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the time source used for updated_at and paid_at defaults
func (m *InMemoryPaymentStore) SetClock(now func() time.Time) {
	m.now = now
}

// FailNext makes the next write return err
func (m *InMemoryPaymentStore) FailNext(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = err
}

// Writes reports how many Upsert and UpdateStatus calls reached the store
func (m *InMemoryPaymentStore) Writes() (upserts, updates int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.upserts, m.updates
}

func (m *InMemoryPaymentStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InMemoryStore.Clear()
	m.upserts, m.updates, m.failNext = 0, 0, nil
}

func (m *InMemoryPaymentStore) takeFailure() error {
	err := m.failNext
	m.failNext = nil
	return err
}

func (m *InMemoryPaymentStore) findByIntent(ctx context.Context, piID string) (*payment.Payment, bool) {
	return m.InMemoryStore.Find(ctx, func(_ context.Context, p *payment.Payment) bool {
		return p.PaymentIntentID() == piID
	})
}

func (m *InMemoryPaymentStore) Upsert(ctx context.Context, p *payment.Payment) (*payment.Payment, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.upserts++
	if err := m.takeFailure(); err != nil {
		return nil, ierr.WithError(err).WithHint("Failed to save payment").Mark(ierr.ErrDatabase)
	}

	now := m.now()
	row := clonePayment(p)
	if row.ID == "" {
		row.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT)
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	row.UpdatedAt = now
	if row.Metadata == nil {
		row.Metadata = types.Metadata{}
	}

	if piID := row.PaymentIntentID(); piID != "" {
		if existing, ok := m.findByIntent(ctx, piID); ok {
			row.ID = existing.ID
			row.CreatedAt = existing.CreatedAt
			if existing.PaidAt != nil {
				row.PaidAt = lo.ToPtr(*existing.PaidAt)
			}
			if row.Notes == nil && existing.Notes != nil {
				row.Notes = lo.ToPtr(*existing.Notes)
			}
			row.StripeInvoiceID = keepLinkage(row.StripeInvoiceID, existing.StripeInvoiceID)
			row.StripeSubscriptionID = keepLinkage(row.StripeSubscriptionID, existing.StripeSubscriptionID)
			row.PriceID = keepLinkage(row.PriceID, existing.PriceID)
			row.ProductID = keepLinkage(row.ProductID, existing.ProductID)
			row.Metadata = existing.Metadata.Merge(row.Metadata)
		}
	}

	m.InMemoryStore.Put(ctx, row.ID, row)
	return clonePayment(row), nil
}

func (m *InMemoryPaymentStore) UpdateStatus(ctx context.Context, paymentIntentID string, status string, update *payment.StatusUpdate) (int64, error) {
	if update == nil {
		update = &payment.StatusUpdate{}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates++
	if err := m.takeFailure(); err != nil {
		return 0, ierr.WithError(err).WithHint("Failed to update payment status").Mark(ierr.ErrDatabase)
	}

	existing, ok := m.findByIntent(ctx, paymentIntentID)
	if !ok {
		return 0, nil
	}

	now := m.now()
	row := clonePayment(existing)
	row.Status = types.PaymentStatus(status)
	row.UpdatedAt = now
	if status == string(types.PaymentStatusSucceeded) && row.PaidAt == nil {
		row.PaidAt = lo.ToPtr(now)
	}
	if update.InvoiceID != nil {
		row.StripeInvoiceID = lo.ToPtr(*update.InvoiceID)
	}
	if update.SubscriptionID != nil {
		row.StripeSubscriptionID = lo.ToPtr(*update.SubscriptionID)
	}
	row.Metadata = row.Metadata.Merge(update.Metadata)

	m.InMemoryStore.Put(ctx, row.ID, row)
	return 1, nil
}

func (m *InMemoryPaymentStore) GetByPaymentIntentID(ctx context.Context, paymentIntentID string) (*payment.Payment, error) {
	p, ok := m.findByIntent(ctx, paymentIntentID)
	if !ok {
		return nil, ierr.NewError("payment not found").
			WithHintf("No payment recorded for intent %s", paymentIntentID).
			Mark(ierr.ErrNotFound)
	}
	return clonePayment(p), nil
}

func (m *InMemoryPaymentStore) ListByUser(ctx context.Context, userID string) ([]*payment.Payment, error) {
	items := m.InMemoryStore.List(ctx, func(_ context.Context, p *payment.Payment) bool {
		return p.UserID == userID
	}, nil)
	return lo.Map(items, func(p *payment.Payment, _ int) *payment.Payment { return clonePayment(p) }), nil
}

func (m *InMemoryPaymentStore) ListAllWithUsers(ctx context.Context) ([]*payment.WithUser, error) {
	items := m.InMemoryStore.List(ctx, nil, nil)
	out := make([]*payment.WithUser, 0, len(items))
	for _, p := range items {
		row := &payment.WithUser{Payment: *clonePayment(p)}
		if m.users != nil {
			if u, err := m.users.GetByID(ctx, p.UserID); err == nil {
				row.UserEmail = lo.ToPtr(u.Email)
				row.UserFullName = u.FullName
			}
		}
		out = append(out, row)
	}
	return out, nil
}

// All returns every stored row
func (m *InMemoryPaymentStore) All() []*payment.Payment {
	items := m.InMemoryStore.List(context.Background(), nil, nil)
	return lo.Map(items, func(p *payment.Payment, _ int) *payment.Payment { return clonePayment(p) })
}

// keepLinkage mirrors COALESCE(EXCLUDED.col, payments.col)
func keepLinkage(incoming, stored *string) *string {
	if incoming != nil {
		return incoming
	}
	if stored != nil {
		return lo.ToPtr(*stored)
	}
	return nil
}

func clonePayment(p *payment.Payment) *payment.Payment {
	c := *p
	c.Metadata = types.Metadata{}.Merge(p.Metadata)
	if p.PaidAt != nil {
		c.PaidAt = lo.ToPtr(*p.PaidAt)
	}
	return &c
}
