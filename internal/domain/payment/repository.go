package payment

import (
	"context"
)

// Repository is the ledger store
type Repository interface {
	// Upsert merges on stripe_payment_intent_id when set and inserts otherwise.
	// id, created_at and a previously set paid_at survive a merge; notes survive
	// unless the incoming row carries its own.
	Upsert(ctx context.Context, p *Payment) (*Payment, error)

	// UpdateStatus targets the row keyed by paymentIntentID and reports rows
	// affected; zero is a normal outcome for events that beat the first write.
	UpdateStatus(ctx context.Context, paymentIntentID string, status string, update *StatusUpdate) (int64, error)

	GetByPaymentIntentID(ctx context.Context, paymentIntentID string) (*Payment, error)

	// ListByUser is unordered; callers sort with SortByPaidOrCreated
	ListByUser(ctx context.Context, userID string) ([]*Payment, error)

	// ListAllWithUsers is unordered; callers sort with SortByPaidOrCreated
	ListAllWithUsers(ctx context.Context) ([]*WithUser, error)
}
