package payment

import (
	"time"

	ierr "github.com/gymportal/portal/internal/errors"
	"github.com/gymportal/portal/internal/types"
)

// Payment is one row of the payments ledger. Rows carrying a processor
// payment intent id are unique on it; manual rows have none.
type Payment struct {
	ID                    string  `db:"id" json:"id"`
	StripePaymentIntentID *string `db:"stripe_payment_intent_id" json:"stripe_payment_intent_id,omitempty"`
	StripeInvoiceID       *string `db:"stripe_invoice_id" json:"stripe_invoice_id,omitempty"`
	StripeSubscriptionID  *string `db:"stripe_subscription_id" json:"stripe_subscription_id,omitempty"`

	UserID string `db:"user_id" json:"user_id"`
	// StripeCustomerID is empty when the customer was unknown at write time
	StripeCustomerID string `db:"stripe_customer_id" json:"stripe_customer_id"`

	PaymentType types.PaymentType   `db:"payment_type" json:"payment_type"`
	Amount      int64               `db:"amount" json:"amount"`
	Currency    string              `db:"currency" json:"currency"`
	Status      types.PaymentStatus `db:"status" json:"status"`

	// Card snapshot taken at settlement, never refreshed
	PaymentMethodID *string `db:"payment_method_id" json:"payment_method_id,omitempty"`
	CardBrand       *string `db:"card_brand" json:"card_brand,omitempty"`
	CardLast4       *string `db:"card_last4" json:"card_last4,omitempty"`
	CardExpMonth    *int64  `db:"card_exp_month" json:"card_exp_month,omitempty"`
	CardExpYear     *int64  `db:"card_exp_year" json:"card_exp_year,omitempty"`

	PriceID   *string `db:"price_id" json:"price_id,omitempty"`
	ProductID *string `db:"product_id" json:"product_id,omitempty"`

	Description *string        `db:"description" json:"description,omitempty"`
	Metadata    types.Metadata `db:"metadata" json:"metadata,omitempty"`
	// Notes is staff-entered only
	Notes *string `db:"notes" json:"notes,omitempty"`

	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
	PaidAt    *time.Time `db:"paid_at" json:"paid_at,omitempty"`
}

// WithUser is a ledger row joined with the owner's display fields for admin listings
type WithUser struct {
	Payment
	UserEmail    *string `db:"user_email" json:"user_email,omitempty"`
	UserFullName *string `db:"user_full_name" json:"user_full_name,omitempty"`
}

// StatusUpdate carries the optional fields merged by a status transition
type StatusUpdate struct {
	InvoiceID      *string
	SubscriptionID *string
	Metadata       types.Metadata
}

func (p *Payment) Validate() error {
	if p.UserID == "" {
		return ierr.NewError("user_id is required").
			WithHint("Payment must belong to a user").
			Mark(ierr.ErrValidation)
	}
	if err := p.PaymentType.Validate(); err != nil {
		return err
	}
	if p.Amount < 0 {
		return ierr.NewError("amount must not be negative").
			WithHint("Amount must be zero or greater").
			WithReportableDetails(map[string]any{
				"amount": p.Amount,
			}).
			Mark(ierr.ErrValidation)
	}
	if p.Currency == "" {
		return ierr.NewError("currency is required").
			WithHint("Currency is required").
			Mark(ierr.ErrValidation)
	}
	if p.Status == "" {
		return ierr.NewError("status is required").
			WithHint("Payment status is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// PaymentIntentID is nil-safe access to the idempotency key
func (p *Payment) PaymentIntentID() string {
	if p.StripePaymentIntentID == nil {
		return ""
	}
	return *p.StripePaymentIntentID
}

// SortTime is paid_at when set, created_at otherwise
func (p *Payment) SortTime() time.Time {
	if p.PaidAt != nil {
		return *p.PaidAt
	}
	return p.CreatedAt
}
