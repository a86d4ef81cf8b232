package dto

import (
	"strings"

	ierr "github.com/gymportal/portal/internal/errors"
)

type CreateSubscriptionRequest struct {
	CustomerID      string `json:"customerId" validate:"required"`
	PaymentMethodID string `json:"paymentMethodId" validate:"required"`
	PriceID         string `json:"priceId" validate:"required"`
}

func (r *CreateSubscriptionRequest) Validate() error {
	if !strings.HasPrefix(r.CustomerID, "cus_") {
		return ierr.NewError("invalid customer id").
			WithHint("customerId must be a Stripe customer id").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// CreateSubscriptionResponse omits the intent fields when no first-invoice
// intent could be resolved; the webhook reconciles those subscriptions later
type CreateSubscriptionResponse struct {
	SubscriptionID      string `json:"subscriptionId"`
	Status              string `json:"status"`
	ClientSecret        string `json:"clientSecret,omitempty"`
	PaymentIntentStatus string `json:"paymentIntentStatus,omitempty"`
	PaymentIntentID     string `json:"paymentIntentId,omitempty"`
}
