package dto

import (
	ierr "github.com/gymportal/portal/internal/errors"
)

// CreatePaymentIntentRequest starts a one-time card checkout in the browser
type CreatePaymentIntentRequest struct {
	Amount      int64  `json:"amount" validate:"required,gt=0"`
	Currency    string `json:"currency,omitempty" validate:"omitempty,len=3"`
	Description string `json:"description,omitempty" validate:"omitempty,max=255"`
	PriceID     string `json:"priceId,omitempty"`
	ProductID   string `json:"productId,omitempty"`
}

func (r *CreatePaymentIntentRequest) Validate() error {
	if r.Amount <= 0 {
		return ierr.NewError("amount must be positive").
			WithHint("Amount must be greater than zero").
			Mark(ierr.ErrValidation)
	}
	return nil
}

type CreatePaymentIntentResponse struct {
	PaymentIntentID string `json:"paymentIntentId"`
	ClientSecret    string `json:"clientSecret"`
	CustomerID      string `json:"customerId"`
}
