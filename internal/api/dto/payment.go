package dto

import (
	"strings"
	"time"

	"github.com/gymportal/portal/internal/domain/payment"
	ierr "github.com/gymportal/portal/internal/errors"
	"github.com/gymportal/portal/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

const subscriptionCancellationDescription = "Subscription cancellation"

// SavePaymentRequest is the browser's best-effort report of a confirmed intent
type SavePaymentRequest struct {
	PaymentIntentID string            `json:"paymentIntentId" validate:"required"`
	PaymentType     types.PaymentType `json:"paymentType" validate:"required"`
	PriceID         string            `json:"priceId,omitempty"`
}

func (r *SavePaymentRequest) Validate() error {
	if !strings.HasPrefix(r.PaymentIntentID, "pi_") {
		return ierr.NewError("invalid payment intent id").
			WithHint("paymentIntentId must be a Stripe payment intent id").
			WithReportableDetails(map[string]any{
				"payment_intent_id": r.PaymentIntentID,
			}).
			Mark(ierr.ErrValidation)
	}
	return r.PaymentType.Validate()
}

// ManualPaymentRequest records a cash or transfer payment taken by staff
type ManualPaymentRequest struct {
	UserID              string                    `json:"userId" validate:"required"`
	PaymentMethod       types.ManualPaymentMethod `json:"paymentMethod" validate:"required"`
	Amount              *int64                    `json:"amount" validate:"required"`
	PaymentType         types.PaymentType         `json:"paymentType,omitempty"`
	Currency            string                    `json:"currency,omitempty"`
	Description         string                    `json:"description,omitempty"`
	Notes               string                    `json:"notes,omitempty"`
	Category            string                    `json:"category,omitempty"`
	DiscountAmount      *int64                    `json:"discountAmount,omitempty"`
	DiscountReason      string                    `json:"discountReason,omitempty"`
	PaidAt              *time.Time                `json:"paidAt,omitempty"`
	SubscriptionEndDate string                    `json:"subscriptionEndDate,omitempty"`
}

// Validate applies the amount rules: never negative, strictly positive for
// one-time payments, zero allowed for subscription cancellations
func (r *ManualPaymentRequest) Validate() error {
	if err := r.PaymentMethod.Validate(); err != nil {
		return err
	}
	if r.PaymentType == "" {
		r.PaymentType = types.PaymentTypeOneTime
	}
	if err := r.PaymentType.Validate(); err != nil {
		return err
	}

	amount := lo.FromPtr(r.Amount)
	if amount < 0 {
		return ierr.NewError("amount must not be negative").
			WithHint("Amount must be zero or greater").
			WithReportableDetails(map[string]any{"amount": amount}).
			Mark(ierr.ErrValidation)
	}
	if amount == 0 && r.PaymentType == types.PaymentTypeOneTime {
		return ierr.NewError("one-time payment amount must be positive").
			WithHint("Amount must be greater than zero for one-time payments").
			WithReportableDetails(map[string]any{"amount": amount}).
			Mark(ierr.ErrValidation)
	}
	if r.DiscountAmount != nil && *r.DiscountAmount < 0 {
		return ierr.NewError("discount must not be negative").
			WithHint("Discount amount must be zero or greater").
			Mark(ierr.ErrValidation)
	}
	if r.SubscriptionEndDate != "" {
		if _, err := time.Parse(time.DateOnly, r.SubscriptionEndDate); err != nil {
			return ierr.WithError(err).
				WithHint("subscriptionEndDate must be formatted as YYYY-MM-DD").
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}

// ToPayment builds the ledger row; the request must be validated first
func (r *ManualPaymentRequest) ToPayment(currency, recordedBy, receiptNumber string, now time.Time) *payment.Payment {
	amount := lo.FromPtr(r.Amount)

	description := r.Description
	if amount == 0 && r.PaymentType == types.PaymentTypeSubscription {
		description = subscriptionCancellationDescription
	}

	metadata := types.Metadata{
		types.MetadataKeyPaymentMethod: string(r.PaymentMethod),
		types.MetadataKeyReceiptNumber: receiptNumber,
		types.MetadataKeyRecordedBy:    recordedBy,
	}
	if r.Category != "" {
		metadata[types.MetadataKeyCategory] = r.Category
	}
	if r.DiscountAmount != nil {
		metadata[types.MetadataKeyDiscountAmount] = decimal.NewFromInt(*r.DiscountAmount).String()
	}
	if r.DiscountReason != "" {
		metadata[types.MetadataKeyDiscountReason] = r.DiscountReason
	}
	if r.SubscriptionEndDate != "" {
		metadata[types.MetadataKeySubscriptionEndDate] = r.SubscriptionEndDate
	}

	paidAt := now
	if r.PaidAt != nil {
		paidAt = r.PaidAt.UTC()
	}

	return &payment.Payment{
		UserID:      r.UserID,
		PaymentType: r.PaymentType,
		Amount:      amount,
		Currency:    strings.ToLower(lo.CoalesceOrEmpty(r.Currency, currency)),
		Status:      types.PaymentStatusSucceeded,
		Description: lo.EmptyableToPtr(description),
		Notes:       lo.EmptyableToPtr(r.Notes),
		Metadata:    metadata,
		CreatedAt:   now,
		PaidAt:      &paidAt,
	}
}

// PaymentResponse is a ledger row as returned to the portal
type PaymentResponse struct {
	ID               string              `json:"id"`
	PaymentIntentID  *string             `json:"stripePaymentIntentId,omitempty"`
	InvoiceID        *string             `json:"stripeInvoiceId,omitempty"`
	SubscriptionID   *string             `json:"stripeSubscriptionId,omitempty"`
	UserID           string              `json:"userId"`
	StripeCustomerID string              `json:"stripeCustomerId"`
	PaymentType      types.PaymentType   `json:"paymentType"`
	Amount           int64               `json:"amount"`
	AmountDisplay    string              `json:"amountDisplay"`
	Currency         string              `json:"currency"`
	Status           types.PaymentStatus `json:"status"`
	PaymentMethodID  *string             `json:"paymentMethodId,omitempty"`
	CardBrand        *string             `json:"cardBrand,omitempty"`
	CardLast4        *string             `json:"cardLast4,omitempty"`
	CardExpMonth     *int64              `json:"cardExpMonth,omitempty"`
	CardExpYear      *int64              `json:"cardExpYear,omitempty"`
	PriceID          *string             `json:"priceId,omitempty"`
	ProductID        *string             `json:"productId,omitempty"`
	Description      *string             `json:"description,omitempty"`
	Metadata         types.Metadata      `json:"metadata"`
	Notes            *string             `json:"notes,omitempty"`
	CreatedAt        time.Time           `json:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt"`
	PaidAt           *time.Time          `json:"paidAt,omitempty"`
}

func NewPaymentResponse(p *payment.Payment) *PaymentResponse {
	if p == nil {
		return nil
	}
	return &PaymentResponse{
		ID:               p.ID,
		PaymentIntentID:  p.StripePaymentIntentID,
		InvoiceID:        p.StripeInvoiceID,
		SubscriptionID:   p.StripeSubscriptionID,
		UserID:           p.UserID,
		StripeCustomerID: p.StripeCustomerID,
		PaymentType:      p.PaymentType,
		Amount:           p.Amount,
		AmountDisplay:    FormatMinorUnits(p.Amount),
		Currency:         p.Currency,
		Status:           p.Status,
		PaymentMethodID:  p.PaymentMethodID,
		CardBrand:        p.CardBrand,
		CardLast4:        p.CardLast4,
		CardExpMonth:     p.CardExpMonth,
		CardExpYear:      p.CardExpYear,
		PriceID:          p.PriceID,
		ProductID:        p.ProductID,
		Description:      p.Description,
		Metadata:         lo.Ternary(p.Metadata == nil, types.Metadata{}, p.Metadata),
		Notes:            p.Notes,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
		PaidAt:           p.PaidAt,
	}
}

// AdminPaymentResponse adds the owner's display fields
type AdminPaymentResponse struct {
	*PaymentResponse
	UserEmail    *string `json:"userEmail,omitempty"`
	UserFullName *string `json:"userFullName,omitempty"`
}

func NewAdminPaymentResponse(p *payment.WithUser) *AdminPaymentResponse {
	return &AdminPaymentResponse{
		PaymentResponse: NewPaymentResponse(&p.Payment),
		UserEmail:       p.UserEmail,
		UserFullName:    p.UserFullName,
	}
}

// FormatMinorUnits renders cents as a two-decimal amount, e.g. 49900 -> "499.00"
func FormatMinorUnits(amount int64) string {
	return decimal.New(amount, -2).StringFixed(2)
}
