package payment

import (
	"time"

	"github.com/gymportal/portal/internal/domain/processor"
	"github.com/gymportal/portal/internal/types"
	"github.com/samber/lo"
)

// Extras are the linkage fields a payment intent does not reliably carry itself
type Extras struct {
	InvoiceID      string
	SubscriptionID string
	PriceID        string
	ProductID      string
	Description    string
}

// FromProcessorIntent maps a processor payment intent onto a ledger row.
// It performs no I/O. paid_at is derived from the intent's creation time and
// only for succeeded intents.
func FromProcessorIntent(pi *processor.PaymentIntent, userID string, paymentType types.PaymentType, extras Extras) *Payment {
	p := &Payment{
		StripePaymentIntentID: lo.ToPtr(pi.ID),
		UserID:                userID,
		StripeCustomerID:      pi.GetCustomerID(),
		PaymentType:           paymentType,
		Amount:                pi.Amount,
		Currency:              pi.Currency,
		Status:                types.ParsePaymentStatus(pi.Status),
		Metadata:              types.Metadata{},
	}

	for k, v := range pi.Metadata {
		p.Metadata[k] = v
	}

	if id := pi.PaymentMethod.GetID(); id != "" {
		p.PaymentMethodID = lo.ToPtr(id)
	}
	if card := pi.Card(); card != nil {
		p.CardBrand = lo.EmptyableToPtr(card.Brand)
		p.CardLast4 = lo.EmptyableToPtr(card.Last4)
		p.CardExpMonth = lo.EmptyableToPtr(card.ExpMonth)
		p.CardExpYear = lo.EmptyableToPtr(card.ExpYear)
	}

	// current API versions drop invoice from the intent; the portal stamps
	// the linkage into metadata when it creates the subscription
	p.StripeInvoiceID = lo.EmptyableToPtr(lo.CoalesceOrEmpty(extras.InvoiceID, InvoiceIDOf(pi)))
	p.StripeSubscriptionID = lo.EmptyableToPtr(lo.CoalesceOrEmpty(extras.SubscriptionID, pi.Metadata[types.MetadataKeySubscriptionID]))
	p.PriceID = lo.EmptyableToPtr(lo.CoalesceOrEmpty(extras.PriceID, pi.Metadata[types.MetadataKeyPriceID]))
	p.ProductID = lo.EmptyableToPtr(lo.CoalesceOrEmpty(extras.ProductID, pi.Metadata[types.MetadataKeyProductID]))
	p.Description = lo.EmptyableToPtr(lo.CoalesceOrEmpty(extras.Description, pi.Description))

	if p.Status.IsSucceeded() && pi.Created > 0 {
		p.PaidAt = lo.ToPtr(time.Unix(pi.Created, 0).UTC())
	}

	return p
}

// InvoiceIDOf returns the invoice an intent pays, from the legacy invoice
// field or the linkage metadata
func InvoiceIDOf(pi *processor.PaymentIntent) string {
	return lo.CoalesceOrEmpty(pi.Invoice.GetID(), pi.Metadata[types.MetadataKeyInvoiceID])
}

// WithCard fills the card snapshot from a separately fetched payment method
func (p *Payment) WithCard(pm *processor.PaymentMethod) *Payment {
	if pm == nil {
		return p
	}
	p.PaymentMethodID = lo.EmptyableToPtr(pm.ID)
	if pm.Card != nil {
		p.CardBrand = lo.EmptyableToPtr(pm.Card.Brand)
		p.CardLast4 = lo.EmptyableToPtr(pm.Card.Last4)
		p.CardExpMonth = lo.EmptyableToPtr(pm.Card.ExpMonth)
		p.CardExpYear = lo.EmptyableToPtr(pm.Card.ExpYear)
	}
	return p
}
