package processor

import (
	"context"
	"encoding/json"
)

// Event is a verified webhook delivery; Object holds the raw data.object payload
type Event struct {
	ID     string
	Type   string
	Object json.RawMessage
}

// Decode unmarshals the event's data object into v
func (e *Event) Decode(v any) error {
	return json.Unmarshal(e.Object, v)
}

type SubscriptionCreate struct {
	CustomerID string
	PriceID    string
	Metadata   map[string]string
}

type PaymentIntentCreate struct {
	Amount          int64
	Currency        string
	CustomerID      string
	PaymentMethodID string
	Description     string
	Metadata        map[string]string
	// AutomaticPaymentMethods lets the browser element pick the method
	AutomaticPaymentMethods bool
}

type PaymentIntentUpdate struct {
	PaymentMethodID string
	Metadata        map[string]string
}

type CustomerCreate struct {
	Email    string
	Name     string
	Metadata map[string]string
}

// Gateway is the set of processor calls the payment core makes. Every call
// is a single request; retries are left to the processor's webhook redelivery.
type Gateway interface {
	AttachPaymentMethod(ctx context.Context, paymentMethodID, customerID string) error
	GetPaymentMethod(ctx context.Context, id string) (*PaymentMethod, error)

	CreateSubscription(ctx context.Context, req SubscriptionCreate) (*Subscription, error)

	GetPaymentIntent(ctx context.Context, id string, expandPaymentMethod bool) (*PaymentIntent, error)
	CreatePaymentIntent(ctx context.Context, req PaymentIntentCreate) (*PaymentIntent, error)
	UpdatePaymentIntent(ctx context.Context, id string, req PaymentIntentUpdate) (*PaymentIntent, error)
	ConfirmPaymentIntent(ctx context.Context, id string) (*PaymentIntent, error)

	GetInvoice(ctx context.Context, id string) (*Invoice, error)
	FinalizeInvoice(ctx context.Context, id string) (*Invoice, error)
	AttachPaymentToInvoice(ctx context.Context, invoiceID, paymentIntentID string) (*Invoice, error)

	GetCustomer(ctx context.Context, id string) (*Customer, error)
	CreateCustomer(ctx context.Context, req CustomerCreate) (*Customer, error)

	// ParseEvent verifies the signature header against secret and decodes the envelope
	ParseEvent(payload []byte, signature, secret string) (*Event, error)
}
