package processor

import (
	"strings"
)

// Attributable is any processor object the identity resolver can work on
type Attributable interface {
	GetMetadata() map[string]string
	GetCustomerID() string
}

type Customer struct {
	ID       string            `json:"id"`
	Deleted  bool              `json:"deleted,omitempty"`
	Email    string            `json:"email,omitempty"`
	Name     string            `json:"name,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type Card struct {
	Brand    string `json:"brand"`
	Last4    string `json:"last4"`
	ExpMonth int64  `json:"exp_month"`
	ExpYear  int64  `json:"exp_year"`
}

type PaymentMethod struct {
	ID   string `json:"id"`
	Type string `json:"type,omitempty"`
	Card *Card  `json:"card,omitempty"`
}

type Product struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

type Price struct {
	ID         string        `json:"id"`
	Currency   string        `json:"currency,omitempty"`
	UnitAmount int64         `json:"unit_amount,omitempty"`
	Product    *Ref[Product] `json:"product,omitempty"`
}

type PaymentIntent struct {
	ID            string              `json:"id"`
	Amount        int64               `json:"amount"`
	Currency      string              `json:"currency"`
	Status        string              `json:"status"`
	ClientSecret  string              `json:"client_secret,omitempty"`
	Description   string              `json:"description,omitempty"`
	Created       int64               `json:"created"`
	Customer      *Ref[Customer]      `json:"customer,omitempty"`
	PaymentMethod *Ref[PaymentMethod] `json:"payment_method,omitempty"`
	// Invoice is only present on API versions that still link intents to invoices
	Invoice  *Ref[Invoice]     `json:"invoice,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

func (pi *PaymentIntent) GetMetadata() map[string]string { return pi.Metadata }
func (pi *PaymentIntent) GetCustomerID() string          { return pi.Customer.GetID() }

// Card returns the expanded card snapshot, nil when the method is a bare id
func (pi *PaymentIntent) Card() *Card {
	if !pi.PaymentMethod.IsExpanded() {
		return nil
	}
	return pi.PaymentMethod.Object.Card
}

type Subscription struct {
	ID            string            `json:"id"`
	Status        string            `json:"status"`
	Customer      *Ref[Customer]    `json:"customer,omitempty"`
	LatestInvoice *Ref[Invoice]     `json:"latest_invoice,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

type InvoiceLinePricing struct {
	PriceDetails *struct {
		Price   string `json:"price"`
		Product string `json:"product"`
	} `json:"price_details,omitempty"`
}

type InvoiceLine struct {
	ID          string              `json:"id"`
	Amount      int64               `json:"amount"`
	Description string              `json:"description,omitempty"`
	Price       *Ref[Price]         `json:"price,omitempty"`
	Pricing     *InvoiceLinePricing `json:"pricing,omitempty"`
}

type InvoicePayment struct {
	Payment struct {
		Type          string              `json:"type"`
		PaymentIntent *Ref[PaymentIntent] `json:"payment_intent,omitempty"`
	} `json:"payment"`
	Status string `json:"status"`
}

type Invoice struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	AmountDue  int64  `json:"amount_due"`
	AmountPaid int64  `json:"amount_paid"`
	Currency   string `json:"currency"`
	// Customer may be null on invoices of deleted customers
	Customer *Ref[Customer]    `json:"customer,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`

	// Pre-2025 shape
	PaymentIntent *Ref[PaymentIntent] `json:"payment_intent,omitempty"`
	Subscription  *Ref[Subscription]  `json:"subscription,omitempty"`

	// Current shape
	Parent *struct {
		SubscriptionDetails *struct {
			Subscription string            `json:"subscription"`
			Metadata     map[string]string `json:"metadata,omitempty"`
		} `json:"subscription_details,omitempty"`
	} `json:"parent,omitempty"`
	Payments *struct {
		Data []InvoicePayment `json:"data"`
	} `json:"payments,omitempty"`
	ConfirmationSecret *struct {
		ClientSecret string `json:"client_secret"`
		Type         string `json:"type"`
	} `json:"confirmation_secret,omitempty"`

	Lines *struct {
		Data []InvoiceLine `json:"data"`
	} `json:"lines,omitempty"`
}

func (in *Invoice) GetCustomerID() string { return in.Customer.GetID() }

// GetMetadata prefers the invoice's own metadata, falling back to the
// subscription metadata copied onto the invoice parent
func (in *Invoice) GetMetadata() map[string]string {
	if len(in.Metadata) > 0 {
		return in.Metadata
	}
	if in.Parent != nil && in.Parent.SubscriptionDetails != nil {
		return in.Parent.SubscriptionDetails.Metadata
	}
	if in.Subscription.IsExpanded() {
		return in.Subscription.Object.Metadata
	}
	return nil
}

// SubscriptionID works across both invoice shapes
func (in *Invoice) SubscriptionID() string {
	if id := in.Subscription.GetID(); id != "" {
		return id
	}
	if in.Parent != nil && in.Parent.SubscriptionDetails != nil {
		return in.Parent.SubscriptionDetails.Subscription
	}
	return ""
}

// PaymentIntentRef locates the invoice's intent across both shapes. The
// confirmation secret is "<intent id>_secret_<token>", so the id can be
// recovered from it when neither the legacy field nor payments are present.
func (in *Invoice) PaymentIntentRef() *Ref[PaymentIntent] {
	if in.PaymentIntent != nil && in.PaymentIntent.ID != "" {
		return in.PaymentIntent
	}
	if in.Payments != nil {
		for _, p := range in.Payments.Data {
			if p.Payment.PaymentIntent != nil && p.Payment.PaymentIntent.ID != "" {
				return p.Payment.PaymentIntent
			}
		}
	}
	if in.ConfirmationSecret != nil {
		if id := IntentIDFromClientSecret(in.ConfirmationSecret.ClientSecret); id != "" {
			return NewRef[PaymentIntent](id)
		}
	}
	return nil
}

// FirstLinePrice returns price and product of the first line item; either may be empty
func (in *Invoice) FirstLinePrice() (priceID, productID string) {
	if in.Lines == nil || len(in.Lines.Data) == 0 {
		return "", ""
	}
	line := in.Lines.Data[0]
	if line.Price != nil {
		priceID = line.Price.ID
		if line.Price.IsExpanded() {
			productID = line.Price.Object.Product.GetID()
		}
	}
	if line.Pricing != nil && line.Pricing.PriceDetails != nil {
		if priceID == "" {
			priceID = line.Pricing.PriceDetails.Price
		}
		if productID == "" {
			productID = line.Pricing.PriceDetails.Product
		}
	}
	return priceID, productID
}

func (in *Invoice) IsDraft() bool {
	return in.Status == "draft"
}

type Charge struct {
	ID             string              `json:"id"`
	Amount         int64               `json:"amount"`
	AmountRefunded int64               `json:"amount_refunded"`
	Refunded       bool                `json:"refunded"`
	Currency       string              `json:"currency"`
	Customer       *Ref[Customer]      `json:"customer,omitempty"`
	PaymentIntent  *Ref[PaymentIntent] `json:"payment_intent,omitempty"`
	Metadata       map[string]string   `json:"metadata,omitempty"`
}

// IntentIDFromClientSecret extracts "pi_123" from "pi_123_secret_abc"
func IntentIDFromClientSecret(secret string) string {
	idx := strings.Index(secret, "_secret_")
	if idx <= 0 || !strings.HasPrefix(secret, "pi_") {
		return ""
	}
	return secret[:idx]
}
