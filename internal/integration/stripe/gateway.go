package stripe

import (
	"context"

	"github.com/gymportal/portal/internal/domain/processor"
	"github.com/stripe/stripe-go/v82"
)

func (c *Client) AttachPaymentMethod(ctx context.Context, paymentMethodID, customerID string) error {
	params := &stripe.PaymentMethodAttachParams{
		Customer: stripe.String(customerID),
	}
	if _, err := c.api.V1PaymentMethods.Attach(ctx, paymentMethodID, params); err != nil {
		return wrapError(err, "attach_payment_method", map[string]any{
			"payment_method_id": paymentMethodID,
			"customer_id":       customerID,
		})
	}

	c.logger.Debugw("attached payment method",
		"payment_method_id", paymentMethodID,
		"customer_id", customerID)
	return nil
}

func (c *Client) GetPaymentMethod(ctx context.Context, id string) (*processor.PaymentMethod, error) {
	pm, err := c.api.V1PaymentMethods.Retrieve(ctx, id, nil)
	if err != nil {
		return nil, wrapError(err, "get_payment_method", map[string]any{"payment_method_id": id})
	}

	out := &processor.PaymentMethod{}
	if err := decode(out, pm.LastResponse, pm); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateSubscription creates an incomplete subscription whose first invoice
// waits for the member's card. The invoice confirmation secret is expanded so
// the intent can be located on API versions without invoice.payment_intent.
func (c *Client) CreateSubscription(ctx context.Context, req processor.SubscriptionCreate) (*processor.Subscription, error) {
	params := &stripe.SubscriptionCreateParams{
		Customer: stripe.String(req.CustomerID),
		Items: []*stripe.SubscriptionCreateItemParams{
			{Price: stripe.String(req.PriceID)},
		},
		PaymentBehavior: stripe.String("default_incomplete"),
		PaymentSettings: &stripe.SubscriptionCreatePaymentSettingsParams{
			SaveDefaultPaymentMethod: stripe.String("on_subscription"),
		},
		Metadata: req.Metadata,
	}
	params.AddExpand("latest_invoice.confirmation_secret")

	sub, err := c.api.V1Subscriptions.Create(ctx, params)
	if err != nil {
		return nil, wrapError(err, "create_subscription", map[string]any{
			"customer_id": req.CustomerID,
			"price_id":    req.PriceID,
		})
	}

	out := &processor.Subscription{}
	if err := decode(out, sub.LastResponse, sub); err != nil {
		return nil, err
	}

	c.logger.Infow("created stripe subscription",
		"subscription_id", out.ID,
		"customer_id", req.CustomerID,
		"status", out.Status)
	return out, nil
}

func (c *Client) GetPaymentIntent(ctx context.Context, id string, expandPaymentMethod bool) (*processor.PaymentIntent, error) {
	params := &stripe.PaymentIntentRetrieveParams{}
	if expandPaymentMethod {
		params.AddExpand("payment_method")
	}

	pi, err := c.api.V1PaymentIntents.Retrieve(ctx, id, params)
	if err != nil {
		return nil, wrapError(err, "get_payment_intent", map[string]any{"payment_intent_id": id})
	}
	return decodeIntent(pi)
}

func (c *Client) CreatePaymentIntent(ctx context.Context, req processor.PaymentIntentCreate) (*processor.PaymentIntent, error) {
	params := &stripe.PaymentIntentCreateParams{
		Amount:   stripe.Int64(req.Amount),
		Currency: stripe.String(req.Currency),
		Metadata: req.Metadata,
	}
	if req.CustomerID != "" {
		params.Customer = stripe.String(req.CustomerID)
	}
	if req.PaymentMethodID != "" {
		params.PaymentMethod = stripe.String(req.PaymentMethodID)
	}
	if req.Description != "" {
		params.Description = stripe.String(req.Description)
	}
	if req.AutomaticPaymentMethods {
		params.AutomaticPaymentMethods = &stripe.PaymentIntentCreateAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		}
	}

	pi, err := c.api.V1PaymentIntents.Create(ctx, params)
	if err != nil {
		return nil, wrapError(err, "create_payment_intent", map[string]any{
			"customer_id": req.CustomerID,
			"amount":      req.Amount,
		})
	}
	return decodeIntent(pi)
}

func (c *Client) UpdatePaymentIntent(ctx context.Context, id string, req processor.PaymentIntentUpdate) (*processor.PaymentIntent, error) {
	params := &stripe.PaymentIntentUpdateParams{
		Metadata: req.Metadata,
	}
	if req.PaymentMethodID != "" {
		params.PaymentMethod = stripe.String(req.PaymentMethodID)
	}

	pi, err := c.api.V1PaymentIntents.Update(ctx, id, params)
	if err != nil {
		return nil, wrapError(err, "update_payment_intent", map[string]any{"payment_intent_id": id})
	}
	return decodeIntent(pi)
}

func (c *Client) ConfirmPaymentIntent(ctx context.Context, id string) (*processor.PaymentIntent, error) {
	pi, err := c.api.V1PaymentIntents.Confirm(ctx, id, &stripe.PaymentIntentConfirmParams{})
	if err != nil {
		return nil, wrapError(err, "confirm_payment_intent", map[string]any{"payment_intent_id": id})
	}
	return decodeIntent(pi)
}

func (c *Client) GetInvoice(ctx context.Context, id string) (*processor.Invoice, error) {
	params := &stripe.InvoiceRetrieveParams{}
	params.AddExpand("confirmation_secret")
	params.AddExpand("payments")

	in, err := c.api.V1Invoices.Retrieve(ctx, id, params)
	if err != nil {
		return nil, wrapError(err, "get_invoice", map[string]any{"invoice_id": id})
	}
	return decodeInvoice(in)
}

func (c *Client) FinalizeInvoice(ctx context.Context, id string) (*processor.Invoice, error) {
	params := &stripe.InvoiceFinalizeInvoiceParams{
		AutoAdvance: stripe.Bool(false),
	}
	params.AddExpand("confirmation_secret")

	in, err := c.api.V1Invoices.FinalizeInvoice(ctx, id, params)
	if err != nil {
		return nil, wrapError(err, "finalize_invoice", map[string]any{"invoice_id": id})
	}

	c.logger.Infow("finalized draft invoice", "invoice_id", id)
	return decodeInvoice(in)
}

func (c *Client) AttachPaymentToInvoice(ctx context.Context, invoiceID, paymentIntentID string) (*processor.Invoice, error) {
	params := &stripe.InvoiceAttachPaymentParams{
		PaymentIntent: stripe.String(paymentIntentID),
	}

	in, err := c.api.V1Invoices.AttachPayment(ctx, invoiceID, params)
	if err != nil {
		return nil, wrapError(err, "attach_payment_to_invoice", map[string]any{
			"invoice_id":        invoiceID,
			"payment_intent_id": paymentIntentID,
		})
	}

	c.logger.Infow("attached payment intent to invoice",
		"invoice_id", invoiceID,
		"payment_intent_id", paymentIntentID)
	return decodeInvoice(in)
}

func (c *Client) GetCustomer(ctx context.Context, id string) (*processor.Customer, error) {
	cus, err := c.api.V1Customers.Retrieve(ctx, id, nil)
	if err != nil {
		return nil, wrapError(err, "get_customer", map[string]any{"customer_id": id})
	}

	out := &processor.Customer{}
	if err := decode(out, cus.LastResponse, cus); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateCustomer(ctx context.Context, req processor.CustomerCreate) (*processor.Customer, error) {
	params := &stripe.CustomerCreateParams{
		Email:    stripe.String(req.Email),
		Metadata: req.Metadata,
	}
	if req.Name != "" {
		params.Name = stripe.String(req.Name)
	}

	cus, err := c.api.V1Customers.Create(ctx, params)
	if err != nil {
		return nil, wrapError(err, "create_customer", map[string]any{"email": req.Email})
	}

	out := &processor.Customer{}
	if err := decode(out, cus.LastResponse, cus); err != nil {
		return nil, err
	}

	c.logger.Infow("created stripe customer", "customer_id", out.ID)
	return out, nil
}

func decodeIntent(pi *stripe.PaymentIntent) (*processor.PaymentIntent, error) {
	out := &processor.PaymentIntent{}
	if err := decode(out, pi.LastResponse, pi); err != nil {
		return nil, err
	}
	return out, nil
}

func decodeInvoice(in *stripe.Invoice) (*processor.Invoice, error) {
	out := &processor.Invoice{}
	if err := decode(out, in.LastResponse, in); err != nil {
		return nil, err
	}
	return out, nil
}
