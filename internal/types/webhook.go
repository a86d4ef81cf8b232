package types

// WebhookEventType names the processor events the webhook endpoint dispatches on
type WebhookEventType string

const (
	WebhookEventTypePaymentIntentSucceeded      WebhookEventType = "payment_intent.succeeded"
	WebhookEventTypePaymentIntentPaymentFailed  WebhookEventType = "payment_intent.payment_failed"
	WebhookEventTypePaymentIntentCanceled       WebhookEventType = "payment_intent.canceled"
	WebhookEventTypePaymentIntentRequiresAction WebhookEventType = "payment_intent.requires_action"
	WebhookEventTypeInvoicePaid                 WebhookEventType = "invoice.paid"
	WebhookEventTypeInvoicePaymentFailed        WebhookEventType = "invoice.payment_failed"
	WebhookEventTypeChargeRefunded              WebhookEventType = "charge.refunded"

	// WebhookEventPrefixCustomerSubscription covers customer.subscription.created/updated/deleted
	WebhookEventPrefixCustomerSubscription = "customer.subscription."
)
