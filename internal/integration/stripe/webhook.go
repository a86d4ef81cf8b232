package stripe

import (
	"github.com/gymportal/portal/internal/domain/processor"
	ierr "github.com/gymportal/portal/internal/errors"
	"github.com/stripe/stripe-go/v82/webhook"
)

// ParseEvent verifies the Stripe-Signature header and returns the event
// envelope with the raw data object. API version mismatches are tolerated so
// the lenient processor types can read deliveries from any account version.
func (c *Client) ParseEvent(payload []byte, signature, secret string) (*processor.Event, error) {
	if secret == "" {
		return nil, ierr.NewError("webhook secret not configured").
			WithHint("Webhook endpoint is not configured").
			Mark(ierr.ErrValidation)
	}
	if signature == "" {
		return nil, ierr.NewError("missing stripe signature").
			WithHint("Missing Stripe-Signature header").
			Mark(ierr.ErrValidation)
	}

	options := webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	}
	event, err := webhook.ConstructEventWithOptions(payload, signature, secret, options)
	if err != nil {
		c.logger.Errorw("Stripe webhook verification failed", "error", err)
		return nil, ierr.WithError(err).
			WithHint("Invalid webhook signature or payload").
			Mark(ierr.ErrValidation)
	}

	out := &processor.Event{
		ID:   event.ID,
		Type: string(event.Type),
	}
	if event.Data != nil {
		out.Object = event.Data.Raw
	}
	return out, nil
}
