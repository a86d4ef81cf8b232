package service

import (
	"context"
	"strings"
	"time"

	"github.com/gymportal/portal/internal/domain/payment"
	"github.com/gymportal/portal/internal/domain/processor"
	ierr "github.com/gymportal/portal/internal/errors"
	"github.com/gymportal/portal/internal/types"
	"github.com/samber/lo"
)

// WebhookService verifies and applies processor events to the ledger
type WebhookService interface {
	// HandleEvent returns an error only when the delivery cannot be verified.
	// Failures while applying a verified event are logged and swallowed so
	// the processor does not redeliver events this service cannot act on.
	HandleEvent(ctx context.Context, payload []byte, signature string) error
}

type eventHandler func(ctx context.Context, event *processor.Event) error

type webhookService struct {
	ServiceParams
	identity IdentityResolver
	ledger   *ledgerWriter
	handlers map[types.WebhookEventType]eventHandler
	now      func() time.Time
}

func NewWebhookService(params ServiceParams, identity IdentityResolver) WebhookService {
	s := &webhookService{
		ServiceParams: params,
		identity:      identity,
		ledger:        &ledgerWriter{ServiceParams: params},
		now:           time.Now,
	}
	s.handlers = map[types.WebhookEventType]eventHandler{
		types.WebhookEventTypePaymentIntentSucceeded:      s.handlePaymentIntentSucceeded,
		types.WebhookEventTypePaymentIntentPaymentFailed:  s.intentStatusHandler(types.PaymentStatusFailed),
		types.WebhookEventTypePaymentIntentCanceled:       s.intentStatusHandler(types.PaymentStatusCanceled),
		types.WebhookEventTypePaymentIntentRequiresAction: s.intentStatusHandler(types.PaymentStatusRequiresAction),
		types.WebhookEventTypeInvoicePaid:                 s.handleInvoicePaid,
		types.WebhookEventTypeInvoicePaymentFailed:        s.handleInvoicePaymentFailed,
		types.WebhookEventTypeChargeRefunded:              s.handleChargeRefunded,
	}
	return s
}

func (s *webhookService) HandleEvent(ctx context.Context, payload []byte, signature string) error {
	secret := s.Config.Stripe.WebhookSecret
	if secret == "" {
		s.Logger.Errorw("webhook secret is not configured")
		return ierr.NewError("webhook secret not configured").
			WithHint("Webhook endpoint is not configured").
			Mark(ierr.ErrValidation)
	}

	event, err := s.Gateway.ParseEvent(payload, signature, secret)
	if err != nil {
		s.Logger.Warnw("rejected webhook delivery", "error", err)
		return err
	}

	log := s.Logger.With("event_id", event.ID, "event_type", event.Type)

	if strings.HasPrefix(event.Type, types.WebhookEventPrefixCustomerSubscription) {
		log.Infow("subscription lifecycle event observed")
		return nil
	}

	handler, ok := s.handlers[types.WebhookEventType(event.Type)]
	if !ok {
		log.Debugw("ignoring unhandled webhook event")
		return nil
	}

	if err := handler(ctx, event); err != nil {
		log.Errorw("failed to apply webhook event", "error", err)
	}
	return nil
}

func (s *webhookService) handlePaymentIntentSucceeded(ctx context.Context, event *processor.Event) error {
	var pi processor.PaymentIntent
	if err := event.Decode(&pi); err != nil {
		return ierr.WithError(err).
			WithHint("Malformed payment intent payload").
			Mark(ierr.ErrValidation)
	}

	userID, ok := s.identity.ResolveUserIDForWebhook(ctx, &pi)
	if !ok {
		s.Logger.Warnw("skipping unattributed payment intent",
			"event_id", event.ID,
			"payment_intent_id", pi.ID,
			"customer_id", pi.GetCustomerID())
		return nil
	}

	var invoice *processor.Invoice
	if invoiceID := payment.InvoiceIDOf(&pi); invoiceID != "" {
		if pi.Invoice.IsExpanded() {
			invoice = pi.Invoice.Object
		} else if in, err := s.Gateway.GetInvoice(ctx, invoiceID); err == nil {
			invoice = in
		} else {
			s.Logger.Warnw("could not fetch invoice of succeeded intent",
				"payment_intent_id", pi.ID,
				"invoice_id", invoiceID,
				"error", err)
		}
	}

	paymentType, ok := paymentTypeFromMetadata(pi.Metadata)
	if !ok {
		paymentType = types.PaymentTypeOneTime
		if pi.Metadata[types.MetadataKeySubscriptionID] != "" || (invoice != nil && invoice.SubscriptionID() != "") {
			paymentType = types.PaymentTypeSubscription
		}
	}

	p := payment.FromProcessorIntent(&pi, userID, paymentType, extrasFromInvoice(invoice))
	s.ledger.fillCard(ctx, p, &pi)
	markSucceeded(p, pi.Created, s.now())

	_, err := s.ledger.upsert(ctx, p)
	return err
}

// intentStatusHandler updates an existing row only; the intent's metadata is
// merged so late attribution data is not lost
func (s *webhookService) intentStatusHandler(status types.PaymentStatus) eventHandler {
	return func(ctx context.Context, event *processor.Event) error {
		var pi processor.PaymentIntent
		if err := event.Decode(&pi); err != nil {
			return ierr.WithError(err).
				WithHint("Malformed payment intent payload").
				Mark(ierr.ErrValidation)
		}
		return s.updateStatus(ctx, event, pi.ID, status, &payment.StatusUpdate{
			Metadata: types.Metadata(pi.Metadata),
		})
	}
}

func (s *webhookService) handleInvoicePaid(ctx context.Context, event *processor.Event) error {
	var in processor.Invoice
	if err := event.Decode(&in); err != nil {
		return ierr.WithError(err).
			WithHint("Malformed invoice payload").
			Mark(ierr.ErrValidation)
	}

	ref := in.PaymentIntentRef()
	if ref == nil {
		s.Logger.Infow("paid invoice has no payment intent, nothing to record",
			"event_id", event.ID,
			"invoice_id", in.ID)
		return nil
	}

	pi := ref.Object
	if fetched, err := s.Gateway.GetPaymentIntent(ctx, ref.ID, true); err == nil {
		pi = fetched
	} else {
		s.Logger.Warnw("could not fetch intent of paid invoice",
			"invoice_id", in.ID,
			"payment_intent_id", ref.ID,
			"error", err)
	}
	if pi == nil {
		pi = &processor.PaymentIntent{
			ID:       ref.ID,
			Currency: in.Currency,
			Customer: in.Customer,
		}
	}

	userID, ok := s.identity.ResolveUserIDForWebhook(ctx, &in)
	if !ok {
		userID, ok = s.identity.ResolveUserIDForWebhook(ctx, pi)
	}
	if !ok {
		s.Logger.Warnw("skipping unattributed paid invoice",
			"event_id", event.ID,
			"invoice_id", in.ID,
			"customer_id", in.GetCustomerID())
		return nil
	}

	paymentType, ok := paymentTypeFromMetadata(pi.Metadata)
	if !ok {
		paymentType = types.PaymentTypeOneTime
		if in.SubscriptionID() != "" {
			paymentType = types.PaymentTypeSubscription
		}
	}

	p := payment.FromProcessorIntent(pi, userID, paymentType, extrasFromInvoice(&in))
	p.Amount = in.AmountPaid
	p.Currency = lo.CoalesceOrEmpty(in.Currency, p.Currency)
	p.StripeCustomerID = lo.CoalesceOrEmpty(p.StripeCustomerID, in.GetCustomerID())
	s.ledger.fillCard(ctx, p, pi)
	markSucceeded(p, pi.Created, s.now())

	_, err := s.ledger.upsert(ctx, p)
	return err
}

func (s *webhookService) handleInvoicePaymentFailed(ctx context.Context, event *processor.Event) error {
	var in processor.Invoice
	if err := event.Decode(&in); err != nil {
		return ierr.WithError(err).
			WithHint("Malformed invoice payload").
			Mark(ierr.ErrValidation)
	}

	ref := in.PaymentIntentRef()
	if ref == nil {
		s.Logger.Infow("failed invoice has no payment intent",
			"event_id", event.ID,
			"invoice_id", in.ID)
		return nil
	}

	return s.updateStatus(ctx, event, ref.ID, types.PaymentStatusFailed, &payment.StatusUpdate{
		InvoiceID:      lo.EmptyableToPtr(in.ID),
		SubscriptionID: lo.EmptyableToPtr(in.SubscriptionID()),
	})
}

func (s *webhookService) handleChargeRefunded(ctx context.Context, event *processor.Event) error {
	var ch processor.Charge
	if err := event.Decode(&ch); err != nil {
		return ierr.WithError(err).
			WithHint("Malformed charge payload").
			Mark(ierr.ErrValidation)
	}

	piID := ch.PaymentIntent.GetID()
	if piID == "" {
		s.Logger.Infow("refunded charge has no payment intent",
			"event_id", event.ID,
			"charge_id", ch.ID)
		return nil
	}

	return s.updateStatus(ctx, event, piID, types.PaymentStatusRefunded, nil)
}

func (s *webhookService) updateStatus(ctx context.Context, event *processor.Event, piID string, status types.PaymentStatus, update *payment.StatusUpdate) error {
	rows, err := s.PaymentRepo.UpdateStatus(ctx, piID, status.String(), update)
	if err != nil {
		return err
	}
	if rows == 0 {
		s.Logger.Infow("no ledger row for status update yet",
			"event_id", event.ID,
			"payment_intent_id", piID,
			"status", status)
		return nil
	}
	s.Logger.Infow("payment status updated",
		"event_id", event.ID,
		"payment_intent_id", piID,
		"status", status)
	return nil
}
