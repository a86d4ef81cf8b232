package service

import (
	"context"
	"time"

	"github.com/gymportal/portal/internal/domain/payment"
	"github.com/gymportal/portal/internal/domain/processor"
	"github.com/gymportal/portal/internal/types"
	"github.com/samber/lo"
)

// ledgerWriter is the write path shared by the orchestrator, the webhook and
// the save-payment endpoint. All three converge on the same normalized row.
type ledgerWriter struct {
	ServiceParams
}

// recordIntent normalizes pi and upserts it. The card snapshot is fetched
// separately when the intent only carries a payment method id.
func (w *ledgerWriter) recordIntent(ctx context.Context, pi *processor.PaymentIntent, userID string, paymentType types.PaymentType, extras payment.Extras) (*payment.Payment, error) {
	p := payment.FromProcessorIntent(pi, userID, paymentType, extras)
	w.fillCard(ctx, p, pi)
	return w.upsert(ctx, p)
}

func (w *ledgerWriter) fillCard(ctx context.Context, p *payment.Payment, pi *processor.PaymentIntent) {
	pmID := pi.PaymentMethod.GetID()
	if pmID == "" || pi.PaymentMethod.IsExpanded() {
		return
	}
	pm, err := w.Gateway.GetPaymentMethod(ctx, pmID)
	if err != nil {
		w.Logger.Warnw("could not fetch payment method for card snapshot",
			"payment_intent_id", pi.ID,
			"payment_method_id", pmID,
			"error", err)
		return
	}
	p.WithCard(pm)
}

func (w *ledgerWriter) upsert(ctx context.Context, p *payment.Payment) (*payment.Payment, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	saved, err := w.PaymentRepo.Upsert(ctx, p)
	if err != nil {
		w.Logger.Errorw("failed to write payment to ledger",
			"payment_intent_id", p.PaymentIntentID(),
			"user_id", p.UserID,
			"error", err)
		return nil, err
	}

	w.Logger.Infow("payment recorded",
		"payment_id", saved.ID,
		"payment_intent_id", saved.PaymentIntentID(),
		"user_id", saved.UserID,
		"status", saved.Status,
		"amount", saved.Amount)
	return saved, nil
}

// markSucceeded forces a settled row, used when the event itself proves
// settlement even if the fetched intent lags behind
func markSucceeded(p *payment.Payment, created int64, now time.Time) {
	p.Status = types.PaymentStatusSucceeded
	if p.PaidAt != nil {
		return
	}
	if created > 0 {
		p.PaidAt = lo.ToPtr(time.Unix(created, 0).UTC())
		return
	}
	p.PaidAt = lo.ToPtr(now.UTC())
}

// extrasFromInvoice pulls the subscription and first-line price linkage
func extrasFromInvoice(in *processor.Invoice) payment.Extras {
	if in == nil {
		return payment.Extras{}
	}
	priceID, productID := in.FirstLinePrice()
	return payment.Extras{
		InvoiceID:      in.ID,
		SubscriptionID: in.SubscriptionID(),
		PriceID:        priceID,
		ProductID:      productID,
	}
}

// mergeExtras fills empty fields of base from fallback
func mergeExtras(base, fallback payment.Extras) payment.Extras {
	return payment.Extras{
		InvoiceID:      lo.CoalesceOrEmpty(base.InvoiceID, fallback.InvoiceID),
		SubscriptionID: lo.CoalesceOrEmpty(base.SubscriptionID, fallback.SubscriptionID),
		PriceID:        lo.CoalesceOrEmpty(base.PriceID, fallback.PriceID),
		ProductID:      lo.CoalesceOrEmpty(base.ProductID, fallback.ProductID),
		Description:    lo.CoalesceOrEmpty(base.Description, fallback.Description),
	}
}

// paymentTypeFromMetadata returns the declared type when it is valid
func paymentTypeFromMetadata(md map[string]string) (types.PaymentType, bool) {
	t := types.PaymentType(types.Metadata(md).Get(types.MetadataKeyPaymentType))
	if t.Validate() != nil {
		return "", false
	}
	return t, true
}
