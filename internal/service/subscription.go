package service

import (
	"context"

	"github.com/gymportal/portal/internal/api/dto"
	"github.com/gymportal/portal/internal/domain/payment"
	"github.com/gymportal/portal/internal/domain/processor"
	ierr "github.com/gymportal/portal/internal/errors"
	"github.com/gymportal/portal/internal/types"
	"github.com/gymportal/portal/internal/validator"
	"github.com/samber/lo"
	"github.com/sourcegraph/conc"
)

// SubscriptionService creates member subscriptions and records the first
// invoice payment before answering the browser
type SubscriptionService interface {
	CreateSubscription(ctx context.Context, req dto.CreateSubscriptionRequest) (*dto.CreateSubscriptionResponse, error)
}

type subscriptionService struct {
	ServiceParams
	ledger *ledgerWriter
}

func NewSubscriptionService(params ServiceParams) SubscriptionService {
	return &subscriptionService{
		ServiceParams: params,
		ledger:        &ledgerWriter{ServiceParams: params},
	}
}

// subscriptionState tracks how far the first invoice intent has progressed
type subscriptionState int

const (
	stateNoIntent subscriptionState = iota
	stateIntentFound
	stateIntentConfirmed
	statePersisted
)

func (st subscriptionState) String() string {
	switch st {
	case stateIntentFound:
		return "intent_found"
	case stateIntentConfirmed:
		return "intent_confirmed"
	case statePersisted:
		return "persisted"
	default:
		return "no_intent"
	}
}

// subscriptionFlow is the working state of one creation request. Every
// transition after the subscription exists is best-effort.
type subscriptionFlow struct {
	req          dto.CreateSubscriptionRequest
	userID       string
	metadata     map[string]string
	subscription *processor.Subscription
	invoice      *processor.Invoice
	intent       *processor.PaymentIntent
	state        subscriptionState
}

func (s *subscriptionService) CreateSubscription(ctx context.Context, req dto.CreateSubscriptionRequest) (*dto.CreateSubscriptionResponse, error) {
	if err := validator.ValidateRequest(req); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	userID := types.GetUserID(ctx)
	if userID == "" {
		return nil, ierr.NewError("missing caller").
			WithHint("Please sign in again").
			Mark(ierr.ErrUnauthorized)
	}

	flow := &subscriptionFlow{
		req:    req,
		userID: userID,
		metadata: map[string]string{
			types.MetadataKeyUserID:      userID,
			types.MetadataKeyPaymentType: string(types.PaymentTypeSubscription),
			types.MetadataKeyPriceID:     req.PriceID,
		},
	}

	if err := s.Gateway.AttachPaymentMethod(ctx, req.PaymentMethodID, req.CustomerID); err != nil {
		return nil, err
	}

	sub, err := s.Gateway.CreateSubscription(ctx, processor.SubscriptionCreate{
		CustomerID: req.CustomerID,
		PriceID:    req.PriceID,
		Metadata:   flow.metadata,
	})
	if err != nil {
		return nil, err
	}
	flow.subscription = sub

	s.resolveIntent(ctx, flow)
	if flow.state == stateIntentFound {
		s.attachMetadata(ctx, flow)
		s.confirm(ctx, flow)
	}
	if flow.state >= stateIntentFound {
		if err := s.persist(ctx, flow); err != nil {
			return nil, err
		}
	}

	s.Logger.Infow("subscription created",
		"subscription_id", sub.ID,
		"user_id", userID,
		"price_id", req.PriceID,
		"state", flow.state.String(),
		"payment_intent_id", flow.intentID())

	return flow.response(), nil
}

// resolveIntent moves NoIntent to IntentFound by walking the first invoice:
// expanded intent, bare intent id, re-fetched invoice, finalized draft, and
// finally an intent created for the invoice's amount due
func (s *subscriptionService) resolveIntent(ctx context.Context, flow *subscriptionFlow) {
	if flow.subscription.LatestInvoice.IsExpanded() {
		flow.invoice = flow.subscription.LatestInvoice.Object
	}
	if s.intentFromInvoice(ctx, flow) {
		return
	}

	invoiceID := flow.subscription.LatestInvoice.GetID()
	if invoiceID == "" {
		s.Logger.Warnw("subscription has no first invoice",
			"subscription_id", flow.subscription.ID)
		return
	}

	in, err := s.Gateway.GetInvoice(ctx, invoiceID)
	if err != nil {
		s.Logger.Warnw("could not retrieve first invoice",
			"subscription_id", flow.subscription.ID,
			"invoice_id", invoiceID,
			"error", err)
		return
	}
	flow.invoice = in
	if s.intentFromInvoice(ctx, flow) {
		return
	}

	if in.IsDraft() {
		finalized, err := s.Gateway.FinalizeInvoice(ctx, invoiceID)
		if err != nil {
			s.Logger.Warnw("could not finalize draft invoice",
				"invoice_id", invoiceID,
				"error", err)
		} else {
			flow.invoice = finalized
			if s.intentFromInvoice(ctx, flow) {
				return
			}
		}
	}

	s.createIntentForInvoice(ctx, flow)
}

// intentFromInvoice reports whether the current invoice yields an intent
func (s *subscriptionService) intentFromInvoice(ctx context.Context, flow *subscriptionFlow) bool {
	if flow.invoice == nil {
		return false
	}
	ref := flow.invoice.PaymentIntentRef()
	if ref == nil {
		return false
	}

	if ref.IsExpanded() {
		flow.intent = ref.Object
		flow.state = stateIntentFound
		return true
	}

	pi, err := s.Gateway.GetPaymentIntent(ctx, ref.ID, false)
	if err != nil {
		s.Logger.Warnw("could not retrieve first invoice intent",
			"invoice_id", flow.invoice.ID,
			"payment_intent_id", ref.ID,
			"error", err)
		return false
	}
	flow.intent = pi
	flow.state = stateIntentFound
	return true
}

func (s *subscriptionService) createIntentForInvoice(ctx context.Context, flow *subscriptionFlow) {
	in := flow.invoice
	if in == nil || in.AmountDue <= 0 {
		s.Logger.Warnw("no payment intent for first invoice and nothing due",
			"subscription_id", flow.subscription.ID)
		return
	}

	flow.stampLinkage()
	pi, err := s.Gateway.CreatePaymentIntent(ctx, processor.PaymentIntentCreate{
		Amount:          in.AmountDue,
		Currency:        in.Currency,
		CustomerID:      flow.req.CustomerID,
		PaymentMethodID: flow.req.PaymentMethodID,
		Metadata:        flow.metadata,
	})
	if err != nil {
		s.Logger.Warnw("could not create payment intent for invoice",
			"invoice_id", in.ID,
			"error", err)
		return
	}
	flow.intent = pi
	flow.state = stateIntentFound

	if _, err := s.Gateway.AttachPaymentToInvoice(ctx, in.ID, pi.ID); err != nil {
		s.Logger.Warnw("could not attach payment intent to invoice",
			"invoice_id", in.ID,
			"payment_intent_id", pi.ID,
			"error", err)
	}
}

// attachMetadata writes identity and linkage metadata and the payment method
// in a single update so no webhook for this intent can arrive without
// attribution or its subscription
func (s *subscriptionService) attachMetadata(ctx context.Context, flow *subscriptionFlow) {
	flow.stampLinkage()
	update := processor.PaymentIntentUpdate{Metadata: flow.metadata}
	if types.ParsePaymentStatus(flow.intent.Status).NeedsConfirmation() {
		update.PaymentMethodID = flow.req.PaymentMethodID
	}

	pi, err := s.Gateway.UpdatePaymentIntent(ctx, flow.intent.ID, update)
	if err != nil {
		s.Logger.Warnw("could not attach metadata to payment intent",
			"payment_intent_id", flow.intent.ID,
			"error", err)
		return
	}
	flow.intent = pi
}

// confirm moves IntentFound to IntentConfirmed. requires_action stays with
// the browser; succeeded needs no call.
func (s *subscriptionService) confirm(ctx context.Context, flow *subscriptionFlow) {
	status := types.ParsePaymentStatus(flow.intent.Status)
	if !status.NeedsConfirmation() {
		flow.state = stateIntentConfirmed
		return
	}

	pi, err := s.Gateway.ConfirmPaymentIntent(ctx, flow.intent.ID)
	if err != nil {
		s.Logger.Warnw("could not confirm payment intent",
			"payment_intent_id", flow.intent.ID,
			"status", status,
			"error", err)
		return
	}
	flow.intent = pi
	flow.state = stateIntentConfirmed
}

// persist writes the ledger row before the response is sent. The final
// intent and invoice are fetched concurrently; either may fail and the
// in-hand copies are used instead.
func (s *subscriptionService) persist(ctx context.Context, flow *subscriptionFlow) error {
	var (
		latest    *processor.PaymentIntent
		invoice   *processor.Invoice
		intentErr error
		invErr    error
	)

	invoiceID := flow.invoiceID()
	var wg conc.WaitGroup
	wg.Go(func() {
		latest, intentErr = s.Gateway.GetPaymentIntent(ctx, flow.intent.ID, true)
	})
	if invoiceID != "" {
		wg.Go(func() {
			invoice, invErr = s.Gateway.GetInvoice(ctx, invoiceID)
		})
	}
	wg.Wait()

	if intentErr != nil {
		s.Logger.Warnw("could not re-read payment intent before persisting",
			"payment_intent_id", flow.intent.ID,
			"error", intentErr)
	} else {
		flow.intent = latest
	}
	if invErr != nil {
		s.Logger.Warnw("could not re-read invoice before persisting",
			"invoice_id", invoiceID,
			"error", invErr)
	} else if invoice != nil {
		flow.invoice = invoice
	}

	s.backfillMetadata(ctx, flow)

	extras := mergeExtras(payment.Extras{
		InvoiceID:      invoiceID,
		SubscriptionID: flow.subscription.ID,
		PriceID:        flow.req.PriceID,
	}, extrasFromInvoice(flow.invoice))

	if _, err := s.ledger.recordIntent(ctx, flow.intent, flow.userID, types.PaymentTypeSubscription, extras); err != nil {
		return err
	}
	flow.state = statePersisted
	return nil
}

// backfillMetadata repairs an intent whose metadata update was lost
func (s *subscriptionService) backfillMetadata(ctx context.Context, flow *subscriptionFlow) {
	if userIDFromMetadata(flow.intent.Metadata) != "" {
		return
	}

	s.Logger.Warnw("payment intent missing identity metadata, backfilling",
		"payment_intent_id", flow.intent.ID)

	if pi, err := s.Gateway.UpdatePaymentIntent(ctx, flow.intent.ID, processor.PaymentIntentUpdate{
		Metadata: flow.metadata,
	}); err == nil && pi != nil {
		if pi.PaymentMethod == nil {
			pi.PaymentMethod = flow.intent.PaymentMethod
		}
		flow.intent = pi
	}
	flow.intent.Metadata = types.Metadata(flow.intent.Metadata).Merge(flow.metadata)
}

// stampLinkage adds the subscription, first invoice and product to the
// metadata the intent carries. Intents on current API versions have no
// invoice field, so webhook and save-payment writers read the linkage back
// from here.
func (f *subscriptionFlow) stampLinkage() {
	linkage := map[string]string{types.MetadataKeySubscriptionID: f.subscription.ID}
	if id := f.invoiceID(); id != "" {
		linkage[types.MetadataKeyInvoiceID] = id
	}
	if productID := extrasFromInvoice(f.invoice).ProductID; productID != "" {
		linkage[types.MetadataKeyProductID] = productID
	}
	f.metadata = lo.Assign(f.metadata, linkage)
}

func (f *subscriptionFlow) intentID() string {
	if f.intent == nil {
		return ""
	}
	return f.intent.ID
}

func (f *subscriptionFlow) invoiceID() string {
	if f.invoice != nil && f.invoice.ID != "" {
		return f.invoice.ID
	}
	return f.subscription.LatestInvoice.GetID()
}

func (f *subscriptionFlow) response() *dto.CreateSubscriptionResponse {
	resp := &dto.CreateSubscriptionResponse{
		SubscriptionID: f.subscription.ID,
		Status:         f.subscription.Status,
	}
	if f.intent == nil {
		return resp
	}

	resp.PaymentIntentID = f.intent.ID
	resp.PaymentIntentStatus = f.intent.Status
	if !types.ParsePaymentStatus(f.intent.Status).IsSucceeded() {
		resp.ClientSecret = f.intent.ClientSecret
		if resp.ClientSecret == "" && f.invoice != nil && f.invoice.ConfirmationSecret != nil {
			resp.ClientSecret = f.invoice.ConfirmationSecret.ClientSecret
		}
	}
	return resp
}
