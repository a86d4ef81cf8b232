package service

import (
	"context"
	"time"

	"github.com/gymportal/portal/internal/api/dto"
	"github.com/gymportal/portal/internal/domain/payment"
	ierr "github.com/gymportal/portal/internal/errors"
	"github.com/gymportal/portal/internal/types"
	"github.com/gymportal/portal/internal/validator"
	"github.com/samber/lo"
)

// PaymentService covers the ledger endpoints
type PaymentService interface {
	// SavePayment is the checkout page's best-effort report of an intent it
	// just confirmed. It re-reads the intent from the processor and upserts.
	SavePayment(ctx context.Context, req dto.SavePaymentRequest) (*dto.PaymentResponse, error)

	// RecordManualPayment stores a cash or transfer payment entered by staff
	RecordManualPayment(ctx context.Context, req dto.ManualPaymentRequest) (*dto.PaymentResponse, error)

	ListMyPayments(ctx context.Context) (*dto.ListResponse[*dto.PaymentResponse], error)
	ListAllPayments(ctx context.Context) (*dto.ListResponse[*dto.AdminPaymentResponse], error)
}

type paymentService struct {
	ServiceParams
	identity IdentityResolver
	ledger   *ledgerWriter
	now      func() time.Time
}

func NewPaymentService(params ServiceParams, identity IdentityResolver) PaymentService {
	return &paymentService{
		ServiceParams: params,
		identity:      identity,
		ledger:        &ledgerWriter{ServiceParams: params},
		now:           time.Now,
	}
}

func (s *paymentService) SavePayment(ctx context.Context, req dto.SavePaymentRequest) (*dto.PaymentResponse, error) {
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

	pi, err := s.Gateway.GetPaymentIntent(ctx, req.PaymentIntentID, true)
	if err != nil {
		return nil, err
	}

	// an intent nobody can be traced to is attributed to the caller
	if owner, ok := s.identity.ResolveUserID(ctx, pi); ok && owner != userID {
		return nil, ierr.NewError("payment intent belongs to another user").
			WithHint("This payment does not belong to your account").
			WithReportableDetails(map[string]any{
				"payment_intent_id": pi.ID,
			}).
			Mark(ierr.ErrPermissionDenied)
	}

	extras := payment.Extras{PriceID: req.PriceID}
	if invoiceID := payment.InvoiceIDOf(pi); invoiceID != "" {
		in, err := s.Gateway.GetInvoice(ctx, invoiceID)
		if err != nil {
			s.Logger.Warnw("could not fetch invoice for saved payment",
				"payment_intent_id", pi.ID,
				"invoice_id", invoiceID,
				"error", err)
			extras.InvoiceID = invoiceID
		} else {
			extras = mergeExtras(extras, extrasFromInvoice(in))
		}
	}

	saved, err := s.ledger.recordIntent(ctx, pi, userID, req.PaymentType, extras)
	if err != nil {
		return nil, err
	}
	return dto.NewPaymentResponse(saved), nil
}

func (s *paymentService) RecordManualPayment(ctx context.Context, req dto.ManualPaymentRequest) (*dto.PaymentResponse, error) {
	if !types.IsAdmin(ctx) {
		return nil, ierr.NewError("manual payments require the admin role").
			WithHint("Only staff can record manual payments").
			Mark(ierr.ErrPermissionDenied)
	}
	if err := validator.ValidateRequest(req); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.UserRepo.GetByID(ctx, req.UserID); err != nil {
		if ierr.IsNotFound(err) {
			return nil, ierr.WithError(err).
				WithHintf("Member %s does not exist", req.UserID).
				Mark(ierr.ErrValidation)
		}
		return nil, err
	}

	receipt := types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_RECEIPT)
	p := req.ToPayment(s.Config.Stripe.DefaultCurrency, types.GetUserID(ctx), receipt, s.now())

	saved, err := s.ledger.upsert(ctx, p)
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("manual payment recorded",
		"payment_id", saved.ID,
		"receipt_number", receipt,
		"recorded_by", types.GetUserID(ctx),
		"payment_method", req.PaymentMethod)
	return dto.NewPaymentResponse(saved), nil
}

func (s *paymentService) ListMyPayments(ctx context.Context) (*dto.ListResponse[*dto.PaymentResponse], error) {
	items, err := s.PaymentRepo.ListByUser(ctx, types.GetUserID(ctx))
	if err != nil {
		return nil, err
	}
	payment.SortByPaidOrCreated(items)

	return dto.NewListResponse(lo.Map(items, func(p *payment.Payment, _ int) *dto.PaymentResponse {
		return dto.NewPaymentResponse(p)
	})), nil
}

func (s *paymentService) ListAllPayments(ctx context.Context) (*dto.ListResponse[*dto.AdminPaymentResponse], error) {
	if !types.IsAdmin(ctx) {
		return nil, ierr.NewError("listing all payments requires the admin role").
			WithHint("Only staff can view all payments").
			Mark(ierr.ErrPermissionDenied)
	}

	items, err := s.PaymentRepo.ListAllWithUsers(ctx)
	if err != nil {
		return nil, err
	}
	payment.SortWithUsersByPaidOrCreated(items)

	return dto.NewListResponse(lo.Map(items, func(p *payment.WithUser, _ int) *dto.AdminPaymentResponse {
		return dto.NewAdminPaymentResponse(p)
	})), nil
}
