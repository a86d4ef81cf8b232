package service

import (
	"context"
	"strings"

	"github.com/gymportal/portal/internal/api/dto"
	"github.com/gymportal/portal/internal/domain/processor"
	"github.com/gymportal/portal/internal/types"
	"github.com/gymportal/portal/internal/validator"
	"github.com/samber/lo"
)

// CheckoutService starts one-time card payments confirmed in the browser
type CheckoutService interface {
	CreatePaymentIntent(ctx context.Context, req dto.CreatePaymentIntentRequest) (*dto.CreatePaymentIntentResponse, error)
}

type checkoutService struct {
	ServiceParams
	customers CustomerService
}

func NewCheckoutService(params ServiceParams, customers CustomerService) CheckoutService {
	return &checkoutService{
		ServiceParams: params,
		customers:     customers,
	}
}

func (s *checkoutService) CreatePaymentIntent(ctx context.Context, req dto.CreatePaymentIntentRequest) (*dto.CreatePaymentIntentResponse, error) {
	if err := validator.ValidateRequest(req); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	customer, err := s.customers.EnsureCustomer(ctx)
	if err != nil {
		return nil, err
	}

	metadata := map[string]string{
		types.MetadataKeyUserID:      types.GetUserID(ctx),
		types.MetadataKeyPaymentType: string(types.PaymentTypeOneTime),
	}
	if req.PriceID != "" {
		metadata[types.MetadataKeyPriceID] = req.PriceID
	}
	if req.ProductID != "" {
		metadata[types.MetadataKeyProductID] = req.ProductID
	}

	pi, err := s.Gateway.CreatePaymentIntent(ctx, processor.PaymentIntentCreate{
		Amount:                  req.Amount,
		Currency:                strings.ToLower(lo.CoalesceOrEmpty(req.Currency, s.Config.Stripe.DefaultCurrency)),
		CustomerID:              customer.CustomerID,
		Description:             req.Description,
		Metadata:                metadata,
		AutomaticPaymentMethods: true,
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("created one-time payment intent",
		"payment_intent_id", pi.ID,
		"user_id", types.GetUserID(ctx),
		"amount", req.Amount)

	return &dto.CreatePaymentIntentResponse{
		PaymentIntentID: pi.ID,
		ClientSecret:    pi.ClientSecret,
		CustomerID:      customer.CustomerID,
	}, nil
}
