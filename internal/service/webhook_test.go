package service

import (
	"testing"
	"time"

	"github.com/gymportal/portal/internal/domain/payment"
	"github.com/gymportal/portal/internal/domain/processor"
	ierr "github.com/gymportal/portal/internal/errors"
	"github.com/gymportal/portal/internal/testutil"
	"github.com/gymportal/portal/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type WebhookServiceSuite struct {
	testutil.BaseServiceTestSuite
	service WebhookService
	payload []byte
	created time.Time
}

func TestWebhookService(t *testing.T) {
	suite.Run(t, new(WebhookServiceSuite))
}

func (s *WebhookServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	params := testParams(&s.BaseServiceTestSuite)
	s.service = NewWebhookService(params, NewIdentityResolver(params))
	s.payload = []byte(`{"id":"evt"}`)
	s.created = time.Date(2026, 4, 10, 18, 0, 0, 0, time.UTC)
}

func (s *WebhookServiceSuite) deliver(event *processor.Event) error {
	s.GetGateway().On("ParseEvent", s.payload, "t=1,v1=sig", "whsec_test").Return(event, nil).Once()
	return s.service.HandleEvent(s.GetContext(), s.payload, "t=1,v1=sig")
}

func (s *WebhookServiceSuite) seedRow(piID string, status types.PaymentStatus) {
	_, err := s.GetStores().PaymentRepo.Upsert(s.GetContext(), &payment.Payment{
		StripePaymentIntentID: lo.ToPtr(piID),
		UserID:                testutil.DefaultUserID,
		PaymentType:           types.PaymentTypeSubscription,
		Amount:                49900,
		Currency:              "mxn",
		Status:                status,
		PaidAt:                lo.Ternary(status.IsSucceeded(), lo.ToPtr(s.created), nil),
	})
	s.Require().NoError(err)
}

func (s *WebhookServiceSuite) succeededIntent(id string) *processor.PaymentIntent {
	return &processor.PaymentIntent{
		ID:       id,
		Amount:   20000,
		Currency: "mxn",
		Status:   "succeeded",
		Created:  s.created.Unix(),
		Customer: processor.NewRef[processor.Customer]("cus_1"),
		PaymentMethod: processor.Expanded("pm_1", &processor.PaymentMethod{
			ID:   "pm_1",
			Card: &processor.Card{Brand: "visa", Last4: "1881", ExpMonth: 1, ExpYear: 2030},
		}),
		Metadata: map[string]string{
			"user_id":      testutil.DefaultUserID,
			"payment_type": "one_time",
		},
	}
}

func (s *WebhookServiceSuite) TestSignatureFailureWritesNothing() {
	s.GetGateway().On("ParseEvent", s.payload, "bad", "whsec_test").
		Return(nil, ierr.NewError("signature mismatch").Mark(ierr.ErrValidation)).Once()

	err := s.service.HandleEvent(s.GetContext(), s.payload, "bad")
	s.True(ierr.IsValidation(err))

	upserts, updates := s.GetStores().PaymentRepo.Writes()
	s.Zero(upserts)
	s.Zero(updates)
}

func (s *WebhookServiceSuite) TestMissingSecretRejected() {
	s.GetConfig().Stripe.WebhookSecret = ""

	err := s.service.HandleEvent(s.GetContext(), s.payload, "t=1,v1=sig")
	s.True(ierr.IsValidation(err))
	s.GetGateway().AssertNotCalled(s.T(), "ParseEvent", mock.Anything, mock.Anything, mock.Anything)
}

func (s *WebhookServiceSuite) TestPaymentIntentSucceededUpserts() {
	err := s.deliver(newEvent("evt_1", "payment_intent.succeeded", s.succeededIntent("pi_w1")))
	s.NoError(err)

	row, err := s.GetStores().PaymentRepo.GetByPaymentIntentID(s.GetContext(), "pi_w1")
	s.NoError(err)
	s.Equal(types.PaymentTypeOneTime, row.PaymentType)
	s.Equal(types.PaymentStatusSucceeded, row.Status)
	s.Equal(int64(20000), row.Amount)
	s.Equal("1881", lo.FromPtr(row.CardLast4))
	s.True(s.created.Equal(lo.FromPtr(row.PaidAt)))
}

func (s *WebhookServiceSuite) TestPaymentTypeInferredFromInvoice() {
	pi := s.succeededIntent("pi_w2")
	pi.Metadata = map[string]string{"user_id": testutil.DefaultUserID}
	pi.PaymentMethod = processor.NewRef[processor.PaymentMethod]("pm_2")
	pi.Invoice = processor.NewRef[processor.Invoice]("in_w2")

	s.GetGateway().On("GetInvoice", mock.Anything, "in_w2").Return(invoiceJSON(`{
		"id": "in_w2", "status": "paid", "subscription": "sub_w2",
		"lines": {"data": [{"id": "il", "price": {"id": "price_basic", "product": "prod_basic"}}]}
	}`), nil).Once()
	s.GetGateway().On("GetPaymentMethod", mock.Anything, "pm_2").Return(&processor.PaymentMethod{
		ID:   "pm_2",
		Card: &processor.Card{Brand: "amex", Last4: "0005", ExpMonth: 2, ExpYear: 2031},
	}, nil).Once()

	s.NoError(s.deliver(newEvent("evt_2", "payment_intent.succeeded", pi)))

	row, err := s.GetStores().PaymentRepo.GetByPaymentIntentID(s.GetContext(), "pi_w2")
	s.NoError(err)
	s.Equal(types.PaymentTypeSubscription, row.PaymentType)
	s.Equal("sub_w2", lo.FromPtr(row.StripeSubscriptionID))
	s.Equal("price_basic", lo.FromPtr(row.PriceID))
	s.Equal("prod_basic", lo.FromPtr(row.ProductID))
	s.Equal("amex", lo.FromPtr(row.CardBrand))
}

func (s *WebhookServiceSuite) TestInvoiceFoundThroughLinkageMetadata() {
	pi := s.succeededIntent("pi_w9")
	pi.Metadata = map[string]string{
		"user_id":         testutil.DefaultUserID,
		"invoice_id":      "in_w9",
		"subscription_id": "sub_w9",
	}

	s.GetGateway().On("GetInvoice", mock.Anything, "in_w9").Return(invoiceJSON(`{
		"id": "in_w9", "status": "paid",
		"parent": {"subscription_details": {"subscription": "sub_w9"}},
		"lines": {"data": [{"id": "il", "pricing": {"price_details": {"price": "price_basic", "product": "prod_basic"}}}]}
	}`), nil).Once()

	s.NoError(s.deliver(newEvent("evt_9", "payment_intent.succeeded", pi)))

	row, err := s.GetStores().PaymentRepo.GetByPaymentIntentID(s.GetContext(), "pi_w9")
	s.NoError(err)
	s.Equal(types.PaymentTypeSubscription, row.PaymentType)
	s.Equal("in_w9", lo.FromPtr(row.StripeInvoiceID))
	s.Equal("sub_w9", lo.FromPtr(row.StripeSubscriptionID))
	s.Equal("prod_basic", lo.FromPtr(row.ProductID))
}

func (s *WebhookServiceSuite) TestUnattributedIntentSkipped() {
	pi := s.succeededIntent("pi_w3")
	pi.Metadata = nil
	pi.Customer = processor.NewRef[processor.Customer]("cus_stranger")
	s.GetGateway().On("GetCustomer", mock.Anything, "cus_stranger").
		Return(&processor.Customer{ID: "cus_stranger"}, nil).Once()

	s.NoError(s.deliver(newEvent("evt_3", "payment_intent.succeeded", pi)))
	s.Empty(s.GetStores().PaymentRepo.All())
}

func (s *WebhookServiceSuite) TestIntentFailureUpdatesStatus() {
	s.seedRow("pi_w4", types.PaymentStatusProcessing)

	s.NoError(s.deliver(newEvent("evt_4", "payment_intent.payment_failed", &processor.PaymentIntent{
		ID:       "pi_w4",
		Status:   "requires_payment_method",
		Metadata: map[string]string{"last_error": "card_declined"},
	})))

	row, err := s.GetStores().PaymentRepo.GetByPaymentIntentID(s.GetContext(), "pi_w4")
	s.NoError(err)
	s.Equal(types.PaymentStatusFailed, row.Status)
	s.Equal("card_declined", row.Metadata.Get("last_error"))
	s.Nil(row.PaidAt)
}

func (s *WebhookServiceSuite) TestStatusEventWithoutRowTolerated() {
	s.NoError(s.deliver(newEvent("evt_5", "payment_intent.canceled", &processor.PaymentIntent{ID: "pi_missing"})))
	s.Empty(s.GetStores().PaymentRepo.All())

	s.NoError(s.deliver(newEvent("evt_6", "payment_intent.requires_action", &processor.PaymentIntent{ID: "pi_missing"})))
	_, updates := s.GetStores().PaymentRepo.Writes()
	s.Equal(2, updates)
}

func (s *WebhookServiceSuite) TestInvoicePaidUsesAmountPaidAndIntentType() {
	s.GetGateway().On("GetPaymentIntent", mock.Anything, "pi_w7", true).Return(&processor.PaymentIntent{
		ID:       "pi_w7",
		Amount:   49900,
		Currency: "mxn",
		Status:   "succeeded",
		Created:  s.created.Unix(),
		Customer: processor.NewRef[processor.Customer]("cus_1"),
		Metadata: map[string]string{"payment_type": "one_time"},
	}, nil).Once()

	in := invoiceJSON(`{
		"id": "in_w7", "status": "paid", "amount_due": 49900, "amount_paid": 39900, "currency": "mxn",
		"customer": "cus_1", "payment_intent": "pi_w7", "subscription": "sub_w7",
		"metadata": {"user_id": "` + testutil.DefaultUserID + `"},
		"lines": {"data": [{"id": "il", "price": "price_promo"}]}
	}`)
	s.NoError(s.deliver(newEvent("evt_7", "invoice.paid", in)))

	row, err := s.GetStores().PaymentRepo.GetByPaymentIntentID(s.GetContext(), "pi_w7")
	s.NoError(err)
	s.Equal(int64(39900), row.Amount)
	s.Equal(types.PaymentTypeOneTime, row.PaymentType)
	s.Equal(types.PaymentStatusSucceeded, row.Status)
	s.Equal("price_promo", lo.FromPtr(row.PriceID))
	s.Nil(row.ProductID)
	s.Equal("in_w7", lo.FromPtr(row.StripeInvoiceID))
	s.Equal("sub_w7", lo.FromPtr(row.StripeSubscriptionID))
	s.NotNil(row.PaidAt)
}

func (s *WebhookServiceSuite) TestInvoicePaymentFailedWithoutRow() {
	in := invoiceJSON(`{"id": "in_w8", "status": "open", "payment_intent": "pi_none", "subscription": "sub_w8"}`)

	s.NoError(s.deliver(newEvent("evt_8", "invoice.payment_failed", in)))

	s.Empty(s.GetStores().PaymentRepo.All())
	_, updates := s.GetStores().PaymentRepo.Writes()
	s.Equal(1, updates)
}

func (s *WebhookServiceSuite) TestInvoicePaymentFailedMarksRow() {
	s.seedRow("pi_w9", types.PaymentStatusRequiresAction)
	in := invoiceJSON(`{
		"id": "in_w9", "status": "open",
		"payments": {"data": [{"payment": {"type": "payment_intent", "payment_intent": "pi_w9"}}]},
		"parent": {"subscription_details": {"subscription": "sub_w9"}}
	}`)

	s.NoError(s.deliver(newEvent("evt_9", "invoice.payment_failed", in)))

	row, err := s.GetStores().PaymentRepo.GetByPaymentIntentID(s.GetContext(), "pi_w9")
	s.NoError(err)
	s.Equal(types.PaymentStatusFailed, row.Status)
	s.Equal("in_w9", lo.FromPtr(row.StripeInvoiceID))
	s.Equal("sub_w9", lo.FromPtr(row.StripeSubscriptionID))
}

func (s *WebhookServiceSuite) TestChargeRefunded() {
	s.seedRow("pi_w10", types.PaymentStatusSucceeded)
	before, err := s.GetStores().PaymentRepo.GetByPaymentIntentID(s.GetContext(), "pi_w10")
	s.Require().NoError(err)

	s.NoError(s.deliver(newEvent("evt_10", "charge.refunded", &processor.Charge{
		ID:            "ch_1",
		Amount:        49900,
		Refunded:      true,
		PaymentIntent: processor.NewRef[processor.PaymentIntent]("pi_w10"),
	})))

	row, err := s.GetStores().PaymentRepo.GetByPaymentIntentID(s.GetContext(), "pi_w10")
	s.NoError(err)
	s.Equal(types.PaymentStatusRefunded, row.Status)
	s.Require().NotNil(row.PaidAt)
	s.True(before.PaidAt.Equal(*row.PaidAt))
}

func (s *WebhookServiceSuite) TestSubscriptionAndUnknownEventsIgnored() {
	s.NoError(s.deliver(newEvent("evt_11", "customer.subscription.updated", map[string]any{"id": "sub_1"})))
	s.NoError(s.deliver(newEvent("evt_12", "product.created", map[string]any{"id": "prod_1"})))

	upserts, updates := s.GetStores().PaymentRepo.Writes()
	s.Zero(upserts)
	s.Zero(updates)
}

func (s *WebhookServiceSuite) TestStoreFailureSwallowed() {
	s.GetStores().PaymentRepo.FailNext(ierr.NewError("connection reset").Mark(ierr.ErrDatabase))

	err := s.deliver(newEvent("evt_13", "payment_intent.succeeded", s.succeededIntent("pi_w13")))
	s.NoError(err)
	s.Empty(s.GetStores().PaymentRepo.All())
}
