package service

import (
	"testing"
	"time"

	"github.com/gymportal/portal/internal/api/dto"
	"github.com/gymportal/portal/internal/domain/payment"
	"github.com/gymportal/portal/internal/domain/processor"
	"github.com/gymportal/portal/internal/domain/user"
	ierr "github.com/gymportal/portal/internal/errors"
	"github.com/gymportal/portal/internal/testutil"
	"github.com/gymportal/portal/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type PaymentServiceSuite struct {
	testutil.BaseServiceTestSuite
	service PaymentService
	created time.Time
}

func TestPaymentService(t *testing.T) {
	suite.Run(t, new(PaymentServiceSuite))
}

func (s *PaymentServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	params := testParams(&s.BaseServiceTestSuite)
	s.service = NewPaymentService(params, NewIdentityResolver(params))
	s.created = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
}

func (s *PaymentServiceSuite) intent(id, status string) *processor.PaymentIntent {
	return &processor.PaymentIntent{
		ID:       id,
		Amount:   35000,
		Currency: "mxn",
		Status:   status,
		Created:  s.created.Unix(),
		Customer: processor.NewRef[processor.Customer]("cus_1"),
		PaymentMethod: processor.Expanded("pm_1", &processor.PaymentMethod{
			ID:   "pm_1",
			Card: &processor.Card{Brand: "visa", Last4: "4242", ExpMonth: 8, ExpYear: 2029},
		}),
		Metadata: map[string]string{"user_id": testutil.DefaultUserID},
	}
}

func (s *PaymentServiceSuite) TestSavePaymentRecordsIntent() {
	s.GetGateway().On("GetPaymentIntent", mock.Anything, "pi_save", true).
		Return(s.intent("pi_save", "succeeded"), nil).Once()

	resp, err := s.service.SavePayment(s.GetContext(), dto.SavePaymentRequest{
		PaymentIntentID: "pi_save",
		PaymentType:     types.PaymentTypeOneTime,
		PriceID:         "price_day_pass",
	})
	s.NoError(err)
	s.Equal("pi_save", lo.FromPtr(resp.PaymentIntentID))

	row, err := s.GetStores().PaymentRepo.GetByPaymentIntentID(s.GetContext(), "pi_save")
	s.NoError(err)
	s.Equal(testutil.DefaultUserID, row.UserID)
	s.Equal(types.PaymentStatusSucceeded, row.Status)
	s.Equal("price_day_pass", lo.FromPtr(row.PriceID))
	s.Equal("4242", lo.FromPtr(row.CardLast4))
	s.True(s.created.Equal(lo.FromPtr(row.PaidAt)))
}

func (s *PaymentServiceSuite) TestSavePaymentUsesInvoiceLinkage() {
	pi := s.intent("pi_sub", "succeeded")
	pi.Invoice = processor.NewRef[processor.Invoice]("in_1")
	s.GetGateway().On("GetPaymentIntent", mock.Anything, "pi_sub", true).Return(pi, nil).Once()
	s.GetGateway().On("GetInvoice", mock.Anything, "in_1").Return(&processor.Invoice{
		ID:           "in_1",
		Subscription: processor.NewRef[processor.Subscription]("sub_1"),
		Lines: &struct {
			Data []processor.InvoiceLine `json:"data"`
		}{Data: []processor.InvoiceLine{{
			ID:    "il_1",
			Price: processor.Expanded("price_basic", &processor.Price{ID: "price_basic", Product: processor.NewRef[processor.Product]("prod_basic")}),
		}}},
	}, nil).Once()

	_, err := s.service.SavePayment(s.GetContext(), dto.SavePaymentRequest{
		PaymentIntentID: "pi_sub",
		PaymentType:     types.PaymentTypeSubscription,
	})
	s.NoError(err)

	row, err := s.GetStores().PaymentRepo.GetByPaymentIntentID(s.GetContext(), "pi_sub")
	s.NoError(err)
	s.Equal("in_1", lo.FromPtr(row.StripeInvoiceID))
	s.Equal("sub_1", lo.FromPtr(row.StripeSubscriptionID))
	s.Equal("price_basic", lo.FromPtr(row.PriceID))
	s.Equal("prod_basic", lo.FromPtr(row.ProductID))
}

func (s *PaymentServiceSuite) TestSavePaymentRejectsForeignIntent() {
	pi := s.intent("pi_other", "succeeded")
	pi.Metadata = map[string]string{"user_id": "someone-else"}
	s.GetGateway().On("GetPaymentIntent", mock.Anything, "pi_other", true).Return(pi, nil).Once()

	_, err := s.service.SavePayment(s.GetContext(), dto.SavePaymentRequest{
		PaymentIntentID: "pi_other",
		PaymentType:     types.PaymentTypeOneTime,
	})
	s.True(ierr.IsPermissionDenied(err))
	upserts, _ := s.GetStores().PaymentRepo.Writes()
	s.Zero(upserts)
}

func (s *PaymentServiceSuite) TestSavePaymentRejectsIntentOfOtherMembersCustomer() {
	s.GetStores().UserRepo.Seed(&user.User{
		ID:               "someone-else",
		Email:            "someone-else@gym.test",
		StripeCustomerID: lo.ToPtr("cus_other"),
	})
	pi := s.intent("pi_cus", "succeeded")
	pi.Metadata = nil
	pi.Customer = processor.NewRef[processor.Customer]("cus_other")
	s.GetGateway().On("GetPaymentIntent", mock.Anything, "pi_cus", true).Return(pi, nil).Once()
	s.GetGateway().On("GetCustomer", mock.Anything, "cus_other").
		Return(&processor.Customer{ID: "cus_other"}, nil).Once()

	_, err := s.service.SavePayment(s.GetContext(), dto.SavePaymentRequest{
		PaymentIntentID: "pi_cus",
		PaymentType:     types.PaymentTypeOneTime,
	})
	s.True(ierr.IsPermissionDenied(err))
	s.Empty(s.GetStores().PaymentRepo.All())
}

func (s *PaymentServiceSuite) TestSavePaymentUsesLinkageMetadata() {
	pi := s.intent("pi_link", "succeeded")
	pi.Metadata = map[string]string{
		"user_id":         testutil.DefaultUserID,
		"invoice_id":      "in_link",
		"subscription_id": "sub_link",
	}
	s.GetGateway().On("GetPaymentIntent", mock.Anything, "pi_link", true).Return(pi, nil).Once()
	s.GetGateway().On("GetInvoice", mock.Anything, "in_link").
		Return(nil, ierr.NewError("stripe down").Mark(ierr.ErrHTTPClient)).Once()

	_, err := s.service.SavePayment(s.GetContext(), dto.SavePaymentRequest{
		PaymentIntentID: "pi_link",
		PaymentType:     types.PaymentTypeSubscription,
	})
	s.NoError(err)

	row, err := s.GetStores().PaymentRepo.GetByPaymentIntentID(s.GetContext(), "pi_link")
	s.NoError(err)
	s.Equal("in_link", lo.FromPtr(row.StripeInvoiceID))
	s.Equal("sub_link", lo.FromPtr(row.StripeSubscriptionID))
}

func (s *PaymentServiceSuite) TestSavePaymentValidatesBeforeIO() {
	_, err := s.service.SavePayment(s.GetContext(), dto.SavePaymentRequest{
		PaymentIntentID: "ch_wrong",
		PaymentType:     types.PaymentTypeOneTime,
	})
	s.True(ierr.IsValidation(err))
	s.GetGateway().AssertNotCalled(s.T(), "GetPaymentIntent", mock.Anything, mock.Anything, mock.Anything)
}

func (s *PaymentServiceSuite) TestRepeatedSaveIsIdempotent() {
	s.GetGateway().On("GetPaymentIntent", mock.Anything, "pi_rep", true).
		Return(s.intent("pi_rep", "succeeded"), nil).Times(3)

	req := dto.SavePaymentRequest{PaymentIntentID: "pi_rep", PaymentType: types.PaymentTypeOneTime}
	var first *payment.Payment
	for i := 0; i < 3; i++ {
		_, err := s.service.SavePayment(s.GetContext(), req)
		s.NoError(err)
		row, err := s.GetStores().PaymentRepo.GetByPaymentIntentID(s.GetContext(), "pi_rep")
		s.NoError(err)
		row.UpdatedAt = time.Time{}
		if first == nil {
			first = row
			continue
		}
		s.Equal(first, row)
	}
	s.Len(s.GetStores().PaymentRepo.All(), 1)
}

func (s *PaymentServiceSuite) TestPaidAtNotRegressed() {
	s.GetGateway().On("GetPaymentIntent", mock.Anything, "pi_paid", true).
		Return(s.intent("pi_paid", "succeeded"), nil).Once()
	late := s.intent("pi_paid", "processing")
	late.Created = s.created.Add(time.Hour).Unix()
	s.GetGateway().On("GetPaymentIntent", mock.Anything, "pi_paid", true).Return(late, nil).Once()

	req := dto.SavePaymentRequest{PaymentIntentID: "pi_paid", PaymentType: types.PaymentTypeOneTime}
	_, err := s.service.SavePayment(s.GetContext(), req)
	s.NoError(err)
	_, err = s.service.SavePayment(s.GetContext(), req)
	s.NoError(err)

	row, err := s.GetStores().PaymentRepo.GetByPaymentIntentID(s.GetContext(), "pi_paid")
	s.NoError(err)
	s.Equal(types.PaymentStatusProcessing, row.Status)
	s.NotNil(row.PaidAt)
	s.True(s.created.Equal(*row.PaidAt))
}

func (s *PaymentServiceSuite) TestManualPaymentRequiresAdmin() {
	_, err := s.service.RecordManualPayment(s.GetContext(), dto.ManualPaymentRequest{
		UserID:        testutil.DefaultUserID,
		PaymentMethod: types.ManualPaymentMethodCash,
		Amount:        lo.ToPtr(int64(50000)),
	})
	s.True(ierr.IsPermissionDenied(err))
	s.Empty(s.GetStores().PaymentRepo.All())
}

func (s *PaymentServiceSuite) TestManualOneTimeZeroRejected() {
	_, err := s.service.RecordManualPayment(s.GetAdminContext(), dto.ManualPaymentRequest{
		UserID:        testutil.DefaultUserID,
		PaymentMethod: types.ManualPaymentMethodCash,
		Amount:        lo.ToPtr(int64(0)),
		PaymentType:   types.PaymentTypeOneTime,
	})
	s.True(ierr.IsValidation(err))
	s.Empty(s.GetStores().PaymentRepo.All())
}

func (s *PaymentServiceSuite) TestManualSubscriptionZeroIsCancellation() {
	resp, err := s.service.RecordManualPayment(s.GetAdminContext(), dto.ManualPaymentRequest{
		UserID:              testutil.DefaultUserID,
		PaymentMethod:       types.ManualPaymentMethodTransfer,
		Amount:              lo.ToPtr(int64(0)),
		PaymentType:         types.PaymentTypeSubscription,
		SubscriptionEndDate: "2026-06-30",
	})
	s.NoError(err)
	s.Equal("Subscription cancellation", lo.FromPtr(resp.Description))

	rows := s.GetStores().PaymentRepo.All()
	s.Len(rows, 1)
	row := rows[0]
	s.Equal(types.PaymentStatusSucceeded, row.Status)
	s.Nil(row.StripePaymentIntentID)
	s.Equal("transfer", row.Metadata.Get(types.MetadataKeyPaymentMethod))
	s.Equal(testutil.DefaultAdminID, row.Metadata.Get(types.MetadataKeyRecordedBy))
	s.True(len(row.Metadata.Get(types.MetadataKeyReceiptNumber)) > len(types.SHORT_ID_PREFIX_RECEIPT))
	s.Equal("2026-06-30", row.Metadata.Get(types.MetadataKeySubscriptionEndDate))
	s.Equal("mxn", row.Currency)
	s.NotNil(row.PaidAt)
}

func (s *PaymentServiceSuite) TestManualPaymentUnknownMember() {
	_, err := s.service.RecordManualPayment(s.GetAdminContext(), dto.ManualPaymentRequest{
		UserID:        "ghost",
		PaymentMethod: types.ManualPaymentMethodCash,
		Amount:        lo.ToPtr(int64(10000)),
	})
	s.True(ierr.IsValidation(err))
	s.Empty(s.GetStores().PaymentRepo.All())
}

func (s *PaymentServiceSuite) TestManualPaymentsNeverMerge() {
	req := dto.ManualPaymentRequest{
		UserID:        testutil.DefaultUserID,
		PaymentMethod: types.ManualPaymentMethodCash,
		Amount:        lo.ToPtr(int64(25000)),
		Notes:         "Paid at front desk",
	}
	_, err := s.service.RecordManualPayment(s.GetAdminContext(), req)
	s.NoError(err)
	_, err = s.service.RecordManualPayment(s.GetAdminContext(), req)
	s.NoError(err)
	s.Len(s.GetStores().PaymentRepo.All(), 2)
}

func (s *PaymentServiceSuite) TestListMyPaymentsSorted() {
	ctx := s.GetContext()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := s.GetStores().PaymentRepo

	seed := func(piID string, createdAt time.Time, paidAt *time.Time, userID string) {
		repo.SetClock(func() time.Time { return createdAt })
		_, err := repo.Upsert(ctx, &payment.Payment{
			StripePaymentIntentID: lo.ToPtr(piID),
			UserID:                userID,
			PaymentType:           types.PaymentTypeOneTime,
			Amount:                100,
			Currency:              "mxn",
			Status:                types.PaymentStatusSucceeded,
			PaidAt:                paidAt,
		})
		s.NoError(err)
	}
	seed("pi_a", base, lo.ToPtr(base.Add(48*time.Hour)), testutil.DefaultUserID)
	seed("pi_b", base.Add(24*time.Hour), nil, testutil.DefaultUserID)
	seed("pi_c", base.Add(72*time.Hour), nil, testutil.DefaultUserID)
	seed("pi_x", base.Add(96*time.Hour), nil, "someone-else")

	resp, err := s.service.ListMyPayments(ctx)
	s.NoError(err)
	s.Equal(3, resp.Total)
	ids := lo.Map(resp.Items, func(p *dto.PaymentResponse, _ int) string { return lo.FromPtr(p.PaymentIntentID) })
	s.Equal([]string{"pi_c", "pi_a", "pi_b"}, ids)

	_, err = s.service.ListAllPayments(ctx)
	s.True(ierr.IsPermissionDenied(err))

	all, err := s.service.ListAllPayments(s.GetAdminContext())
	s.NoError(err)
	s.Equal(4, all.Total)
	s.Equal("pi_x", lo.FromPtr(all.Items[0].PaymentIntentID))
	s.Equal("member@gym.test", lo.FromPtr(all.Items[1].UserEmail))
}
