package dto

import (
	"testing"
	"time"

	ierr "github.com/gymportal/portal/internal/errors"
	"github.com/gymportal/portal/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualPaymentRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     ManualPaymentRequest
		wantErr bool
	}{
		{
			name: "one time positive",
			req:  ManualPaymentRequest{UserID: "u1", PaymentMethod: types.ManualPaymentMethodCash, Amount: lo.ToPtr(int64(50000))},
		},
		{
			name:    "one time zero rejected",
			req:     ManualPaymentRequest{UserID: "u1", PaymentMethod: types.ManualPaymentMethodCash, Amount: lo.ToPtr(int64(0)), PaymentType: types.PaymentTypeOneTime},
			wantErr: true,
		},
		{
			name:    "default type is one time",
			req:     ManualPaymentRequest{UserID: "u1", PaymentMethod: types.ManualPaymentMethodCash, Amount: lo.ToPtr(int64(0))},
			wantErr: true,
		},
		{
			name: "subscription zero accepted",
			req:  ManualPaymentRequest{UserID: "u1", PaymentMethod: types.ManualPaymentMethodTransfer, Amount: lo.ToPtr(int64(0)), PaymentType: types.PaymentTypeSubscription},
		},
		{
			name:    "negative rejected",
			req:     ManualPaymentRequest{UserID: "u1", PaymentMethod: types.ManualPaymentMethodCash, Amount: lo.ToPtr(int64(-1)), PaymentType: types.PaymentTypeSubscription},
			wantErr: true,
		},
		{
			name:    "unknown method",
			req:     ManualPaymentRequest{UserID: "u1", PaymentMethod: "card", Amount: lo.ToPtr(int64(100))},
			wantErr: true,
		},
		{
			name:    "unknown type",
			req:     ManualPaymentRequest{UserID: "u1", PaymentMethod: types.ManualPaymentMethodCash, Amount: lo.ToPtr(int64(100)), PaymentType: "gift"},
			wantErr: true,
		},
		{
			name:    "bad end date",
			req:     ManualPaymentRequest{UserID: "u1", PaymentMethod: types.ManualPaymentMethodCash, Amount: lo.ToPtr(int64(100)), SubscriptionEndDate: "31/12/2025"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.True(t, ierr.IsValidation(err), "expected validation error, got %v", err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestManualPaymentRequestToPayment(t *testing.T) {
	now := time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)

	t.Run("subscription cancellation", func(t *testing.T) {
		req := ManualPaymentRequest{
			UserID:        "u1",
			PaymentMethod: types.ManualPaymentMethodCash,
			Amount:        lo.ToPtr(int64(0)),
			PaymentType:   types.PaymentTypeSubscription,
			Description:   "ignored",
			Notes:         "baja voluntaria",
		}
		require.NoError(t, req.Validate())

		p := req.ToPayment("MXN", "admin1", "RCP-ABC", now)
		assert.Equal(t, "Subscription cancellation", *p.Description)
		assert.Equal(t, types.PaymentStatusSucceeded, p.Status)
		assert.Equal(t, "mxn", p.Currency)
		assert.Nil(t, p.StripePaymentIntentID)
		assert.Equal(t, "baja voluntaria", *p.Notes)
		assert.Equal(t, now, *p.PaidAt)
		assert.Equal(t, "RCP-ABC", p.Metadata[types.MetadataKeyReceiptNumber])
		assert.Equal(t, "cash", p.Metadata[types.MetadataKeyPaymentMethod])
		assert.Equal(t, "admin1", p.Metadata[types.MetadataKeyRecordedBy])
	})

	t.Run("one time with discount and explicit paid at", func(t *testing.T) {
		paidAt := time.Date(2025, 1, 15, 18, 30, 0, 0, time.FixedZone("CST", -6*3600))
		req := ManualPaymentRequest{
			UserID:              "u1",
			PaymentMethod:       types.ManualPaymentMethodTransfer,
			Amount:              lo.ToPtr(int64(45000)),
			Description:         "Mensualidad",
			Category:            "membership",
			DiscountAmount:      lo.ToPtr(int64(5000)),
			DiscountReason:      "promo",
			PaidAt:              &paidAt,
			SubscriptionEndDate: "2025-02-15",
		}
		require.NoError(t, req.Validate())

		p := req.ToPayment("mxn", "admin1", "RCP-XYZ", now)
		assert.Equal(t, types.PaymentTypeOneTime, p.PaymentType)
		assert.Equal(t, int64(45000), p.Amount)
		assert.Equal(t, "Mensualidad", *p.Description)
		assert.Equal(t, paidAt.UTC(), *p.PaidAt)
		assert.Nil(t, p.Notes)
		assert.Equal(t, "5000", p.Metadata[types.MetadataKeyDiscountAmount])
		assert.Equal(t, "promo", p.Metadata[types.MetadataKeyDiscountReason])
		assert.Equal(t, "membership", p.Metadata[types.MetadataKeyCategory])
		assert.Equal(t, "2025-02-15", p.Metadata[types.MetadataKeySubscriptionEndDate])
	})
}

func TestSavePaymentRequestValidate(t *testing.T) {
	assert.NoError(t, (&SavePaymentRequest{PaymentIntentID: "pi_1", PaymentType: types.PaymentTypeOneTime}).Validate())
	assert.True(t, ierr.IsValidation((&SavePaymentRequest{PaymentIntentID: "ch_1", PaymentType: types.PaymentTypeOneTime}).Validate()))
	assert.True(t, ierr.IsValidation((&SavePaymentRequest{PaymentIntentID: "pi_1", PaymentType: "x"}).Validate()))
}

func TestFormatMinorUnits(t *testing.T) {
	assert.Equal(t, "499.00", FormatMinorUnits(49900))
	assert.Equal(t, "0.05", FormatMinorUnits(5))
	assert.Equal(t, "0.00", FormatMinorUnits(0))
}
