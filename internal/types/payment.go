package types

import (
	ierr "github.com/gymportal/portal/internal/errors"
	"github.com/samber/lo"
)

// PaymentStatus is the processor-facing lifecycle status of a ledger row.
// The set is open: values outside the known list are carried verbatim and
// report IsKnown() == false instead of failing to parse.
type PaymentStatus string

const (
	PaymentStatusRequiresPaymentMethod PaymentStatus = "requires_payment_method"
	PaymentStatusRequiresConfirmation  PaymentStatus = "requires_confirmation"
	PaymentStatusRequiresAction        PaymentStatus = "requires_action"
	PaymentStatusProcessing            PaymentStatus = "processing"
	PaymentStatusSucceeded             PaymentStatus = "succeeded"
	PaymentStatusFailed                PaymentStatus = "failed"
	PaymentStatusCanceled              PaymentStatus = "canceled"
	PaymentStatusRefunded              PaymentStatus = "refunded"
)

var knownPaymentStatuses = []PaymentStatus{
	PaymentStatusRequiresPaymentMethod,
	PaymentStatusRequiresConfirmation,
	PaymentStatusRequiresAction,
	PaymentStatusProcessing,
	PaymentStatusSucceeded,
	PaymentStatusFailed,
	PaymentStatusCanceled,
	PaymentStatusRefunded,
}

// ParsePaymentStatus never fails; unknown strings become the passthrough variant
func ParsePaymentStatus(s string) PaymentStatus {
	return PaymentStatus(s)
}

func (s PaymentStatus) String() string {
	return string(s)
}

// IsKnown reports whether s is one of the statuses this service acts on
func (s PaymentStatus) IsKnown() bool {
	return lo.Contains(knownPaymentStatuses, s)
}

func (s PaymentStatus) IsSucceeded() bool {
	return s == PaymentStatusSucceeded
}

// NeedsConfirmation reports whether a server-side confirm call can advance the intent
func (s PaymentStatus) NeedsConfirmation() bool {
	return s == PaymentStatusRequiresConfirmation || s == PaymentStatusRequiresPaymentMethod
}

// PaymentType classifies a ledger row
type PaymentType string

const (
	PaymentTypeSubscription PaymentType = "subscription"
	PaymentTypeOneTime      PaymentType = "one_time"
)

func (t PaymentType) String() string {
	return string(t)
}

func (t PaymentType) Validate() error {
	allowed := []PaymentType{
		PaymentTypeSubscription,
		PaymentTypeOneTime,
	}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid payment type").
			WithHintf("Payment type must be one of %v", allowed).
			WithReportableDetails(map[string]any{
				"payment_type": t,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ManualPaymentMethod is how staff received an off-processor payment
type ManualPaymentMethod string

const (
	ManualPaymentMethodCash     ManualPaymentMethod = "cash"
	ManualPaymentMethodTransfer ManualPaymentMethod = "transfer"
)

func (m ManualPaymentMethod) Validate() error {
	allowed := []ManualPaymentMethod{
		ManualPaymentMethodCash,
		ManualPaymentMethodTransfer,
	}
	if !lo.Contains(allowed, m) {
		return ierr.NewError("invalid manual payment method").
			WithHintf("Payment method must be one of %v", allowed).
			WithReportableDetails(map[string]any{
				"payment_method": m,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// Metadata keys shared between the processor objects and the ledger
const (
	MetadataKeyUserID              = "user_id"
	MetadataKeySupabaseUserID      = "supabase_user_id"
	MetadataKeyPaymentType         = "payment_type"
	MetadataKeyPriceID             = "price_id"
	MetadataKeyProductID           = "product_id"
	MetadataKeyInvoiceID           = "invoice_id"
	MetadataKeySubscriptionID      = "subscription_id"
	MetadataKeyPaymentMethod       = "payment_method"
	MetadataKeyReceiptNumber       = "receipt_number"
	MetadataKeyCategory            = "category"
	MetadataKeyDiscountAmount      = "discount_amount"
	MetadataKeyDiscountReason      = "discount_reason"
	MetadataKeySubscriptionEndDate = "subscription_end_date"
	MetadataKeyRecordedBy          = "recorded_by"
)
