package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/gymportal/portal/internal/domain/payment"
	ierr "github.com/gymportal/portal/internal/errors"
	"github.com/gymportal/portal/internal/logger"
	"github.com/gymportal/portal/internal/postgres"
	"github.com/gymportal/portal/internal/types"
)

const paymentColumns = `
	id, stripe_payment_intent_id, stripe_invoice_id, stripe_subscription_id,
	user_id, stripe_customer_id, payment_type, amount, currency, status,
	payment_method_id, card_brand, card_last4, card_exp_month, card_exp_year,
	price_id, product_id, description, metadata, notes,
	created_at, updated_at, paid_at`

const insertPaymentValues = `
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
		$16, $17, $18, $19, $20, $21, $22, $23)`

// Incoming values overwrite stored ones, including with NULL. The exceptions:
// id and created_at belong to the first writer, paid_at is set once, invoice,
// subscription, price and product linkage is only ever filled in, metadata is
// merged with the incoming keys winning, and notes are staff-owned so
// processor-sourced writes (which never carry notes) keep them.
const upsertPaymentConflict = `
	ON CONFLICT (stripe_payment_intent_id) DO UPDATE SET
		stripe_invoice_id = COALESCE(EXCLUDED.stripe_invoice_id, payments.stripe_invoice_id),
		stripe_subscription_id = COALESCE(EXCLUDED.stripe_subscription_id, payments.stripe_subscription_id),
		user_id = EXCLUDED.user_id,
		stripe_customer_id = EXCLUDED.stripe_customer_id,
		payment_type = EXCLUDED.payment_type,
		amount = EXCLUDED.amount,
		currency = EXCLUDED.currency,
		status = EXCLUDED.status,
		payment_method_id = EXCLUDED.payment_method_id,
		card_brand = EXCLUDED.card_brand,
		card_last4 = EXCLUDED.card_last4,
		card_exp_month = EXCLUDED.card_exp_month,
		card_exp_year = EXCLUDED.card_exp_year,
		price_id = COALESCE(EXCLUDED.price_id, payments.price_id),
		product_id = COALESCE(EXCLUDED.product_id, payments.product_id),
		description = EXCLUDED.description,
		metadata = COALESCE(payments.metadata, '{}'::jsonb) || EXCLUDED.metadata,
		notes = COALESCE(EXCLUDED.notes, payments.notes),
		updated_at = EXCLUDED.updated_at,
		paid_at = COALESCE(payments.paid_at, EXCLUDED.paid_at)`

type paymentRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewPaymentRepository(db *postgres.DB, logger *logger.Logger) payment.Repository {
	return &paymentRepository{db: db, logger: logger}
}

func (r *paymentRepository) Upsert(ctx context.Context, p *payment.Payment) (*payment.Payment, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if p.ID == "" {
		p.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT)
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	if p.Metadata == nil {
		p.Metadata = types.Metadata{}
	}

	query := `INSERT INTO payments (` + paymentColumns + `)` + insertPaymentValues
	if p.PaymentIntentID() != "" {
		query += upsertPaymentConflict
	}
	query += ` RETURNING ` + paymentColumns

	var stored payment.Payment
	err := r.db.GetQuerier(ctx).GetContext(ctx, &stored, query,
		p.ID,
		p.StripePaymentIntentID,
		p.StripeInvoiceID,
		p.StripeSubscriptionID,
		p.UserID,
		p.StripeCustomerID,
		p.PaymentType,
		p.Amount,
		p.Currency,
		p.Status,
		p.PaymentMethodID,
		p.CardBrand,
		p.CardLast4,
		p.CardExpMonth,
		p.CardExpYear,
		p.PriceID,
		p.ProductID,
		p.Description,
		p.Metadata,
		p.Notes,
		p.CreatedAt,
		p.UpdatedAt,
		p.PaidAt,
	)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to save payment").
			WithReportableDetails(map[string]any{
				"payment_intent_id": p.PaymentIntentID(),
			}).
			Mark(ierr.ErrDatabase)
	}

	r.logger.Debugw("payment upserted",
		"payment_id", stored.ID,
		"payment_intent_id", stored.PaymentIntentID(),
		"status", stored.Status,
	)
	return &stored, nil
}

func (r *paymentRepository) UpdateStatus(ctx context.Context, paymentIntentID string, status string, update *payment.StatusUpdate) (int64, error) {
	if update == nil {
		update = &payment.StatusUpdate{}
	}

	query := `
	UPDATE payments SET
		status = $2,
		updated_at = $3,
		paid_at = CASE WHEN $2 = 'succeeded' THEN COALESCE(paid_at, $3) ELSE paid_at END,
		stripe_invoice_id = COALESCE($4, stripe_invoice_id),
		stripe_subscription_id = COALESCE($5, stripe_subscription_id),
		metadata = COALESCE(metadata, '{}'::jsonb) || $6::jsonb
	WHERE stripe_payment_intent_id = $1`

	res, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		paymentIntentID,
		status,
		time.Now().UTC(),
		update.InvoiceID,
		update.SubscriptionID,
		update.Metadata,
	)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to update payment status").
			WithReportableDetails(map[string]any{
				"payment_intent_id": paymentIntentID,
				"status":            status,
			}).
			Mark(ierr.ErrDatabase)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to update payment status").
			Mark(ierr.ErrDatabase)
	}
	return affected, nil
}

func (r *paymentRepository) GetByPaymentIntentID(ctx context.Context, paymentIntentID string) (*payment.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE stripe_payment_intent_id = $1`

	var p payment.Payment
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &p, query, paymentIntentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, ierr.NewError("payment not found").
				WithHintf("No payment recorded for intent %s", paymentIntentID).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get payment").
			Mark(ierr.ErrDatabase)
	}
	return &p, nil
}

func (r *paymentRepository) ListByUser(ctx context.Context, userID string) ([]*payment.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE user_id = $1`

	var items []*payment.Payment
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &items, query, userID); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list payments").
			Mark(ierr.ErrDatabase)
	}
	return items, nil
}

func (r *paymentRepository) ListAllWithUsers(ctx context.Context) ([]*payment.WithUser, error) {
	query := `
	SELECT ` + prefixed("p", paymentColumns) + `,
		u.email AS user_email,
		u.full_name AS user_full_name
	FROM payments p
	LEFT JOIN users u ON u.id = p.user_id`

	var items []*payment.WithUser
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &items, query); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list payments").
			Mark(ierr.ErrDatabase)
	}
	return items, nil
}
