package postgres

import (
	"context"
	"database/sql"

	"github.com/gymportal/portal/internal/domain/waiver"
	ierr "github.com/gymportal/portal/internal/errors"
	"github.com/gymportal/portal/internal/logger"
	"github.com/gymportal/portal/internal/postgres"
)

const waiverColumns = `
	id, user_id, full_name, date_of_birth, phone, emergency_contact_name,
	emergency_contact_phone, medical_conditions, signature_content_type,
	pdf_key, signed_at, created_at`

type waiverRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewWaiverRepository(db *postgres.DB, logger *logger.Logger) waiver.Repository {
	return &waiverRepository{db: db, logger: logger}
}

func (r *waiverRepository) Create(ctx context.Context, w *waiver.Waiver) error {
	query := `
	INSERT INTO waivers (` + waiverColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		w.ID,
		w.UserID,
		w.FullName,
		w.DateOfBirth,
		w.Phone,
		w.EmergencyContactName,
		w.EmergencyContactPhone,
		w.MedicalConditions,
		w.SignatureContentType,
		w.PDFKey,
		w.SignedAt,
		w.CreatedAt,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to save waiver").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *waiverRepository) GetLatestByUser(ctx context.Context, userID string) (*waiver.Waiver, error) {
	query := `SELECT ` + waiverColumns + ` FROM waivers WHERE user_id = $1 ORDER BY signed_at DESC LIMIT 1`

	var w waiver.Waiver
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &w, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, ierr.NewError("waiver not found").
				WithHint("No signed waiver on file").
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get waiver").
			Mark(ierr.ErrDatabase)
	}
	return &w, nil
}
