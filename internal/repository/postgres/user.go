package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/gymportal/portal/internal/domain/user"
	ierr "github.com/gymportal/portal/internal/errors"
	"github.com/gymportal/portal/internal/logger"
	"github.com/gymportal/portal/internal/postgres"
)

const userColumns = `id, email, full_name, phone, role, stripe_customer_id, created_at, updated_at`

type userRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewUserRepository(db *postgres.DB, logger *logger.Logger) user.Repository {
	return &userRepository{db: db, logger: logger}
}

func (r *userRepository) EnsureProfile(ctx context.Context, u *user.User) (*user.User, error) {
	query := `
	INSERT INTO users (` + userColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (id) DO UPDATE SET email = COALESCE(NULLIF(EXCLUDED.email, ''), users.email)
	RETURNING ` + userColumns

	var stored user.User
	err := r.db.GetQuerier(ctx).GetContext(ctx, &stored, query,
		u.ID,
		u.Email,
		u.FullName,
		u.Phone,
		u.Role,
		u.StripeCustomerID,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to save user profile").
			Mark(ierr.ErrDatabase)
	}
	return &stored, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *userRepository) GetByStripeCustomerID(ctx context.Context, customerID string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE stripe_customer_id = $1 LIMIT 1`
	return r.getOne(ctx, query, customerID)
}

func (r *userRepository) SetStripeCustomerID(ctx context.Context, userID, customerID string) error {
	query := `UPDATE users SET stripe_customer_id = $2, updated_at = $3 WHERE id = $1`

	res, err := r.db.GetQuerier(ctx).ExecContext(ctx, query, userID, customerID, time.Now().UTC())
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to link payment customer").
			Mark(ierr.ErrDatabase)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ierr.NewError("user not found").
			WithHintf("User %s not found", userID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *userRepository) getOne(ctx context.Context, query string, arg string) (*user.User, error) {
	var u user.User
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &u, query, arg); err != nil {
		if err == sql.ErrNoRows {
			return nil, ierr.NewError("user not found").
				WithHint("User not found").
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get user").
			Mark(ierr.ErrDatabase)
	}
	return &u, nil
}
