package user

import (
	"time"

	"github.com/gymportal/portal/internal/types"
)

// User is the portal profile row mirrored from the hosted auth provider.
// ID is the provider's user id.
type User struct {
	ID               string         `db:"id" json:"id"`
	Email            string         `db:"email" json:"email"`
	FullName         *string        `db:"full_name" json:"full_name,omitempty"`
	Phone            *string        `db:"phone" json:"phone,omitempty"`
	Role             types.UserRole `db:"role" json:"role"`
	StripeCustomerID *string        `db:"stripe_customer_id" json:"stripe_customer_id,omitempty"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at" json:"updated_at"`
}

func NewUser(id, email string) *User {
	now := time.Now().UTC()
	return &User{
		ID:        id,
		Email:     email,
		Role:      types.UserRoleMember,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (u *User) IsAdmin() bool {
	return u.Role == types.UserRoleAdmin
}

func (u *User) DisplayName() string {
	if u.FullName != nil && *u.FullName != "" {
		return *u.FullName
	}
	return u.Email
}
