package waiver

import (
	"time"

	ierr "github.com/gymportal/portal/internal/errors"
)

// Waiver is a signed liability release ("responsiva"). The rendered PDF lives
// in object storage under PDFKey.
type Waiver struct {
	ID                    string    `db:"id" json:"id"`
	UserID                string    `db:"user_id" json:"user_id"`
	FullName              string    `db:"full_name" json:"full_name"`
	DateOfBirth           time.Time `db:"date_of_birth" json:"date_of_birth"`
	Phone                 string    `db:"phone" json:"phone"`
	EmergencyContactName  string    `db:"emergency_contact_name" json:"emergency_contact_name"`
	EmergencyContactPhone string    `db:"emergency_contact_phone" json:"emergency_contact_phone"`
	MedicalConditions     *string   `db:"medical_conditions" json:"medical_conditions,omitempty"`
	SignatureContentType  string    `db:"signature_content_type" json:"signature_content_type"`
	PDFKey                string    `db:"pdf_key" json:"pdf_key"`
	SignedAt              time.Time `db:"signed_at" json:"signed_at"`
	CreatedAt             time.Time `db:"created_at" json:"created_at"`
}

func (w *Waiver) Validate() error {
	if w.UserID == "" || w.FullName == "" {
		return ierr.NewError("waiver owner and name are required").
			WithHint("Full name is required").
			Mark(ierr.ErrValidation)
	}
	if w.DateOfBirth.IsZero() || w.DateOfBirth.After(time.Now()) {
		return ierr.NewError("invalid date of birth").
			WithHint("Date of birth must be in the past").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// AgeAt returns whole years between DateOfBirth and t
func (w *Waiver) AgeAt(t time.Time) int {
	years := t.Year() - w.DateOfBirth.Year()
	if t.YearDay() < w.DateOfBirth.YearDay() {
		years--
	}
	return years
}
