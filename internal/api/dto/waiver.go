package dto

import (
	"encoding/base64"
	"strings"
	"time"

	"github.com/gymportal/portal/internal/domain/waiver"
	ierr "github.com/gymportal/portal/internal/errors"
)

// SignWaiverRequest is the submitted liability waiver form. Signature is the
// drawn signature image, base64 encoded, optionally as a data URL.
type SignWaiverRequest struct {
	FullName              string `json:"fullName" validate:"required,max=200"`
	DateOfBirth           string `json:"dateOfBirth" validate:"required"`
	Phone                 string `json:"phone" validate:"required,max=30"`
	EmergencyContactName  string `json:"emergencyContactName" validate:"required,max=200"`
	EmergencyContactPhone string `json:"emergencyContactPhone" validate:"required,max=30"`
	MedicalConditions     string `json:"medicalConditions,omitempty" validate:"omitempty,max=2000"`
	AcceptTerms           bool   `json:"acceptTerms"`
	Signature             string `json:"signature" validate:"required"`
}

// Parse validates the form and returns the birth date and decoded signature
func (r *SignWaiverRequest) Parse() (time.Time, []byte, error) {
	if !r.AcceptTerms {
		return time.Time{}, nil, ierr.NewError("terms not accepted").
			WithHint("The waiver terms must be accepted").
			Mark(ierr.ErrValidation)
	}

	dob, err := time.Parse(time.DateOnly, r.DateOfBirth)
	if err != nil {
		return time.Time{}, nil, ierr.WithError(err).
			WithHint("dateOfBirth must be formatted as YYYY-MM-DD").
			Mark(ierr.ErrValidation)
	}

	raw := r.Signature
	if idx := strings.Index(raw, ","); strings.HasPrefix(raw, "data:") && idx > 0 {
		raw = raw[idx+1:]
	}
	signature, err := base64.StdEncoding.DecodeString(raw)
	if err != nil || len(signature) == 0 {
		return time.Time{}, nil, ierr.NewError("invalid signature encoding").
			WithHint("signature must be a base64 encoded image").
			Mark(ierr.ErrValidation)
	}
	return dob, signature, nil
}

type WaiverResponse struct {
	ID          string    `json:"id"`
	FullName    string    `json:"fullName"`
	DateOfBirth string    `json:"dateOfBirth"`
	SignedAt    time.Time `json:"signedAt"`
	DownloadURL string    `json:"downloadUrl,omitempty"`
}

func NewWaiverResponse(w *waiver.Waiver, downloadURL string) *WaiverResponse {
	return &WaiverResponse{
		ID:          w.ID,
		FullName:    w.FullName,
		DateOfBirth: w.DateOfBirth.Format(time.DateOnly),
		SignedAt:    w.SignedAt,
		DownloadURL: downloadURL,
	}
}
