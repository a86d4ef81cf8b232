package service

import (
	"context"
	"time"

	"github.com/gymportal/portal/internal/api/dto"
	"github.com/gymportal/portal/internal/domain/waiver"
	ierr "github.com/gymportal/portal/internal/errors"
	"github.com/gymportal/portal/internal/pdf"
	"github.com/gymportal/portal/internal/s3"
	"github.com/gymportal/portal/internal/types"
	"github.com/gymportal/portal/internal/validator"
	"github.com/h2non/filetype"
	"github.com/samber/lo"
)

// signatureImageTypes maps accepted signature MIME types to gofpdf image types
var signatureImageTypes = map[string]string{
	"image/png":  "PNG",
	"image/jpeg": "JPG",
}

// WaiverService records signed liability waivers
type WaiverService interface {
	SignWaiver(ctx context.Context, req dto.SignWaiverRequest) (*dto.WaiverResponse, error)
	// GetMyWaiver returns the caller's latest waiver with a download link
	GetMyWaiver(ctx context.Context) (*dto.WaiverResponse, error)
}

type waiverService struct {
	ServiceParams
	now func() time.Time
}

func NewWaiverService(params ServiceParams) WaiverService {
	return &waiverService{
		ServiceParams: params,
		now:           time.Now,
	}
}

func (s *waiverService) SignWaiver(ctx context.Context, req dto.SignWaiverRequest) (*dto.WaiverResponse, error) {
	if err := validator.ValidateRequest(req); err != nil {
		return nil, err
	}
	dob, signature, err := req.Parse()
	if err != nil {
		return nil, err
	}

	kind, err := filetype.Match(signature)
	imageType, ok := signatureImageTypes[kind.MIME.Value]
	if err != nil || !ok {
		return nil, ierr.NewError("unsupported signature image").
			WithHint("Signature must be a PNG or JPEG image").
			WithReportableDetails(map[string]any{
				"detected_type": kind.MIME.Value,
			}).
			Mark(ierr.ErrValidation)
	}

	if s.S3 == nil {
		return nil, ierr.NewError("document storage disabled").
			WithHint("Waivers cannot be signed right now").
			Mark(ierr.ErrInvalidOperation)
	}

	now := s.now().UTC()
	w := &waiver.Waiver{
		ID:                    types.GenerateUUIDWithPrefix(types.UUID_PREFIX_WAIVER),
		UserID:                types.GetUserID(ctx),
		FullName:              req.FullName,
		DateOfBirth:           dob,
		Phone:                 req.Phone,
		EmergencyContactName:  req.EmergencyContactName,
		EmergencyContactPhone: req.EmergencyContactPhone,
		MedicalConditions:     lo.EmptyableToPtr(req.MedicalConditions),
		SignatureContentType:  kind.MIME.Value,
		SignedAt:              now,
		CreatedAt:             now,
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}

	rendered, err := s.PDFGenerator.RenderWaiverPdf(ctx, &pdf.WaiverData{
		ID:                    w.ID,
		FullName:              w.FullName,
		DateOfBirth:           w.DateOfBirth,
		Age:                   w.AgeAt(now),
		Phone:                 w.Phone,
		EmergencyContactName:  w.EmergencyContactName,
		EmergencyContactPhone: w.EmergencyContactPhone,
		MedicalConditions:     req.MedicalConditions,
		SignedAt:              now,
		Signature:             signature,
		SignatureImageType:    imageType,
	})
	if err != nil {
		return nil, err
	}

	key, err := s.S3.UploadDocument(ctx, s3.NewWaiverDocument(w.ID, w.UserID, rendered))
	if err != nil {
		return nil, err
	}
	w.PDFKey = key

	if err := s.WaiverRepo.Create(ctx, w); err != nil {
		return nil, err
	}

	s.Logger.Infow("waiver signed",
		"waiver_id", w.ID,
		"user_id", w.UserID,
		"pdf_key", key)

	return dto.NewWaiverResponse(w, s.downloadURL(ctx, w)), nil
}

func (s *waiverService) GetMyWaiver(ctx context.Context) (*dto.WaiverResponse, error) {
	w, err := s.WaiverRepo.GetLatestByUser(ctx, types.GetUserID(ctx))
	if err != nil {
		return nil, err
	}
	return dto.NewWaiverResponse(w, s.downloadURL(ctx, w)), nil
}

// downloadURL is empty when storage is disabled or presigning fails
func (s *waiverService) downloadURL(ctx context.Context, w *waiver.Waiver) string {
	if s.S3 == nil || w.PDFKey == "" {
		return ""
	}
	url, err := s.S3.GetPresignedUrl(ctx, w.PDFKey)
	if err != nil {
		s.Logger.Warnw("could not presign waiver download",
			"waiver_id", w.ID,
			"error", err)
		return ""
	}
	return url
}
