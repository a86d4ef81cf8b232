package s3

import (
	"fmt"

	ierr "github.com/gymportal/portal/internal/errors"
)

// Document is a rendered file owned by one member
type Document struct {
	ID      string
	OwnerID string
	Data    []byte
	Kind    DocumentKind
	Type    DocumentType
}

type DocumentKind string

const (
	DocumentKindPdf DocumentKind = "pdf"
)

func (k DocumentKind) ContentType() string {
	if k == DocumentKindPdf {
		return "application/pdf"
	}
	return "application/octet-stream"
}

type DocumentType string

const (
	DocumentTypeWaiver DocumentType = "waiver"
)

// NewWaiverDocument wraps a rendered waiver PDF signed by ownerID
func NewWaiverDocument(id, ownerID string, data []byte) *Document {
	return &Document{
		ID:      id,
		OwnerID: ownerID,
		Data:    data,
		Kind:    DocumentKindPdf,
		Type:    DocumentTypeWaiver,
	}
}

// Key is where the document lives inside its bucket, grouped by owner
func (d *Document) Key() (string, error) {
	if d.ID == "" || d.OwnerID == "" {
		return "", ierr.NewError("document id and owner are required").
			Mark(ierr.ErrSystem)
	}

	switch d.Type {
	case DocumentTypeWaiver:
		return fmt.Sprintf("waivers/%s/%s.%s", d.OwnerID, d.ID, d.Kind), nil
	default:
		return "", ierr.NewErrorf("invalid doc type: %s", d.Type).
			WithHintf("valid doc types are: %v", validDocumentTypes).
			Mark(ierr.ErrSystem)
	}
}
