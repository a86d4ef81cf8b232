package pdf

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/gymportal/portal/internal/config"
	ierr "github.com/gymportal/portal/internal/errors"
	"github.com/jung-kurt/gofpdf"
)

// Generator defines the interface for PDF generation operations
type Generator interface {
	RenderWaiverPdf(ctx context.Context, data *WaiverData) ([]byte, error)
}

// WaiverData is everything printed on a signed liability waiver
type WaiverData struct {
	ID                    string
	GymName               string
	FullName              string
	DateOfBirth           time.Time
	Age                   int
	Phone                 string
	EmergencyContactName  string
	EmergencyContactPhone string
	MedicalConditions     string
	SignedAt              time.Time
	Signature             []byte
	// SignatureImageType is the gofpdf image type, "PNG" or "JPG"
	SignatureImageType string
}

type service struct {
	gymName string
}

// NewGenerator creates a new PDF service
func NewGenerator(cfg *config.Configuration) Generator {
	return &service{gymName: "Gym Portal"}
}

var waiverClauses = []string{
	"Declaro que me encuentro en condiciones de salud adecuadas para realizar actividad física y que he informado cualquier condición médica relevante.",
	"Reconozco que el entrenamiento implica riesgos de lesión y los asumo de manera voluntaria.",
	"Libero al gimnasio, a su personal y a sus instructores de toda responsabilidad por lesiones derivadas del uso de las instalaciones, salvo negligencia comprobada.",
	"Me comprometo a seguir las indicaciones del personal y el reglamento interno.",
}

func (s *service) RenderWaiverPdf(ctx context.Context, data *WaiverData) ([]byte, error) {
	if data == nil {
		return nil, ierr.NewError("waiver data is required").
			WithHint("Waiver data is required").
			Mark(ierr.ErrValidation)
	}

	gymName := data.GymName
	if gymName == "" {
		gymName = s.gymName
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr("Carta responsiva "+data.ID), false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(100, 10, tr(gymName))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(100, 10, tr("CARTA RESPONSIVA"))
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	rows := [][2]string{
		{"Nombre", data.FullName},
		{"Fecha de nacimiento", data.DateOfBirth.Format("2006-01-02")},
		{"Edad", fmt.Sprintf("%d", data.Age)},
		{"Teléfono", data.Phone},
		{"Contacto de emergencia", data.EmergencyContactName},
		{"Teléfono de emergencia", data.EmergencyContactPhone},
	}
	for _, row := range rows {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(60, 8, tr(row[0]+":"), "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 12)
		pdf.CellFormat(120, 8, tr(row[1]), "", 1, "L", false, 0, "")
	}

	if data.MedicalConditions != "" {
		pdf.Ln(2)
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(100, 8, tr("Condiciones médicas:"))
		pdf.Ln(7)
		pdf.SetFont("Arial", "", 11)
		pdf.MultiCell(0, 6, tr(data.MedicalConditions), "", "L", false)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "", 11)
	for i, clause := range waiverClauses {
		pdf.MultiCell(0, 6, tr(fmt.Sprintf("%d. %s", i+1, clause)), "", "J", false)
		pdf.Ln(1)
	}

	pdf.Ln(6)
	if len(data.Signature) > 0 {
		name := "signature-" + data.ID
		pdf.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: data.SignatureImageType}, bytes.NewReader(data.Signature))
		pdf.ImageOptions(name, pdf.GetX(), pdf.GetY(), 60, 0, true, gofpdf.ImageOptions{ImageType: data.SignatureImageType}, 0, "")
	}
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(100, 6, tr("Firma: "+data.FullName))
	pdf.Ln(6)
	pdf.Cell(100, 6, tr("Fecha de firma: "+data.SignedAt.Format("2006-01-02 15:04 MST")))
	pdf.Ln(6)
	pdf.Cell(100, 6, tr("Folio: "+data.ID))

	if err := pdf.Error(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("failed to render waiver pdf").
			Mark(ierr.ErrSystem)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, ierr.WithError(err).
			WithHint("failed to render waiver pdf").
			Mark(ierr.ErrSystem)
	}
	return buf.Bytes(), nil
}
