package service

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/gymportal/portal/internal/api/dto"
	ierr "github.com/gymportal/portal/internal/errors"
	"github.com/gymportal/portal/internal/testutil"
	"github.com/stretchr/testify/suite"
)

type WaiverServiceSuite struct {
	testutil.BaseServiceTestSuite
	service   WaiverService
	signature string
}

func TestWaiverService(t *testing.T) {
	suite.Run(t, new(WaiverServiceSuite))
}

func (s *WaiverServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewWaiverService(testParams(&s.BaseServiceTestSuite))

	img := image.NewRGBA(image.Rect(0, 0, 40, 12))
	for x := 0; x < 40; x++ {
		img.Set(x, 6, color.Black)
	}
	var buf bytes.Buffer
	s.Require().NoError(png.Encode(&buf, img))
	s.signature = "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func (s *WaiverServiceSuite) request() dto.SignWaiverRequest {
	return dto.SignWaiverRequest{
		FullName:              "Ana Member",
		DateOfBirth:           "1994-07-21",
		Phone:                 "+52 55 1234 5678",
		EmergencyContactName:  "Luis Member",
		EmergencyContactPhone: "+52 55 8765 4321",
		MedicalConditions:     "Asma leve",
		AcceptTerms:           true,
		Signature:             s.signature,
	}
}

func (s *WaiverServiceSuite) TestSignStoresPdfAndRow() {
	resp, err := s.service.SignWaiver(s.GetContext(), s.request())
	s.NoError(err)
	s.NotEmpty(resp.ID)
	s.Contains(resp.DownloadURL, "waivers/"+testutil.DefaultUserID+"/"+resp.ID+".pdf")

	w, err := s.GetStores().WaiverRepo.GetLatestByUser(s.GetContext(), testutil.DefaultUserID)
	s.NoError(err)
	s.Equal(resp.ID, w.ID)
	s.Equal("image/png", w.SignatureContentType)

	doc, ok := s.GetDocuments().Get(w.PDFKey)
	s.True(ok)
	s.True(bytes.HasPrefix(doc, []byte("%PDF-")))

	latest, err := s.service.GetMyWaiver(s.GetContext())
	s.NoError(err)
	s.Equal(resp.ID, latest.ID)
	s.Equal("1994-07-21", latest.DateOfBirth)
}

func (s *WaiverServiceSuite) TestRejectsNonImageSignature() {
	req := s.request()
	req.Signature = base64.StdEncoding.EncodeToString([]byte("definitely not an image"))

	_, err := s.service.SignWaiver(s.GetContext(), req)
	s.True(ierr.IsValidation(err))
	s.Zero(s.GetStores().WaiverRepo.Len())
}

func (s *WaiverServiceSuite) TestRequiresAcceptedTerms() {
	req := s.request()
	req.AcceptTerms = false

	_, err := s.service.SignWaiver(s.GetContext(), req)
	s.True(ierr.IsValidation(err))
}

func (s *WaiverServiceSuite) TestStorageDisabled() {
	params := testParams(&s.BaseServiceTestSuite)
	params.S3 = nil
	svc := NewWaiverService(params)

	_, err := svc.SignWaiver(s.GetContext(), s.request())
	s.True(ierr.IsInvalidOperation(err))
	s.Zero(s.GetStores().WaiverRepo.Len())
}

func (s *WaiverServiceSuite) TestNoWaiverYet() {
	_, err := s.service.GetMyWaiver(s.GetContext())
	s.True(ierr.IsNotFound(err))
}
