package service

import (
	"encoding/json"

	"github.com/gymportal/portal/internal/domain/processor"
	"github.com/gymportal/portal/internal/pdf"
	"github.com/gymportal/portal/internal/testutil"
)

// testParams wires services to the suite's in-memory stores and mock gateway
func testParams(s *testutil.BaseServiceTestSuite) ServiceParams {
	stores := s.GetStores()
	return ServiceParams{
		Logger:       s.GetLogger(),
		Config:       s.GetConfig(),
		Gateway:      s.GetGateway(),
		Cache:        s.GetCache(),
		PDFGenerator: pdf.NewGenerator(s.GetConfig()),
		S3:           s.GetDocuments(),
		PaymentRepo:  stores.PaymentRepo,
		UserRepo:     stores.UserRepo,
		WaiverRepo:   stores.WaiverRepo,
	}
}

// newEvent builds a verified event carrying obj as its data object
func newEvent(id, eventType string, obj any) *processor.Event {
	raw, err := json.Marshal(obj)
	if err != nil {
		panic(err)
	}
	return &processor.Event{ID: id, Type: eventType, Object: raw}
}
