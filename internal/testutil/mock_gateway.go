package testutil

import (
	"context"

	"github.com/gymportal/portal/internal/domain/processor"
	"github.com/stretchr/testify/mock"
)

// MockGateway is a testify mock of processor.Gateway
type MockGateway struct {
	mock.Mock
}

var _ processor.Gateway = (*MockGateway)(nil)

func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

func (m *MockGateway) AttachPaymentMethod(ctx context.Context, paymentMethodID, customerID string) error {
	return m.Called(ctx, paymentMethodID, customerID).Error(0)
}

func (m *MockGateway) GetPaymentMethod(ctx context.Context, id string) (*processor.PaymentMethod, error) {
	args := m.Called(ctx, id)
	pm, _ := args.Get(0).(*processor.PaymentMethod)
	return pm, args.Error(1)
}

func (m *MockGateway) CreateSubscription(ctx context.Context, req processor.SubscriptionCreate) (*processor.Subscription, error) {
	args := m.Called(ctx, req)
	sub, _ := args.Get(0).(*processor.Subscription)
	return sub, args.Error(1)
}

func (m *MockGateway) GetPaymentIntent(ctx context.Context, id string, expandPaymentMethod bool) (*processor.PaymentIntent, error) {
	args := m.Called(ctx, id, expandPaymentMethod)
	pi, _ := args.Get(0).(*processor.PaymentIntent)
	return pi, args.Error(1)
}

func (m *MockGateway) CreatePaymentIntent(ctx context.Context, req processor.PaymentIntentCreate) (*processor.PaymentIntent, error) {
	args := m.Called(ctx, req)
	pi, _ := args.Get(0).(*processor.PaymentIntent)
	return pi, args.Error(1)
}

func (m *MockGateway) UpdatePaymentIntent(ctx context.Context, id string, req processor.PaymentIntentUpdate) (*processor.PaymentIntent, error) {
	args := m.Called(ctx, id, req)
	pi, _ := args.Get(0).(*processor.PaymentIntent)
	return pi, args.Error(1)
}

func (m *MockGateway) ConfirmPaymentIntent(ctx context.Context, id string) (*processor.PaymentIntent, error) {
	args := m.Called(ctx, id)
	pi, _ := args.Get(0).(*processor.PaymentIntent)
	return pi, args.Error(1)
}

func (m *MockGateway) GetInvoice(ctx context.Context, id string) (*processor.Invoice, error) {
	args := m.Called(ctx, id)
	in, _ := args.Get(0).(*processor.Invoice)
	return in, args.Error(1)
}

func (m *MockGateway) FinalizeInvoice(ctx context.Context, id string) (*processor.Invoice, error) {
	args := m.Called(ctx, id)
	in, _ := args.Get(0).(*processor.Invoice)
	return in, args.Error(1)
}

func (m *MockGateway) AttachPaymentToInvoice(ctx context.Context, invoiceID, paymentIntentID string) (*processor.Invoice, error) {
	args := m.Called(ctx, invoiceID, paymentIntentID)
	in, _ := args.Get(0).(*processor.Invoice)
	return in, args.Error(1)
}

func (m *MockGateway) GetCustomer(ctx context.Context, id string) (*processor.Customer, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*processor.Customer)
	return c, args.Error(1)
}

func (m *MockGateway) CreateCustomer(ctx context.Context, req processor.CustomerCreate) (*processor.Customer, error) {
	args := m.Called(ctx, req)
	c, _ := args.Get(0).(*processor.Customer)
	return c, args.Error(1)
}

func (m *MockGateway) ParseEvent(payload []byte, signature, secret string) (*processor.Event, error) {
	args := m.Called(payload, signature, secret)
	e, _ := args.Get(0).(*processor.Event)
	return e, args.Error(1)
}
