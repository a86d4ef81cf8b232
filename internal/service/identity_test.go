package service

import (
	"testing"

	"github.com/gymportal/portal/internal/domain/processor"
	"github.com/gymportal/portal/internal/domain/user"
	ierr "github.com/gymportal/portal/internal/errors"
	"github.com/gymportal/portal/internal/testutil"
	"github.com/samber/lo"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type IdentityResolverSuite struct {
	testutil.BaseServiceTestSuite
	resolver IdentityResolver
}

func TestIdentityResolver(t *testing.T) {
	suite.Run(t, new(IdentityResolverSuite))
}

func (s *IdentityResolverSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.resolver = NewIdentityResolver(testParams(&s.BaseServiceTestSuite))
}

func (s *IdentityResolverSuite) linkCustomer(userID, customerID string) {
	s.GetStores().UserRepo.Seed(&user.User{
		ID:               userID,
		Email:            userID + "@gym.test",
		StripeCustomerID: lo.ToPtr(customerID),
	})
}

func (s *IdentityResolverSuite) TestObjectMetadataWins() {
	pi := &processor.PaymentIntent{
		ID:       "pi_1",
		Customer: processor.NewRef[processor.Customer]("cus_1"),
		Metadata: map[string]string{"user_id": "u_meta"},
	}

	id, ok := s.resolver.ResolveUserID(s.GetContext(), pi)
	s.True(ok)
	s.Equal("u_meta", id)
	s.GetGateway().AssertNotCalled(s.T(), "GetCustomer", mock.Anything, mock.Anything)
}

func (s *IdentityResolverSuite) TestSupabaseKeyAccepted() {
	pi := &processor.PaymentIntent{ID: "pi_1", Metadata: map[string]string{"supabase_user_id": "u_sb"}}

	id, ok := s.resolver.ResolveUserID(s.GetContext(), pi)
	s.True(ok)
	s.Equal("u_sb", id)
}

func (s *IdentityResolverSuite) TestCustomerMetadataBeforeStore() {
	s.linkCustomer("u_store", "cus_1")
	s.GetGateway().On("GetCustomer", mock.Anything, "cus_1").
		Return(&processor.Customer{ID: "cus_1", Metadata: map[string]string{"user_id": "u_customer"}}, nil).Once()

	pi := &processor.PaymentIntent{ID: "pi_1", Customer: processor.NewRef[processor.Customer]("cus_1")}

	id, ok := s.resolver.ResolveUserID(s.GetContext(), pi)
	s.True(ok)
	s.Equal("u_customer", id)
}

func (s *IdentityResolverSuite) TestStoreOnlyCustomer() {
	s.linkCustomer("u_store", "cus_2")
	s.GetGateway().On("GetCustomer", mock.Anything, "cus_2").
		Return(&processor.Customer{ID: "cus_2"}, nil).Once()

	in := &processor.Invoice{ID: "in_1", Customer: processor.NewRef[processor.Customer]("cus_2")}

	id, ok := s.resolver.ResolveUserID(s.GetContext(), in)
	s.True(ok)
	s.Equal("u_store", id)
}

func (s *IdentityResolverSuite) TestDeletedCustomerMetadataSkipped() {
	s.linkCustomer("u_store", "cus_3")
	s.GetGateway().On("GetCustomer", mock.Anything, "cus_3").
		Return(&processor.Customer{ID: "cus_3", Deleted: true, Metadata: map[string]string{"user_id": "u_stale"}}, nil).Once()

	pi := &processor.PaymentIntent{ID: "pi_1", Customer: processor.NewRef[processor.Customer]("cus_3")}

	id, ok := s.resolver.ResolveUserID(s.GetContext(), pi)
	s.True(ok)
	s.Equal("u_store", id)
}

func (s *IdentityResolverSuite) TestCustomerFetchFailure() {
	s.linkCustomer("u_store", "cus_4")
	s.GetGateway().On("GetCustomer", mock.Anything, "cus_4").
		Return(nil, ierr.NewError("boom").Mark(ierr.ErrHTTPClient))

	pi := &processor.PaymentIntent{ID: "pi_1", Customer: processor.NewRef[processor.Customer]("cus_4")}

	_, ok := s.resolver.ResolveUserID(s.GetContext(), pi)
	s.False(ok)

	id, ok := s.resolver.ResolveUserIDForWebhook(s.GetContext(), pi)
	s.True(ok)
	s.Equal("u_store", id)
}

func (s *IdentityResolverSuite) TestCustomerLookupCached() {
	s.GetGateway().On("GetCustomer", mock.Anything, "cus_5").
		Return(&processor.Customer{ID: "cus_5", Metadata: map[string]string{"user_id": "u_5"}}, nil).Once()

	pi := &processor.PaymentIntent{ID: "pi_1", Customer: processor.NewRef[processor.Customer]("cus_5")}
	for i := 0; i < 3; i++ {
		id, ok := s.resolver.ResolveUserIDForWebhook(s.GetContext(), pi)
		s.True(ok)
		s.Equal("u_5", id)
	}
	s.GetGateway().AssertNumberOfCalls(s.T(), "GetCustomer", 1)
}

func (s *IdentityResolverSuite) TestNothingToResolve() {
	_, ok := s.resolver.ResolveUserIDForWebhook(s.GetContext(), &processor.PaymentIntent{ID: "pi_1"})
	s.False(ok)

	s.GetGateway().On("GetCustomer", mock.Anything, "cus_unknown").
		Return(&processor.Customer{ID: "cus_unknown"}, nil).Once()
	_, ok = s.resolver.ResolveUserIDForWebhook(s.GetContext(), &processor.PaymentIntent{
		ID:       "pi_2",
		Customer: processor.NewRef[processor.Customer]("cus_unknown"),
	})
	s.False(ok)
}
