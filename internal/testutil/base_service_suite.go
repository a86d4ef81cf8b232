package testutil

import (
	"context"
	"time"

	"github.com/gymportal/portal/internal/cache"
	"github.com/gymportal/portal/internal/config"
	"github.com/gymportal/portal/internal/domain/user"
	"github.com/gymportal/portal/internal/logger"
	"github.com/gymportal/portal/internal/types"
	"github.com/gymportal/portal/internal/validator"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
)

// Stores holds the in-memory repositories for testing
type Stores struct {
	PaymentRepo *InMemoryPaymentStore
	UserRepo    *InMemoryUserStore
	WaiverRepo  *InMemoryWaiverStore
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	adminCtx  context.Context
	stores    Stores
	gateway   *MockGateway
	documents *InMemoryDocumentStore
	cache     cache.Cache
	logger    *logger.Logger
	config    *config.Configuration
	now       time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	validator.NewValidator()
	s.logger = logger.NewNopLogger()
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.config = config.GetDefaultConfig()
	s.config.Stripe.WebhookSecret = "whsec_test"
	s.config.Stripe.DefaultCurrency = "mxn"
	s.config.Cache.CustomerTTL = time.Minute

	s.ctx = SetupContext()
	s.adminCtx = AdminContext()
	s.now = time.Now().UTC()
	s.setupStores()
	s.gateway = NewMockGateway()
	s.documents = NewInMemoryDocumentStore()
	s.cache = cache.NewInMemoryCache(time.Minute, time.Minute, true)
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.gateway.AssertExpectations(s.T())
	s.clearStores()
}

func (s *BaseServiceTestSuite) setupStores() {
	users := NewInMemoryUserStore()
	s.stores = Stores{
		UserRepo:    users,
		PaymentRepo: NewInMemoryPaymentStore(users),
		WaiverRepo:  NewInMemoryWaiverStore(),
	}

	users.Seed(&user.User{
		ID:        DefaultUserID,
		Email:     "member@gym.test",
		FullName:  lo.ToPtr("Ana Member"),
		Role:      types.UserRoleMember,
		CreatedAt: s.now,
		UpdatedAt: s.now,
	})
	users.Seed(&user.User{
		ID:        DefaultAdminID,
		Email:     "admin@gym.test",
		FullName:  lo.ToPtr("Front Desk"),
		Role:      types.UserRoleAdmin,
		CreatedAt: s.now,
		UpdatedAt: s.now,
	})
}

func (s *BaseServiceTestSuite) clearStores() {
	s.stores.PaymentRepo.Clear()
	s.stores.UserRepo.Clear()
	s.stores.WaiverRepo.Clear()
}

// GetContext returns a member request context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetAdminContext returns an admin request context
func (s *BaseServiceTestSuite) GetAdminContext() context.Context {
	return s.adminCtx
}

func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

func (s *BaseServiceTestSuite) GetGateway() *MockGateway {
	return s.gateway
}

func (s *BaseServiceTestSuite) GetDocuments() *InMemoryDocumentStore {
	return s.documents
}

func (s *BaseServiceTestSuite) GetCache() cache.Cache {
	return s.cache
}

func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now
}
