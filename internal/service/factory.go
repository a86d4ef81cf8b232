package service

import (
	"github.com/gymportal/portal/internal/cache"
	"github.com/gymportal/portal/internal/config"
	"github.com/gymportal/portal/internal/domain/payment"
	"github.com/gymportal/portal/internal/domain/processor"
	"github.com/gymportal/portal/internal/domain/user"
	"github.com/gymportal/portal/internal/domain/waiver"
	"github.com/gymportal/portal/internal/logger"
	"github.com/gymportal/portal/internal/pdf"
	"github.com/gymportal/portal/internal/s3"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger       *logger.Logger
	Config       *config.Configuration
	Gateway      processor.Gateway
	Cache        cache.Cache
	PDFGenerator pdf.Generator
	// S3 is nil when document storage is disabled
	S3 s3.Service

	// Repositories
	PaymentRepo payment.Repository
	UserRepo    user.Repository
	WaiverRepo  waiver.Repository
}

// Common service params
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	gateway processor.Gateway,
	cache cache.Cache,
	pdfGenerator pdf.Generator,
	s3Service s3.Service,
	paymentRepo payment.Repository,
	userRepo user.Repository,
	waiverRepo waiver.Repository,
) ServiceParams {
	return ServiceParams{
		Logger:       logger,
		Config:       config,
		Gateway:      gateway,
		Cache:        cache,
		PDFGenerator: pdfGenerator,
		S3:           s3Service,
		PaymentRepo:  paymentRepo,
		UserRepo:     userRepo,
		WaiverRepo:   waiverRepo,
	}
}
