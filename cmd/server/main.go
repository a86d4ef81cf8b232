package main

import (
	"context"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	_ "github.com/gymportal/portal/docs/swagger"
	"github.com/gymportal/portal/internal/api"
	v1 "github.com/gymportal/portal/internal/api/v1"
	"github.com/gymportal/portal/internal/auth"
	"github.com/gymportal/portal/internal/cache"
	"github.com/gymportal/portal/internal/config"
	"github.com/gymportal/portal/internal/domain/processor"
	"github.com/gymportal/portal/internal/integration/stripe"
	"github.com/gymportal/portal/internal/logger"
	"github.com/gymportal/portal/internal/pdf"
	"github.com/gymportal/portal/internal/postgres"
	"github.com/gymportal/portal/internal/pyroscope"
	"github.com/gymportal/portal/internal/repository"
	"github.com/gymportal/portal/internal/s3"
	"github.com/gymportal/portal/internal/sentry"
	"github.com/gymportal/portal/internal/service"
	"github.com/gymportal/portal/internal/session"
	"github.com/gymportal/portal/internal/types"
	"github.com/gymportal/portal/internal/validator"
	"go.uber.org/fx"
)

// @title Gym Portal API
// @version 1.0
// @description Membership payments, subscriptions and waivers for the gym portal
// @BasePath /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func init() {
	// ledger timestamps are stored and compared in UTC
	time.Local = time.UTC
}

func main() {
	var opts []fx.Option

	opts = append(opts,
		fx.Provide(
			validator.NewValidator,

			config.NewConfig,

			logger.NewLogger,

			cache.Initialize,

			postgres.NewDB,

			provideGateway,

			s3.NewService,
			pdf.NewGenerator,

			auth.NewProvider,
			session.NewService,

			repository.NewPaymentRepository,
			repository.NewUserRepository,
			repository.NewWaiverRepository,
		),
		sentry.Module(),
		pyroscope.Module(),
	)

	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,

			service.NewIdentityResolver,
			service.NewPaymentService,
			service.NewSubscriptionService,
			service.NewWebhookService,
			service.NewCustomerService,
			service.NewCheckoutService,
			service.NewWaiverService,
			service.NewAuthService,
		),
	)

	opts = append(opts,
		fx.Provide(
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(
			postgres.RegisterHooks,
			startServer,
		),
	)

	app := fx.New(opts...)
	app.Run()
}

func provideGateway(cfg *config.Configuration, logger *logger.Logger) processor.Gateway {
	return stripe.NewClient(cfg, logger)
}

func provideHandlers(
	logger *logger.Logger,
	sentryService *sentry.Service,
	paymentService service.PaymentService,
	checkoutService service.CheckoutService,
	subscriptionService service.SubscriptionService,
	customerService service.CustomerService,
	webhookService service.WebhookService,
	waiverService service.WaiverService,
	authService service.AuthService,
) api.Handlers {
	return api.Handlers{
		Health:       v1.NewHealthHandler(logger),
		Auth:         v1.NewAuthHandler(authService, logger),
		Payment:      v1.NewPaymentHandler(paymentService, checkoutService, logger),
		Subscription: v1.NewSubscriptionHandler(subscriptionService, logger),
		Customer:     v1.NewCustomerHandler(customerService, logger),
		Waiver:       v1.NewWaiverHandler(waiverService, logger),
		Webhook:      v1.NewWebhookHandler(webhookService, sentryService, logger),
	}
}

func provideRouter(
	handlers api.Handlers,
	cfg *config.Configuration,
	logger *logger.Logger,
	sessions session.Service,
	sentryService *sentry.Service,
	pyroscopeService *pyroscope.Service,
) *gin.Engine {
	return api.NewRouter(handlers, api.RouterDeps{
		Config:    cfg,
		Logger:    logger,
		Sessions:  sessions,
		Sentry:    sentryService,
		Pyroscope: pyroscopeService,
	})
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	log *logger.Logger,
) {
	mode := cfg.Deployment.Mode
	if mode == "" {
		mode = types.ModeLocal
	}

	switch mode {
	case types.ModeLocal, types.ModeAPI:
		startAPIServer(lc, r, cfg, log)
	case types.ModeAWSLambdaAPI:
		startAWSLambdaAPI(r)
	default:
		log.Fatalf("Unknown deployment mode: %s", mode)
	}
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting API server", "address", cfg.Server.Address)
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down API server")
			return srv.Shutdown(ctx)
		},
	})
}

func startAWSLambdaAPI(r *gin.Engine) {
	ginLambda := ginadapter.New(r)
	lambda.Start(ginLambda.ProxyWithContext)
}
