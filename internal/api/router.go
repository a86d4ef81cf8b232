package api

import (
	"github.com/gin-gonic/gin"
	v1 "github.com/gymportal/portal/internal/api/v1"
	"github.com/gymportal/portal/internal/config"
	"github.com/gymportal/portal/internal/logger"
	"github.com/gymportal/portal/internal/pyroscope"
	"github.com/gymportal/portal/internal/rest/middleware"
	"github.com/gymportal/portal/internal/sentry"
	"github.com/gymportal/portal/internal/session"
	"github.com/gymportal/portal/internal/types"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Handlers struct {
	Health       *v1.HealthHandler
	Auth         *v1.AuthHandler
	Payment      *v1.PaymentHandler
	Subscription *v1.SubscriptionHandler
	Customer     *v1.CustomerHandler
	Waiver       *v1.WaiverHandler
	Webhook      *v1.WebhookHandler
}

// RouterDeps carries the cross-cutting collaborators the middleware chain needs
type RouterDeps struct {
	Config    *config.Configuration
	Logger    *logger.Logger
	Sessions  session.Service
	Sentry    *sentry.Service
	Pyroscope *pyroscope.Service
}

func NewRouter(handlers Handlers, deps RouterDeps) *gin.Engine {
	if deps.Config.Deployment.Mode != types.ModeLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		middleware.RecoveryMiddleware(deps.Logger),
		middleware.RequestIDMiddleware,
		middleware.CORSMiddleware(deps.Config),
		middleware.SentryMiddleware(deps.Sentry),
		middleware.PyroscopeMiddleware(deps.Pyroscope),
		middleware.LoggingMiddleware(deps.Logger),
		middleware.ErrorHandler(deps.Logger),
	)

	router.GET("/health", handlers.Health.Health)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers, deps)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers, deps RouterDeps) {
	authenticate := middleware.AuthenticateMiddleware(deps.Sessions, deps.Logger)
	requireAdmin := middleware.RequireAdmin(deps.Logger)
	limiter := middleware.NewRateLimiter(deps.Config)

	// Stripe authenticates itself with the delivery signature
	router.POST("/webhooks/stripe", handlers.Webhook.HandleStripeWebhook)

	auth := router.Group("/auth")
	{
		auth.POST("/login", limiter.Middleware(), handlers.Auth.Login)
		auth.POST("/logout", authenticate, handlers.Auth.Logout)
		auth.GET("/session", authenticate, handlers.Auth.GetSession)
	}

	private := router.Group("/", authenticate)

	payments := private.Group("/payments")
	{
		payments.GET("/me", handlers.Payment.ListMyPayments)
		payments.POST("/save", limiter.Middleware(), handlers.Payment.SavePayment)
		payments.POST("/intents", handlers.Payment.CreatePaymentIntent)
		payments.POST("/manual", requireAdmin, handlers.Payment.RecordManualPayment)
		payments.GET("", requireAdmin, handlers.Payment.ListAllPayments)
	}

	subscriptions := private.Group("/subscriptions")
	{
		subscriptions.POST("", handlers.Subscription.CreateSubscription)
	}

	customers := private.Group("/customers")
	{
		customers.POST("", handlers.Customer.EnsureCustomer)
	}

	waivers := private.Group("/waivers")
	{
		waivers.POST("", limiter.Middleware(), handlers.Waiver.SignWaiver)
		waivers.GET("/me", handlers.Waiver.GetMyWaiver)
	}
}
