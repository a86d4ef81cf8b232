package v1

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gymportal/portal/internal/logger"
	"github.com/gymportal/portal/internal/sentry"
	"github.com/gymportal/portal/internal/service"
	"github.com/gymportal/portal/internal/types"
)

// maxWebhookBodyBytes matches the largest event payload Stripe delivers
const maxWebhookBodyBytes int64 = 65536

type WebhookHandler struct {
	service service.WebhookService
	sentry  *sentry.Service
	logger  *logger.Logger
}

func NewWebhookHandler(service service.WebhookService, sentry *sentry.Service, logger *logger.Logger) *WebhookHandler {
	return &WebhookHandler{service: service, sentry: sentry, logger: logger}
}

// @Summary Handle Stripe webhook events
// @Description Verifies the delivery signature and reconciles the ledger
// @Tags Webhooks
// @Accept json
// @Produce json
// @Param Stripe-Signature header string true "Stripe webhook signature"
// @Success 200 {object} map[string]interface{} "Webhook received"
// @Failure 400 {object} map[string]interface{} "Missing secret, unreadable body or invalid signature"
// @Router /webhooks/stripe [post]
func (h *WebhookHandler) HandleStripeWebhook(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		h.logger.Errorw("failed to read webhook body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	signature := c.GetHeader(types.HeaderStripeSignature)
	if signature == "" {
		h.logger.Warnw("webhook delivery without signature")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing Stripe-Signature header"})
		return
	}

	span, ctx := h.sentry.StartTransaction(c.Request.Context(), "stripe.webhook")
	if span != nil {
		defer span.Finish()
	}

	if err := h.service.HandleEvent(ctx, body, signature); err != nil {
		h.logger.Warnw("rejected webhook delivery", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Webhook verification failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
