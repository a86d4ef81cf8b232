package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gymportal/portal/internal/api/dto"
	"github.com/gymportal/portal/internal/logger"
	"github.com/gymportal/portal/internal/service"
)

type PaymentHandler struct {
	service  service.PaymentService
	checkout service.CheckoutService
	log      *logger.Logger
}

func NewPaymentHandler(service service.PaymentService, checkout service.CheckoutService, log *logger.Logger) *PaymentHandler {
	return &PaymentHandler{service: service, checkout: checkout, log: log}
}

// @Summary Save a confirmed payment
// @Description Re-reads a payment intent the checkout page just confirmed and records it in the ledger
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payment body dto.SavePaymentRequest true "Confirmed payment intent"
// @Success 200 {object} dto.PaymentResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 403 {object} ierr.ErrorResponse
// @Failure 502 {object} ierr.ErrorResponse
// @Router /payments/save [post]
func (h *PaymentHandler) SavePayment(c *gin.Context) {
	var req dto.SavePaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.SavePayment(c.Request.Context(), req)
	if err != nil {
		h.log.Errorw("failed to save payment", "error", err, "payment_intent_id", req.PaymentIntentID)
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Record a manual payment
// @Description Staff-only entry of a cash or bank transfer payment
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payment body dto.ManualPaymentRequest true "Manual payment"
// @Success 201 {object} dto.PaymentResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 403 {object} ierr.ErrorResponse
// @Router /payments/manual [post]
func (h *PaymentHandler) RecordManualPayment(c *gin.Context) {
	var req dto.ManualPaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.RecordManualPayment(c.Request.Context(), req)
	if err != nil {
		h.log.Errorw("failed to record manual payment", "error", err, "user_id", req.UserID)
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Create a one-time payment intent
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param intent body dto.CreatePaymentIntentRequest true "Checkout amount"
// @Success 201 {object} dto.CreatePaymentIntentResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /payments/intents [post]
func (h *PaymentHandler) CreatePaymentIntent(c *gin.Context) {
	var req dto.CreatePaymentIntentRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.checkout.CreatePaymentIntent(c.Request.Context(), req)
	if err != nil {
		h.log.Errorw("failed to create payment intent", "error", err)
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary List my payments
// @Description The caller's payment history, most recent first
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ListResponse[dto.PaymentResponse]
// @Router /payments/me [get]
func (h *PaymentHandler) ListMyPayments(c *gin.Context) {
	resp, err := h.service.ListMyPayments(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List all payments
// @Description Staff view of every payment with member display fields
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ListResponse[dto.AdminPaymentResponse]
// @Failure 403 {object} ierr.ErrorResponse
// @Router /payments [get]
func (h *PaymentHandler) ListAllPayments(c *gin.Context) {
	resp, err := h.service.ListAllPayments(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
