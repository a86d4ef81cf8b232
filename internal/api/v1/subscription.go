package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gymportal/portal/internal/api/dto"
	"github.com/gymportal/portal/internal/logger"
	"github.com/gymportal/portal/internal/service"
)

type SubscriptionHandler struct {
	service service.SubscriptionService
	log     *logger.Logger
}

func NewSubscriptionHandler(service service.SubscriptionService, log *logger.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{service: service, log: log}
}

// @Summary Create a subscription
// @Description Attaches the card, creates the subscription and confirms its first invoice payment
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param subscription body dto.CreateSubscriptionRequest true "Subscription request"
// @Success 201 {object} dto.CreateSubscriptionResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 502 {object} ierr.ErrorResponse
// @Router /subscriptions [post]
func (h *SubscriptionHandler) CreateSubscription(c *gin.Context) {
	var req dto.CreateSubscriptionRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.CreateSubscription(c.Request.Context(), req)
	if err != nil {
		h.log.Errorw("failed to create subscription",
			"error", err,
			"customer_id", req.CustomerID,
			"price_id", req.PriceID)
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}
