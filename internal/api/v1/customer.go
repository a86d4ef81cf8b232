package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gymportal/portal/internal/logger"
	"github.com/gymportal/portal/internal/service"
)

type CustomerHandler struct {
	service service.CustomerService
	log     *logger.Logger
}

func NewCustomerHandler(service service.CustomerService, log *logger.Logger) *CustomerHandler {
	return &CustomerHandler{service: service, log: log}
}

// @Summary Get or create my Stripe customer
// @Tags Customers
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.CustomerResponse "Existing customer"
// @Success 201 {object} dto.CustomerResponse "Customer created"
// @Failure 502 {object} ierr.ErrorResponse
// @Router /customers [post]
func (h *CustomerHandler) EnsureCustomer(c *gin.Context) {
	resp, err := h.service.EnsureCustomer(c.Request.Context())
	if err != nil {
		h.log.Errorw("failed to ensure customer", "error", err)
		_ = c.Error(err)
		return
	}

	status := http.StatusOK
	if resp.Created {
		status = http.StatusCreated
	}
	c.JSON(status, resp)
}
