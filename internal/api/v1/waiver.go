package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gymportal/portal/internal/api/dto"
	"github.com/gymportal/portal/internal/logger"
	"github.com/gymportal/portal/internal/service"
)

type WaiverHandler struct {
	service service.WaiverService
	log     *logger.Logger
}

func NewWaiverHandler(service service.WaiverService, log *logger.Logger) *WaiverHandler {
	return &WaiverHandler{service: service, log: log}
}

// @Summary Sign the liability waiver
// @Description Renders the signed waiver to PDF and stores it
// @Tags Waivers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param waiver body dto.SignWaiverRequest true "Signed waiver"
// @Success 201 {object} dto.WaiverResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /waivers [post]
func (h *WaiverHandler) SignWaiver(c *gin.Context) {
	var req dto.SignWaiverRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.SignWaiver(c.Request.Context(), req)
	if err != nil {
		h.log.Errorw("failed to sign waiver", "error", err)
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary My latest waiver
// @Tags Waivers
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.WaiverResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /waivers/me [get]
func (h *WaiverHandler) GetMyWaiver(c *gin.Context) {
	resp, err := h.service.GetMyWaiver(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
