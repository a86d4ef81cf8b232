package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gymportal/portal/internal/api/dto"
	"github.com/gymportal/portal/internal/logger"
	"github.com/gymportal/portal/internal/service"
	"github.com/gymportal/portal/internal/types"
)

type AuthHandler struct {
	service service.AuthService
	log     *logger.Logger
}

func NewAuthHandler(service service.AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{service: service, log: log}
}

// @Summary Login
// @Description Signs in with email and password and seeds the session cache
// @Tags Auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 401 {object} ierr.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Logout
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SuccessResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context(), types.GetJWT(c.Request.Context())); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "signed out"})
}

// @Summary Current session
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SessionResponse
// @Failure 401 {object} ierr.ErrorResponse
// @Router /auth/session [get]
func (h *AuthHandler) GetSession(c *gin.Context) {
	resp, err := h.service.GetSession(c.Request.Context(), types.GetJWT(c.Request.Context()))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
