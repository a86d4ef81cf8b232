package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gymportal/portal/internal/config"
	ierr "github.com/gymportal/portal/internal/errors"
	"github.com/gymportal/portal/internal/logger"
	"github.com/gymportal/portal/internal/session"
	"github.com/gymportal/portal/internal/testutil"
	"github.com/gymportal/portal/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(RequestIDMiddleware, ErrorHandler(logger.NewNopLogger()))
	r.GET("/", handlers...)
	return r
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ierr.ErrorResponse {
	var body ierr.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestErrorHandlerRendersHintAndDetails(t *testing.T) {
	r := newEngine(func(c *gin.Context) {
		_ = c.Error(ierr.NewError("amount must be positive").
			WithHint("Amount must be greater than zero").
			WithReportableDetails(map[string]any{"amount": 0}).
			Mark(ierr.ErrValidation))
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeError(t, w)
	assert.False(t, body.Success)
	assert.Equal(t, "Amount must be greater than zero", body.Error.Display)
	assert.Equal(t, ierr.ErrCodeValidation, body.Error.Code)
	assert.EqualValues(t, 0, body.Error.Details["amount"])
}

func TestErrorHandlerHidesUnmarkedErrors(t *testing.T) {
	r := newEngine(func(c *gin.Context) {
		_ = c.Error(assert.AnError)
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, "An unexpected error occurred", body.Error.Display)
	assert.Equal(t, ierr.ErrCodeSystemError, body.Error.Code)
	assert.Empty(t, body.Error.Details)
}

func TestRecoveryRendersErrorBody(t *testing.T) {
	r := gin.New()
	r.Use(RecoveryMiddleware(logger.NewNopLogger()), RequestIDMiddleware, ErrorHandler(logger.NewNopLogger()))
	r.GET("/", func(c *gin.Context) {
		panic("nil map write")
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeError(t, w)
	assert.False(t, body.Success)
	assert.Equal(t, "An unexpected error occurred", body.Error.Display)
	assert.Equal(t, ierr.ErrCodeSystemError, body.Error.Code)
}

func TestRequestIDPropagated(t *testing.T) {
	var seen string
	r := newEngine(func(c *gin.Context) {
		seen = types.GetRequestID(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(types.HeaderRequestID, "req-123")
	w := serve(r, req)

	assert.Equal(t, "req-123", seen)
	assert.Equal(t, "req-123", w.Header().Get(types.HeaderRequestID))

	w = serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Header().Get(types.HeaderRequestID))
	assert.NotEqual(t, "req-123", seen)
}

func newSessions(provider *testutil.StaticAuthProvider) session.Service {
	return session.NewService(config.GetDefaultConfig(), provider, logger.NewNopLogger())
}

func TestAuthenticateMiddleware(t *testing.T) {
	provider := testutil.NewStaticAuthProvider()
	log := logger.NewNopLogger()

	var userID, email, jwt string
	var role types.UserRole
	r := newEngine(AuthenticateMiddleware(newSessions(provider), log), func(c *gin.Context) {
		ctx := c.Request.Context()
		userID, email, role, jwt = types.GetUserID(ctx), types.GetUserEmail(ctx), types.GetUserRole(ctx), types.GetJWT(ctx)
		c.Status(http.StatusNoContent)
	})

	t.Run("missing header", func(t *testing.T) {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Authentication required", decodeError(t, w).Error.Display)
	})

	t.Run("not a bearer token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(types.HeaderAuthorization, "Basic abc")
		w := serve(r, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(types.HeaderAuthorization, "Bearer nope")
		w := serve(r, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token populates context and is cached", func(t *testing.T) {
		before := provider.Calls
		for i := 0; i < 2; i++ {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(types.HeaderAuthorization, "Bearer "+testutil.AdminToken)
			w := serve(r, req)
			require.Equal(t, http.StatusNoContent, w.Code)
		}

		assert.Equal(t, testutil.DefaultAdminID, userID)
		assert.Equal(t, "admin@gym.test", email)
		assert.Equal(t, types.UserRoleAdmin, role)
		assert.Equal(t, testutil.AdminToken, jwt)
		assert.Equal(t, before+1, provider.Calls)
	})
}

func TestRequireAdmin(t *testing.T) {
	provider := testutil.NewStaticAuthProvider()
	log := logger.NewNopLogger()
	r := newEngine(AuthenticateMiddleware(newSessions(provider), log), RequireAdmin(log), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(types.HeaderAuthorization, "Bearer "+testutil.MemberToken)
	w := serve(r, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(types.HeaderAuthorization, "Bearer "+testutil.AdminToken)
	w = serve(r, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRateLimiter(t *testing.T) {
	cfg := config.GetDefaultConfig()
	cfg.RateLimit = config.RateLimitConfig{Enabled: true, RequestsPerSecond: 0.001, Burst: 1}

	r := newEngine(NewRateLimiter(cfg).Middleware(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRateLimiterForgetsIdleCallers(t *testing.T) {
	cfg := config.GetDefaultConfig()
	cfg.RateLimit = config.RateLimitConfig{Enabled: true, RequestsPerSecond: 0.001, Burst: 1, IdleTTL: 50 * time.Millisecond}

	r := newEngine(NewRateLimiter(cfg).Middleware(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	assert.Equal(t, http.StatusNoContent, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, http.StatusNoContent, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
}

func TestRateLimiterDisabled(t *testing.T) {
	cfg := config.GetDefaultConfig()
	cfg.RateLimit = config.RateLimitConfig{Enabled: false, RequestsPerSecond: 0.001, Burst: 1}

	r := newEngine(NewRateLimiter(cfg).Middleware(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	for i := 0; i < 3; i++ {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
	}
}

func TestCORSMiddleware(t *testing.T) {
	cfg := config.GetDefaultConfig()
	cfg.Server.AllowedOrigins = []string{"https://portal.gym.test"}

	r := gin.New()
	r.Use(CORSMiddleware(cfg))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://portal.gym.test")
	w := serve(r, req)
	assert.Equal(t, "https://portal.gym.test", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.test")
	w = serve(r, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/", nil)
	w = serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
