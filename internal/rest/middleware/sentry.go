package middleware

import (
	"net/http"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	ierr "github.com/gymportal/portal/internal/errors"
	"github.com/gymportal/portal/internal/sentry"
)

// SentryMiddleware attaches a hub per request and reports server errors left on the context
func SentryMiddleware(svc *sentry.Service) gin.HandlerFunc {
	if !svc.IsEnabled() {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	attach := sentrygin.New(sentrygin.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         2 * time.Second,
	})

	return func(c *gin.Context) {
		attach(c)
		for _, ginErr := range c.Errors {
			if ierr.HTTPStatusFromErr(ginErr.Err) >= http.StatusInternalServerError {
				svc.CaptureException(c.Request.Context(), ginErr.Err)
			}
		}
	}
}
