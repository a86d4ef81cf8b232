package middleware

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/gymportal/portal/internal/pyroscope"
)

// PyroscopeMiddleware labels request profiles with the matched route
func PyroscopeMiddleware(svc *pyroscope.Service) gin.HandlerFunc {
	if svc == nil || !svc.IsEnabled() {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		labels := map[string]string{
			"method":   c.Request.Method,
			"endpoint": c.FullPath(),
			"handler":  fmt.Sprintf("%s %s", c.Request.Method, c.FullPath()),
		}
		svc.TagWrapper(c.Request.Context(), labels, func(context.Context) {
			c.Next()
		})
	}
}
