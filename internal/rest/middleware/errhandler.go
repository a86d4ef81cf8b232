package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	ierr "github.com/gymportal/portal/internal/errors"
	"github.com/gymportal/portal/internal/logger"
	"github.com/gymportal/portal/internal/types"
)

const defaultDisplayMessage = "An unexpected error occurred"

// ErrorHandler renders the last error attached to the context
func ErrorHandler(logger *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status := ierr.HTTPStatusFromErr(err)
		if status >= http.StatusInternalServerError {
			logger.Errorw("request failed",
				"error", err,
				"status", status,
				"path", c.Request.URL.Path,
				"request_id", types.GetRequestID(c.Request.Context()))
		}

		if c.Writer.Written() {
			return
		}

		c.JSON(status, ierr.ErrorResponse{
			Success: false,
			Error: ierr.ErrorDetail{
				Display: getDisplayMessage(err),
				Code:    ierr.CodeFromErr(err),
				Details: getSafeDetails(err),
			},
		})
	}
}

// RecoveryMiddleware turns a handler panic into the standard 500 body
func RecoveryMiddleware(logger *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Errorw("panic while handling request",
			"panic", recovered,
			"path", c.Request.URL.Path,
			"request_id", types.GetRequestID(c.Request.Context()))

		c.AbortWithStatusJSON(http.StatusInternalServerError, ierr.ErrorResponse{
			Success: false,
			Error: ierr.ErrorDetail{
				Display: defaultDisplayMessage,
				Code:    ierr.ErrCodeSystemError,
			},
		})
	})
}

func getDisplayMessage(err error) string {
	// GetAllHints is a post-order traversal, the first non-empty hint wins
	for _, hint := range errors.GetAllHints(err) {
		if hint = strings.TrimSpace(hint); hint != "" {
			return hint
		}
	}
	return defaultDisplayMessage
}

func getSafeDetails(err error) map[string]any {
	details := make(map[string]any)

	for _, sdp := range errors.GetAllSafeDetails(err) {
		for _, payload := range sdp.SafeDetails {
			jsonStr, ok := strings.CutPrefix(payload, "__json__:")
			if !ok {
				continue
			}
			var jsonDetails map[string]any
			if err := json.Unmarshal([]byte(jsonStr), &jsonDetails); err == nil {
				for k, v := range jsonDetails {
					details[k] = v
				}
			}
		}
	}

	return details
}
