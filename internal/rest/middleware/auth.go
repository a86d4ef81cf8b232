package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	ierr "github.com/gymportal/portal/internal/errors"
	"github.com/gymportal/portal/internal/logger"
	"github.com/gymportal/portal/internal/session"
	"github.com/gymportal/portal/internal/types"
)

// AuthenticateMiddleware resolves the Bearer token into a session and sets the
// caller's id, email, role and raw token in the request context
func AuthenticateMiddleware(sessions session.Service, logger *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c)
		if !ok {
			abortWithError(c, ierr.NewError("missing bearer token").
				WithHint("Authentication required").
				Mark(ierr.ErrUnauthorized))
			return
		}

		sess, err := sessions.Get(c.Request.Context(), token)
		if err != nil {
			logger.Debugw("session lookup failed", "error", err)
			if !ierr.IsUnauthorized(err) {
				err = ierr.WithError(err).
					WithHint("Invalid or expired session").
					Mark(ierr.ErrUnauthorized)
			}
			abortWithError(c, err)
			return
		}

		ctx := c.Request.Context()
		ctx = context.WithValue(ctx, types.CtxUserID, sess.UserID)
		ctx = context.WithValue(ctx, types.CtxUserEmail, sess.Email)
		ctx = context.WithValue(ctx, types.CtxUserRole, sess.Role)
		ctx = context.WithValue(ctx, types.CtxJWT, token)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireAdmin must run after AuthenticateMiddleware
func RequireAdmin(logger *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if !types.IsAdmin(ctx) {
			logger.Warnw("admin route denied",
				"user_id", types.GetUserID(ctx),
				"path", c.Request.URL.Path)
			abortWithError(c, ierr.NewError("admin role required").
				WithHint("Only staff can perform this action").
				Mark(ierr.ErrPermissionDenied))
			return
		}
		c.Next()
	}
}

// BearerToken extracts the token from the Authorization header
func BearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader(types.HeaderAuthorization)
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return token, token != ""
}

// abortWithError hands err to ErrorHandler and stops the chain
func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
