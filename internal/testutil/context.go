package testutil

import (
	"context"

	"github.com/gymportal/portal/internal/types"
)

const (
	DefaultUserID  = "00000000-0000-0000-0000-000000000001"
	DefaultAdminID = "00000000-0000-0000-0000-0000000000ad"
)

// SetupContext returns a member request context
func SetupContext() context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, types.CtxUserID, DefaultUserID)
	ctx = context.WithValue(ctx, types.CtxUserEmail, "member@gym.test")
	ctx = context.WithValue(ctx, types.CtxUserRole, types.UserRoleMember)
	ctx = context.WithValue(ctx, types.CtxRequestID, types.GenerateUUID())
	return ctx
}

// AdminContext returns an admin request context
func AdminContext() context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, types.CtxUserID, DefaultAdminID)
	ctx = context.WithValue(ctx, types.CtxUserEmail, "admin@gym.test")
	ctx = context.WithValue(ctx, types.CtxUserRole, types.UserRoleAdmin)
	ctx = context.WithValue(ctx, types.CtxRequestID, types.GenerateUUID())
	return ctx
}
