package types

// UserRole is the portal role stored on the user profile
type UserRole string

const (
	UserRoleMember UserRole = "member"
	UserRoleAdmin  UserRole = "admin"
)
