package domain

import "time"

// Role names recognized by the role policy.
const (
	RoleAdministrator = "Administrator"
	RoleEditor        = "Editor"
	RoleUser          = "User"
)

// Role is static reference data describing a permission group.
type Role struct {
	ID          int64
	Name        string
	Description string
	UserCount   int64
}

// User is a principal able to sign in to the portal.
type User struct {
	ID             int64
	Email          string
	Username       string
	FullName       string
	PasswordHash   string
	RoleID         *int64
	RoleName       *string
	IsActive       bool
	LastConnection *time.Time
	RegisteredAt   time.Time
}

// RoleNameOrEmpty returns the role name or an empty string when none is assigned.
func (u *User) RoleNameOrEmpty() string {
	if u == nil || u.RoleName == nil {
		return ""
	}
	return *u.RoleName
}
