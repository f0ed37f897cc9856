package domain

import "time"

// Identity is the per-request projection of a validated session token.
// Handlers trust it without re-reading the Authorization header.
type Identity struct {
	UserID    int64
	Email     string
	Username  string
	RoleID    *int64
	RoleName  string
	TokenID   string
	ExpiresAt time.Time
}

// IsZero reports whether the identity carries no principal.
func (i *Identity) IsZero() bool {
	return i == nil || i.UserID == 0
}
