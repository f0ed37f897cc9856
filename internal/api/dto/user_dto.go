package dto

import "time"

// LoginRequest accepts both the English field names and the correo/clave
// aliases older clients send.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Correo   string `json:"correo"`
	Clave    string `json:"clave"`
}

// Credentials returns the email and password, preferring the English fields.
func (r LoginRequest) Credentials() (string, string) {
	email, password := r.Email, r.Password
	if email == "" {
		email = r.Correo
	}
	if password == "" {
		password = r.Clave
	}
	return email, password
}

// RegisterRequest payload for new users.
type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Password string `json:"password"`
}

// SessionUser is the user summary returned with a token.
type SessionUser struct {
	ID       int64   `json:"id"`
	Email    string  `json:"email"`
	Username string  `json:"username"`
	FullName string  `json:"fullName"`
	Role     *string `json:"role"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      SessionUser `json:"user"`
}

// RoleSummary is the role reference embedded in a user.
type RoleSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// UserResponse is the administrator's view of an account.
type UserResponse struct {
	ID             int64        `json:"id"`
	Email          string       `json:"email"`
	Username       string       `json:"username"`
	FullName       string       `json:"fullName"`
	Role           *RoleSummary `json:"role"`
	IsActive       bool         `json:"isActive"`
	LastConnection *time.Time   `json:"lastConnection"`
	RegisteredAt   time.Time    `json:"registeredAt"`
}

// MeResponse describes the caller.
type MeResponse struct {
	UserResponse
	TokenExpiresAt time.Time `json:"tokenExpiresAt"`
}

// UpdateUserRequest changes a user's role or active flag.
type UpdateUserRequest struct {
	RoleID   *int64 `json:"roleId"`
	IsActive *bool  `json:"isActive"`
}

// RoleResponse describes a role.
type RoleResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	UserCount   int64  `json:"userCount"`
}

// MessageResponse acknowledges an action without a body.
type MessageResponse struct {
	Message string `json:"message"`
}
