package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/school-portal/internal/domain"
	apperrors "github.com/spec-kit/school-portal/pkg/util"
)

// RolePolicy ranks role names. It is built once and never mutated.
type RolePolicy struct {
	ranks map[string]int
}

// NewRolePolicy builds a policy from a rank table.
func NewRolePolicy(ranks map[string]int) RolePolicy {
	copied := make(map[string]int, len(ranks))
	for name, rank := range ranks {
		copied[name] = rank
	}
	return RolePolicy{ranks: copied}
}

// DefaultRolePolicy ranks Administrator over Editor over User.
func DefaultRolePolicy() RolePolicy {
	return NewRolePolicy(map[string]int{
		domain.RoleAdministrator: 3,
		domain.RoleEditor:        2,
		domain.RoleUser:          1,
	})
}

// Rank returns the rank of a role name; unknown names rank 0.
func (p RolePolicy) Rank(role string) int {
	return p.ranks[role]
}

// HasRole reports whether role satisfies required. An unknown required role
// is never satisfied.
func (p RolePolicy) HasRole(role, required string) bool {
	have := p.Rank(role)
	want := p.Rank(required)
	if have == 0 || want == 0 {
		return false
	}
	return have >= want
}

// IsAdmin is an exact match on the administrator role, not a rank check.
func (p RolePolicy) IsAdmin(role string) bool {
	return role == domain.RoleAdministrator
}

// CanEdit reports whether role may manage content.
func (p RolePolicy) CanEdit(role string) bool {
	return p.HasRole(role, domain.RoleEditor)
}

// RequireAuthenticated ensures the gate attached an identity.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := IdentityFromContext(c); !ok {
			return apperrors.NewUnauthorized(http.StatusText(http.StatusUnauthorized))
		}
		return c.Next()
	}
}

// RequireRole ensures the caller ranks at least as high as required.
func (p RolePolicy) RequireRole(required string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized(http.StatusText(http.StatusUnauthorized))
		}
		if !p.HasRole(identity.RoleName, required) {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// RequireAdmin ensures the caller is exactly an administrator.
func (p RolePolicy) RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized(http.StatusText(http.StatusUnauthorized))
		}
		if !p.IsAdmin(identity.RoleName) {
			return apperrors.NewForbidden("administrator role required")
		}
		return c.Next()
	}
}
