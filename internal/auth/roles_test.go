package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/school-portal/internal/domain"
)

func TestRolePolicy_HasRole(t *testing.T) {
	policy := DefaultRolePolicy()
	tests := []struct {
		role     string
		required string
		want     bool
	}{
		{domain.RoleAdministrator, domain.RoleAdministrator, true},
		{domain.RoleAdministrator, domain.RoleEditor, true},
		{domain.RoleAdministrator, domain.RoleUser, true},
		{domain.RoleEditor, domain.RoleAdministrator, false},
		{domain.RoleEditor, domain.RoleEditor, true},
		{domain.RoleEditor, domain.RoleUser, true},
		{domain.RoleUser, domain.RoleAdministrator, false},
		{domain.RoleUser, domain.RoleEditor, false},
		{domain.RoleUser, domain.RoleUser, true},
		{"", domain.RoleUser, false},
		{"Janitor", domain.RoleUser, false},
		{domain.RoleAdministrator, "Janitor", false},
		{"", "", false},
		{"administrator", domain.RoleUser, false},
	}

	for _, tt := range tests {
		t.Run(tt.role+"->"+tt.required, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.HasRole(tt.role, tt.required))
		})
	}
}

func TestRolePolicy_IsAdminAndCanEdit(t *testing.T) {
	policy := DefaultRolePolicy()

	assert.True(t, policy.IsAdmin(domain.RoleAdministrator))
	assert.False(t, policy.IsAdmin(domain.RoleEditor))
	assert.False(t, policy.IsAdmin(""))

	assert.True(t, policy.CanEdit(domain.RoleAdministrator))
	assert.True(t, policy.CanEdit(domain.RoleEditor))
	assert.False(t, policy.CanEdit(domain.RoleUser))
	assert.False(t, policy.CanEdit(""))
}

func TestRolePolicy_IsImmutable(t *testing.T) {
	ranks := map[string]int{"A": 2, "B": 1}
	policy := NewRolePolicy(ranks)
	ranks["B"] = 5

	assert.Equal(t, 1, policy.Rank("B"))
	assert.False(t, policy.HasRole("B", "A"))
}

func TestRoleGuards(t *testing.T) {
	policy := DefaultRolePolicy()

	newApp := func(identity *domain.Identity, guard fiber.Handler) *fiber.App {
		app := fiber.New(fiber.Config{ErrorHandler: renderError})
		app.Get("/", func(c *fiber.Ctx) error {
			if identity != nil {
				WithIdentity(c, *identity)
			}
			return c.Next()
		}, guard, func(c *fiber.Ctx) error {
			return c.SendStatus(http.StatusNoContent)
		})
		return app
	}

	editor := &domain.Identity{UserID: 1, RoleName: domain.RoleEditor}
	user := &domain.Identity{UserID: 2, RoleName: domain.RoleUser}
	admin := &domain.Identity{UserID: 3, RoleName: domain.RoleAdministrator}

	tests := []struct {
		name     string
		identity *domain.Identity
		guard    fiber.Handler
		want     int
	}{
		{"authenticated ok", user, RequireAuthenticated(), http.StatusNoContent},
		{"authenticated missing", nil, RequireAuthenticated(), http.StatusUnauthorized},
		{"editor ok", editor, policy.RequireRole(domain.RoleEditor), http.StatusNoContent},
		{"admin as editor ok", admin, policy.RequireRole(domain.RoleEditor), http.StatusNoContent},
		{"user as editor forbidden", user, policy.RequireRole(domain.RoleEditor), http.StatusForbidden},
		{"editor missing identity", nil, policy.RequireRole(domain.RoleEditor), http.StatusUnauthorized},
		{"admin ok", admin, policy.RequireAdmin(), http.StatusNoContent},
		{"editor as admin forbidden", editor, policy.RequireAdmin(), http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newApp(tt.identity, tt.guard)
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
