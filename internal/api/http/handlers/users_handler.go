package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/school-portal/internal/api/dto"
	"github.com/spec-kit/school-portal/internal/domain"
	"github.com/spec-kit/school-portal/internal/service"
)

// UserService is what UsersHandler needs from the user service.
type UserService interface {
	List(ctx context.Context) ([]domain.User, error)
	UpdateAccess(ctx context.Context, id int64, in service.UpdateAccessInput) (*domain.User, error)
}

// RoleService is what UsersHandler needs from the role service.
type RoleService interface {
	List(ctx context.Context) ([]domain.Role, error)
}

// UsersHandler exposes user administration and role reference data.
type UsersHandler struct {
	users UserService
	roles RoleService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users UserService, roles RoleService) *UsersHandler {
	return &UsersHandler{users: users, roles: roles}
}

// ListUsers handles GET /api/users.
func (h *UsersHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.users.List(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, userResponse(&users[i]))
	}
	return c.JSON(fiber.Map{"users": items})
}

// UpdateUser handles PUT /api/users/:id.
func (h *UsersHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateUserRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := h.users.UpdateAccess(c.UserContext(), id, service.UpdateAccessInput{
		RoleID:   req.RoleID,
		IsActive: req.IsActive,
	})
	if err != nil {
		return err
	}
	return c.JSON(userResponse(user))
}

// ListRoles handles GET /api/roles.
func (h *UsersHandler) ListRoles(c *fiber.Ctx) error {
	roles, err := h.roles.List(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.RoleResponse, 0, len(roles))
	for i := range roles {
		items = append(items, roleResponse(&roles[i]))
	}
	return c.JSON(fiber.Map{"roles": items})
}
