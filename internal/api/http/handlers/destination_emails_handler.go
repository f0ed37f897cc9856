package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/school-portal/internal/api/dto"
	"github.com/spec-kit/school-portal/internal/domain"
	"github.com/spec-kit/school-portal/internal/service"
)

// DestinationEmailService is what DestinationEmailsHandler needs.
type DestinationEmailService interface {
	List(ctx context.Context, activeOnly bool) ([]domain.DestinationEmail, error)
	Get(ctx context.Context, id int64) (*domain.DestinationEmail, error)
	Create(ctx context.Context, in service.DestinationEmailInput) (*domain.DestinationEmail, error)
	Update(ctx context.Context, id int64, in service.DestinationEmailUpdate) (*domain.DestinationEmail, error)
	Delete(ctx context.Context, id int64) error
}

// DestinationEmailsHandler manages contact notification recipients.
type DestinationEmailsHandler struct {
	emails DestinationEmailService
}

// NewDestinationEmailsHandler constructs handler.
func NewDestinationEmailsHandler(emails DestinationEmailService) *DestinationEmailsHandler {
	return &DestinationEmailsHandler{emails: emails}
}

// List handles GET /api/destination-emails.
func (h *DestinationEmailsHandler) List(c *fiber.Ctx) error {
	active, err := parseOptionalBoolQuery(c, "active")
	if err != nil {
		return err
	}
	emails, err := h.emails.List(c.UserContext(), active != nil && *active)
	if err != nil {
		return err
	}
	items := make([]dto.DestinationEmailResponse, 0, len(emails))
	for i := range emails {
		items = append(items, destinationEmailResponse(&emails[i]))
	}
	return c.JSON(fiber.Map{"emails": items})
}

// Get handles GET /api/destination-emails/:id.
func (h *DestinationEmailsHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	email, err := h.emails.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(destinationEmailResponse(email))
}

// Create handles POST /api/destination-emails.
func (h *DestinationEmailsHandler) Create(c *fiber.Ctx) error {
	var req dto.DestinationEmailRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	email, err := h.emails.Create(c.UserContext(), service.DestinationEmailInput{
		Name:     deref(req.Name),
		Email:    deref(req.Email),
		IsActive: req.IsActive,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(destinationEmailResponse(email))
}

// Update handles PUT /api/destination-emails/:id.
func (h *DestinationEmailsHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.DestinationEmailRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	email, err := h.emails.Update(c.UserContext(), id, service.DestinationEmailUpdate{
		Name:     req.Name,
		Email:    req.Email,
		IsActive: req.IsActive,
	})
	if err != nil {
		return err
	}
	return c.JSON(destinationEmailResponse(email))
}

// Delete handles DELETE /api/destination-emails/:id.
func (h *DestinationEmailsHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.emails.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return deleted(c, "destination email")
}
