package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/school-portal/internal/api/dto"
	"github.com/spec-kit/school-portal/internal/domain"
	"github.com/spec-kit/school-portal/internal/service"
)

// ContactService is what ContactHandler needs.
type ContactService interface {
	ListSubjects(ctx context.Context) ([]domain.ContactSubject, error)
	CreateSubject(ctx context.Context, in service.ContactSubjectInput) (*domain.ContactSubject, error)
	Submit(ctx context.Context, in service.ContactInput) (*domain.ContactMessage, error)
	List(ctx context.Context, isReplied *bool) ([]domain.ContactMessage, error)
	MarkReplied(ctx context.Context, id int64, replied *bool) (*domain.ContactMessage, error)
	Delete(ctx context.Context, id int64) error
}

// ContactHandler exposes the contact form and its inbox.
type ContactHandler struct {
	contact ContactService
}

// NewContactHandler constructs handler.
func NewContactHandler(contact ContactService) *ContactHandler {
	return &ContactHandler{contact: contact}
}

// ListSubjects handles GET /api/contact-subjects.
func (h *ContactHandler) ListSubjects(c *fiber.Ctx) error {
	subjects, err := h.contact.ListSubjects(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]*dto.ContactSubjectResponse, 0, len(subjects))
	for i := range subjects {
		items = append(items, contactSubjectResponse(&subjects[i]))
	}
	return c.JSON(fiber.Map{"subjects": items})
}

// CreateSubject handles POST /api/contact-subjects.
func (h *ContactHandler) CreateSubject(c *fiber.Ctx) error {
	var req dto.ContactSubjectRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	subject, err := h.contact.CreateSubject(c.UserContext(), service.ContactSubjectInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(contactSubjectResponse(subject))
}

// Submit handles POST /api/contact.
func (h *ContactHandler) Submit(c *fiber.Ctx) error {
	var req dto.ContactRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	msg, err := h.contact.Submit(c.UserContext(), service.ContactInput{
		Name:      req.Name,
		Email:     req.Email,
		SubjectID: req.SubjectID,
		Message:   req.Message,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(contactMessageResponse(msg))
}

// List handles GET /api/contact.
func (h *ContactHandler) List(c *fiber.Ctx) error {
	replied, err := parseOptionalBoolQuery(c, "isReplied")
	if err != nil {
		return err
	}
	messages, err := h.contact.List(c.UserContext(), replied)
	if err != nil {
		return err
	}
	items := make([]dto.ContactMessageResponse, 0, len(messages))
	for i := range messages {
		items = append(items, contactMessageResponse(&messages[i]))
	}
	return c.JSON(fiber.Map{"messages": items})
}

// MarkReplied handles PUT /api/contact/:id.
func (h *ContactHandler) MarkReplied(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.ContactReplyRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return err
		}
	}
	msg, err := h.contact.MarkReplied(c.UserContext(), id, req.IsReplied)
	if err != nil {
		return err
	}
	return c.JSON(contactMessageResponse(msg))
}

// Delete handles DELETE /api/contact/:id.
func (h *ContactHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.contact.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return deleted(c, "message")
}
