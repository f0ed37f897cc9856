package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/school-portal/internal/api/dto"
	"github.com/spec-kit/school-portal/internal/domain"
	"github.com/spec-kit/school-portal/internal/service"
)

// TagService is what TagsHandler needs.
type TagService interface {
	List(ctx context.Context) ([]domain.Tag, error)
	Get(ctx context.Context, id int64) (*domain.Tag, error)
	Create(ctx context.Context, in service.TagInput) (*domain.Tag, error)
	Update(ctx context.Context, id int64, in service.TagUpdate) (*domain.Tag, error)
	Delete(ctx context.Context, id int64) error
}

// TagsHandler exposes tag endpoints.
type TagsHandler struct {
	tags TagService
}

// NewTagsHandler constructs handler.
func NewTagsHandler(tags TagService) *TagsHandler {
	return &TagsHandler{tags: tags}
}

// List handles GET /api/tags.
func (h *TagsHandler) List(c *fiber.Ctx) error {
	tags, err := h.tags.List(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.TagResponse, 0, len(tags))
	for i := range tags {
		items = append(items, tagResponse(&tags[i]))
	}
	return c.JSON(fiber.Map{"tags": items})
}

// Get handles GET /api/tags/:id.
func (h *TagsHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	tag, err := h.tags.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(tagResponse(tag))
}

// Create handles POST /api/tags.
func (h *TagsHandler) Create(c *fiber.Ctx) error {
	var req dto.TagRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	tag, err := h.tags.Create(c.UserContext(), service.TagInput{
		Name:        deref(req.Name),
		Slug:        deref(req.Slug),
		Description: deref(req.Description),
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(tagResponse(tag))
}

// Update handles PUT /api/tags/:id.
func (h *TagsHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.TagRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	tag, err := h.tags.Update(c.UserContext(), id, service.TagUpdate{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(tagResponse(tag))
}

// Delete handles DELETE /api/tags/:id.
func (h *TagsHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.tags.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return deleted(c, "tag")
}
