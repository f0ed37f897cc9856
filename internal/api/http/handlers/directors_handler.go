package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/school-portal/internal/api/dto"
	"github.com/spec-kit/school-portal/internal/domain"
	"github.com/spec-kit/school-portal/internal/service"
)

// DirectorService is what DirectorsHandler needs.
type DirectorService interface {
	List(ctx context.Context, status *domain.DirectorStatus) ([]domain.Director, error)
	Get(ctx context.Context, id int64) (*domain.Director, error)
	Create(ctx context.Context, in service.DirectorInput) (*domain.Director, error)
	Update(ctx context.Context, id int64, in service.DirectorUpdate) (*domain.Director, error)
	Delete(ctx context.Context, id int64) error
}

// DirectorsHandler exposes the school leadership directory.
type DirectorsHandler struct {
	directors DirectorService
}

// NewDirectorsHandler constructs handler.
func NewDirectorsHandler(directors DirectorService) *DirectorsHandler {
	return &DirectorsHandler{directors: directors}
}

// List handles GET /api/directors.
func (h *DirectorsHandler) List(c *fiber.Ctx) error {
	var status *domain.DirectorStatus
	if raw := c.Query("status"); raw != "" {
		s := domain.DirectorStatus(raw)
		status = &s
	}
	directors, err := h.directors.List(c.UserContext(), status)
	if err != nil {
		return err
	}
	items := make([]dto.DirectorResponse, 0, len(directors))
	for i := range directors {
		items = append(items, directorResponse(&directors[i]))
	}
	return c.JSON(fiber.Map{"directors": items})
}

// Get handles GET /api/directors/:id.
func (h *DirectorsHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	director, err := h.directors.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(directorResponse(director))
}

// Create handles POST /api/directors.
func (h *DirectorsHandler) Create(c *fiber.Ctx) error {
	var req dto.DirectorRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	director, err := h.directors.Create(c.UserContext(), service.DirectorInput{
		FullName:    deref(req.FullName),
		Position:    deref(req.Position),
		Photo:       deref(req.Photo),
		Description: deref(req.Description),
		Status:      domain.DirectorStatus(deref(req.Status)),
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(directorResponse(director))
}

// Update handles PUT /api/directors/:id.
func (h *DirectorsHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.DirectorRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	in := service.DirectorUpdate{
		FullName:    req.FullName,
		Position:    req.Position,
		Photo:       req.Photo,
		Description: req.Description,
	}
	if req.Status != nil {
		status := domain.DirectorStatus(*req.Status)
		in.Status = &status
	}
	director, err := h.directors.Update(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(directorResponse(director))
}

// Delete handles DELETE /api/directors/:id.
func (h *DirectorsHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.directors.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return deleted(c, "director")
}
