package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/school-portal/internal/api/dto"
	"github.com/spec-kit/school-portal/internal/domain"
	"github.com/spec-kit/school-portal/internal/repository"
	"github.com/spec-kit/school-portal/internal/service"
)

// PublicationService is what PublicationsHandler needs.
type PublicationService interface {
	List(ctx context.Context, filter repository.PublicationFilter) ([]domain.Publication, service.Pagination, error)
	Get(ctx context.Context, id int64, visit service.VisitInfo) (*service.PublicationDetail, error)
	GetBySlug(ctx context.Context, slug string, visit service.VisitInfo) (*service.PublicationDetail, error)
	Create(ctx context.Context, author *domain.Identity, in service.PublicationInput) (*domain.Publication, error)
	Update(ctx context.Context, caller *domain.Identity, id int64, in service.PublicationUpdate) (*domain.Publication, error)
	Delete(ctx context.Context, caller *domain.Identity, id int64) error
}

// PublicationsHandler exposes publication endpoints.
type PublicationsHandler struct {
	publications PublicationService
}

// NewPublicationsHandler constructs handler.
func NewPublicationsHandler(publications PublicationService) *PublicationsHandler {
	return &PublicationsHandler{publications: publications}
}

// List handles GET /api/publications.
func (h *PublicationsHandler) List(c *fiber.Ctx) error {
	tagID, err := parseOptionalInt64Query(c, "tagId")
	if err != nil {
		return err
	}
	categoryID, err := parseOptionalInt64Query(c, "categoryId")
	if err != nil {
		return err
	}
	filter := repository.PublicationFilter{
		TagID:      tagID,
		CategoryID: categoryID,
		Search:     c.Query("search"),
		Page: repository.Page{
			Number: parseIntQuery(c, "page", 1),
			Size:   parseIntQuery(c, "limit", repository.DefaultPageSize),
		},
	}
	if status := c.Query("status"); status != "" {
		s := domain.PublicationStatus(status)
		filter.Status = &s
	}

	publications, page, err := h.publications.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.PublicationResponse, 0, len(publications))
	for i := range publications {
		items = append(items, publicationResponse(&publications[i]))
	}
	return c.JSON(dto.PublicationListResponse{
		Publications: items,
		Pagination: dto.PaginationResponse{
			Total:      page.Total,
			Page:       page.Page,
			Limit:      page.Limit,
			TotalPages: page.TotalPages,
		},
	})
}

// Get handles GET /api/publications/:id.
func (h *PublicationsHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	detail, err := h.publications.Get(c.UserContext(), id, visitInfo(c))
	if err != nil {
		return err
	}
	return c.JSON(publicationDetailResponse(detail))
}

// GetBySlug handles GET /api/publications/slug/:slug.
func (h *PublicationsHandler) GetBySlug(c *fiber.Ctx) error {
	detail, err := h.publications.GetBySlug(c.UserContext(), c.Params("slug"), visitInfo(c))
	if err != nil {
		return err
	}
	return c.JSON(publicationDetailResponse(detail))
}

// Create handles POST /api/publications.
func (h *PublicationsHandler) Create(c *fiber.Ctx) error {
	caller, err := requireIdentity(c)
	if err != nil {
		return err
	}
	var req dto.CreatePublicationRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	publication, err := h.publications.Create(c.UserContext(), caller, service.PublicationInput{
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
		Content:     req.Content,
		MainImage:   req.MainImage,
		Status:      domain.PublicationStatus(req.Status),
		CategoryID:  req.CategoryID,
		TagIDs:      req.TagIDs,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(publicationResponse(publication))
}

// Update handles PUT /api/publications/:id.
func (h *PublicationsHandler) Update(c *fiber.Ctx) error {
	caller, err := requireIdentity(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdatePublicationRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	in := service.PublicationUpdate{
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
		Content:     req.Content,
		MainImage:   req.MainImage,
		CategoryID:  req.CategoryID,
		TagIDs:      req.TagIDs,
	}
	if req.Status != nil {
		status := domain.PublicationStatus(*req.Status)
		in.Status = &status
	}
	publication, err := h.publications.Update(c.UserContext(), caller, id, in)
	if err != nil {
		return err
	}
	return c.JSON(publicationResponse(publication))
}

// Delete handles DELETE /api/publications/:id.
func (h *PublicationsHandler) Delete(c *fiber.Ctx) error {
	caller, err := requireIdentity(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.publications.Delete(c.UserContext(), caller, id); err != nil {
		return err
	}
	return deleted(c, "publication")
}

func visitInfo(c *fiber.Ctx) service.VisitInfo {
	return service.VisitInfo{IPAddress: clientIP(c), UserAgent: c.Get(fiber.HeaderUserAgent)}
}
