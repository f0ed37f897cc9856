package handlers

import (
	"context"
	"mime/multipart"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/school-portal/internal/api/dto"
	"github.com/spec-kit/school-portal/internal/domain"
	"github.com/spec-kit/school-portal/internal/service"
	apperrors "github.com/spec-kit/school-portal/pkg/util"
)

// GalleryService is what MediaHandler needs for gallery entries.
type GalleryService interface {
	List(ctx context.Context, mediaType *domain.MediaType) ([]domain.GalleryItem, error)
	Create(ctx context.Context, author *domain.Identity, in service.GalleryInput) (*domain.GalleryItem, error)
	Delete(ctx context.Context, id int64) error
}

// UploadService is what MediaHandler needs for file uploads.
type UploadService interface {
	Upload(ctx context.Context, file service.FileUpload) (*service.UploadResult, error)
}

// MediaHandler exposes uploads and the gallery.
type MediaHandler struct {
	gallery GalleryService
	uploads UploadService
}

// NewMediaHandler constructs handler.
func NewMediaHandler(gallery GalleryService, uploads UploadService) *MediaHandler {
	return &MediaHandler{gallery: gallery, uploads: uploads}
}

// Upload handles POST /api/upload as multipart/form-data with a "file" part.
func (h *MediaHandler) Upload(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewValidationError("no file provided", nil)
	}
	file, err := header.Open()
	if err != nil {
		return apperrors.NewValidationError("unreadable file", nil)
	}
	defer file.Close()

	result, err := h.uploads.Upload(c.UserContext(), service.FileUpload{
		Filename:    header.Filename,
		ContentType: partContentType(header),
		Size:        header.Size,
		Folder:      c.FormValue("folder"),
		Body:        file,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.UploadResponse{
		Success:  true,
		URL:      result.URL,
		Key:      result.Key,
		Size:     result.Size,
		MimeType: result.MimeType,
		Type:     string(result.MediaType),
	})
}

// ListGallery handles GET /api/gallery.
func (h *MediaHandler) ListGallery(c *fiber.Ctx) error {
	var mediaType *domain.MediaType
	if raw := c.Query("type"); raw != "" {
		t := domain.MediaType(raw)
		mediaType = &t
	}
	items, err := h.gallery.List(c.UserContext(), mediaType)
	if err != nil {
		return err
	}
	out := make([]dto.GalleryResponse, 0, len(items))
	for i := range items {
		out = append(out, galleryResponse(&items[i]))
	}
	return c.JSON(fiber.Map{"items": out})
}

// CreateGalleryItem handles POST /api/gallery.
func (h *MediaHandler) CreateGalleryItem(c *fiber.Ctx) error {
	caller, err := requireIdentity(c)
	if err != nil {
		return err
	}
	var req dto.GalleryRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	item, err := h.gallery.Create(c.UserContext(), caller, service.GalleryInput{
		Title:       req.Title,
		Description: req.Description,
		URL:         req.URL,
		StorageKey:  req.StorageKey,
		Type:        domain.MediaType(req.Type),
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(galleryResponse(item))
}

// DeleteGalleryItem handles DELETE /api/gallery/:id.
func (h *MediaHandler) DeleteGalleryItem(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.gallery.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return deleted(c, "gallery item")
}

func partContentType(header *multipart.FileHeader) string {
	if ct := header.Header.Get(fiber.HeaderContentType); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
