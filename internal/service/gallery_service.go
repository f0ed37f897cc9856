package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/school-portal/internal/domain"
	"github.com/spec-kit/school-portal/internal/repository"
	apperrors "github.com/spec-kit/school-portal/pkg/util"
)

// MediaRemover deletes stored media objects.
type MediaRemover interface {
	Remove(ctx context.Context, key string) error
}

// GalleryService manages gallery entries.
type GalleryService struct {
	items   repository.GalleryRepository
	remover MediaRemover
	logger  *zap.Logger
}

// GalleryInput creates a gallery entry.
type GalleryInput struct {
	Title       string
	Description string
	URL         string
	StorageKey  string
	Type        domain.MediaType
}

// NewGalleryService builds the service. remover may be nil.
func NewGalleryService(items repository.GalleryRepository, remover MediaRemover, logger *zap.Logger) *GalleryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GalleryService{items: items, remover: remover, logger: logger}
}

// List returns gallery items, optionally of one media type.
func (s *GalleryService) List(ctx context.Context, mediaType *domain.MediaType) ([]domain.GalleryItem, error) {
	if mediaType != nil && !mediaType.Valid() {
		return nil, apperrors.NewValidationError("type must be image or video", nil)
	}
	items, err := s.items.List(ctx, mediaType)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.GalleryItem{}
	}
	return items, nil
}

// Create records an already uploaded item authored by the caller.
func (s *GalleryService) Create(ctx context.Context, author *domain.Identity, in GalleryInput) (*domain.GalleryItem, error) {
	if author.IsZero() {
		return nil, apperrors.NewUnauthorized("unauthorized")
	}
	if in.Type == "" {
		in.Type = domain.MediaTypeImage
	}
	item := &domain.GalleryItem{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		URL:         strings.TrimSpace(in.URL),
		Type:        in.Type,
		AuthorID:    author.UserID,
	}
	if key := strings.TrimSpace(in.StorageKey); key != "" {
		item.StorageKey = &key
	}

	var v fieldErrors
	v.minLength("title", item.Title, 1)
	if item.URL == "" {
		v.add("url", "url is required")
	}
	v.optionalURL("url", item.URL)
	if !item.Type.Valid() {
		v.add("type", "type must be image or video")
	}
	if err := v.err(); err != nil {
		return nil, err
	}

	if err := s.items.Create(ctx, item); err != nil {
		return nil, apperrors.MapError(err)
	}
	return item, nil
}

// Delete removes the entry and its stored object, if any. A failure to delete
// the object is logged; the entry is gone either way.
func (s *GalleryService) Delete(ctx context.Context, id int64) error {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return notFound(err, "gallery item")
	}
	if err := s.items.Delete(ctx, id); err != nil {
		return notFound(err, "gallery item")
	}
	if item.StorageKey != nil && s.remover != nil {
		if err := s.remover.Remove(ctx, *item.StorageKey); err != nil {
			s.logger.Warn("delete stored media", zap.Int64("gallery_id", id), zap.String("key", *item.StorageKey), zap.Error(err))
		}
	}
	return nil
}
