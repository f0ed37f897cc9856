package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spec-kit/school-portal/internal/domain"
	"github.com/spec-kit/school-portal/internal/storage"
	apperrors "github.com/spec-kit/school-portal/pkg/util"
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

var allowedVideoTypes = map[string]bool{
	"video/mp4":       true,
	"video/webm":      true,
	"video/ogg":       true,
	"video/quicktime": true,
}

// UploadLimits caps upload sizes per media type.
type UploadLimits struct {
	MaxImageBytes int64
	MaxVideoBytes int64
}

// UploadService validates media and puts it in object storage.
type UploadService struct {
	store  storage.ObjectStore
	limits UploadLimits
	now    func() time.Time
}

// FileUpload is a file received from a client.
type FileUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Folder      string
	Body        io.ReadSeeker
}

// UploadResult describes a stored object.
type UploadResult struct {
	URL       string
	Key       string
	Size      int64
	MimeType  string
	MediaType domain.MediaType
}

// NewUploadService builds the service. store may be nil when no bucket is
// configured, in which case uploads are refused.
func NewUploadService(store storage.ObjectStore, limits UploadLimits) *UploadService {
	if limits.MaxImageBytes <= 0 {
		limits.MaxImageBytes = 10 << 20
	}
	if limits.MaxVideoBytes <= 0 {
		limits.MaxVideoBytes = 100 << 20
	}
	return &UploadService{store: store, limits: limits, now: time.Now}
}

// Upload checks the file type and size, then stores it under
// <folder>/<year>/<month>/<uuid><ext>.
func (s *UploadService) Upload(ctx context.Context, file FileUpload) (*UploadResult, error) {
	if s.store == nil {
		return nil, apperrors.NewDomainError("STORAGE_UNAVAILABLE", "media storage is not configured", http.StatusServiceUnavailable, nil)
	}
	if file.Body == nil || file.Size <= 0 {
		return nil, apperrors.NewValidationError("no file provided", nil)
	}

	mimeType := strings.ToLower(strings.TrimSpace(file.ContentType))
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	mediaType, limit, folder, err := s.classify(mimeType)
	if err != nil {
		return nil, err
	}
	if file.Size > limit {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("file exceeds the %dMB limit for %ss", limit>>20, mediaType),
			map[string]any{"size": file.Size, "limit": limit},
		)
	}
	if strings.TrimSpace(file.Folder) != "" {
		folder = file.Folder
	}

	key := storage.ObjectKey(folder, file.Filename, s.now())
	url, err := s.store.Put(ctx, key, mimeType, file.Body, file.Size)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &UploadResult{URL: url, Key: key, Size: file.Size, MimeType: mimeType, MediaType: mediaType}, nil
}

// Remove deletes a stored object.
func (s *UploadService) Remove(ctx context.Context, key string) error {
	if s.store == nil || key == "" {
		return nil
	}
	return s.store.Delete(ctx, key)
}

func (s *UploadService) classify(mimeType string) (domain.MediaType, int64, string, error) {
	switch {
	case allowedImageTypes[mimeType]:
		return domain.MediaTypeImage, s.limits.MaxImageBytes, "images", nil
	case allowedVideoTypes[mimeType]:
		return domain.MediaTypeVideo, s.limits.MaxVideoBytes, "videos", nil
	}
	return "", 0, "", apperrors.NewValidationError("file type not allowed", map[string]any{"mimetype": mimeType})
}
