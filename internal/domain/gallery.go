package domain

import "time"

// MediaType distinguishes gallery images from videos.
type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

// Valid reports whether m is a supported media type.
func (m MediaType) Valid() bool {
	return m == MediaTypeImage || m == MediaTypeVideo
}

// GalleryItem is an image or video shown in the public gallery.
type GalleryItem struct {
	ID          int64
	Title       string
	Description string
	URL         string
	StorageKey  *string
	Type        MediaType
	AuthorID    int64
	Author      *AuthorSummary
	UploadedAt  time.Time
}
