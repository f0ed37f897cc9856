package domain

import "time"

// PublicationStatus enumerates the editorial states of a publication.
type PublicationStatus string

const (
	PublicationStatusDraft     PublicationStatus = "draft"
	PublicationStatusPublished PublicationStatus = "published"
	PublicationStatusArchived  PublicationStatus = "archived"
)

// Valid reports whether s is a known status.
func (s PublicationStatus) Valid() bool {
	switch s {
	case PublicationStatusDraft, PublicationStatusPublished, PublicationStatusArchived:
		return true
	}
	return false
}

// AuthorSummary is the public projection of a publication author.
type AuthorSummary struct {
	ID       int64
	FullName string
	Username string
}

// Publication is a news item or event announcement.
type Publication struct {
	ID           int64
	Title        string
	Slug         string
	Description  string
	Content      string
	MainImage    string
	Status       PublicationStatus
	AuthorID     int64
	Author       *AuthorSummary
	CategoryID   *int64
	Category     *Category
	Tags         []Tag
	CommentCount int64
	VisitCount   int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Tag labels publications.
type Tag struct {
	ID               int64
	Name             string
	Slug             string
	Description      string
	PublicationCount int64
}

// Category groups publications into sections of the public site, listed in
// ascending Order.
type Category struct {
	ID               int64
	Name             string
	Slug             string
	Description      string
	Color            string
	Order            int
	PublicationCount int64
	CreatedAt        time.Time
}

// Visit records a public read of a publication.
type Visit struct {
	ID            int64
	PublicationID int64
	IPAddress     string
	UserAgent     string
	VisitedAt     time.Time
}
