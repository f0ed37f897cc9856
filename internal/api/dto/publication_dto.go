package dto

import "time"

// CreatePublicationRequest payload.
type CreatePublicationRequest struct {
	Title       string  `json:"title"`
	Slug        string  `json:"slug"`
	Description string  `json:"description"`
	Content     string  `json:"content"`
	MainImage   string  `json:"mainImage"`
	Status      string  `json:"status"`
	CategoryID  *int64  `json:"categoryId"`
	TagIDs      []int64 `json:"tagIds"`
}

// UpdatePublicationRequest payload. Absent fields are left unchanged.
type UpdatePublicationRequest struct {
	Title       *string `json:"title"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	Content     *string `json:"content"`
	MainImage   *string `json:"mainImage"`
	Status      *string `json:"status"`
	CategoryID  *int64  `json:"categoryId"`
	TagIDs      []int64 `json:"tagIds"`
}

// AuthorResponse is the public author summary.
type AuthorResponse struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName"`
	Username string `json:"username"`
}

// PublicationResponse describes a publication in listings.
type PublicationResponse struct {
	ID           int64                    `json:"id"`
	Title        string                   `json:"title"`
	Slug         string                   `json:"slug"`
	Description  string                   `json:"description"`
	Content      string                   `json:"content"`
	MainImage    string                   `json:"mainImage,omitempty"`
	Status       string                   `json:"status"`
	AuthorID     int64                    `json:"authorId"`
	Author       *AuthorResponse          `json:"author,omitempty"`
	CategoryID   *int64                   `json:"categoryId"`
	Category     *CategorySummaryResponse `json:"category,omitempty"`
	Tags         []TagResponse            `json:"tags"`
	CommentCount int64                    `json:"commentCount"`
	VisitCount   int64                    `json:"visitCount"`
	CreatedAt    time.Time                `json:"createdAt"`
	UpdatedAt    time.Time                `json:"updatedAt"`
}

// PublicationDetailResponse adds approved comments.
type PublicationDetailResponse struct {
	PublicationResponse
	Comments []CommentResponse `json:"comments"`
}

// PaginationResponse describes a page.
type PaginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// PublicationListResponse is a page of publications.
type PublicationListResponse struct {
	Publications []PublicationResponse `json:"publications"`
	Pagination   PaginationResponse    `json:"pagination"`
}

// TagRequest creates or edits a tag. Absent fields are left unchanged on edit.
type TagRequest struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
}

// TagResponse describes a tag.
type TagResponse struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Slug             string `json:"slug"`
	Description      string `json:"description,omitempty"`
	PublicationCount int64  `json:"publicationCount"`
}

// CategoryRequest creates a category.
type CategoryRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Order       int    `json:"order"`
}

// CategoryResponse describes a category with its publication count.
type CategoryResponse struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Slug             string    `json:"slug"`
	Description      string    `json:"description,omitempty"`
	Color            string    `json:"color,omitempty"`
	Order            int       `json:"order"`
	PublicationCount int64     `json:"publicationCount"`
	CreatedAt        time.Time `json:"createdAt"`
}

// CategorySummaryResponse is the category embedded in a publication.
type CategorySummaryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// CreateCommentRequest payload. Message is accepted as an alias of content.
type CreateCommentRequest struct {
	PublicationID int64  `json:"publicationId"`
	Name          string `json:"name"`
	Content       string `json:"content"`
	Message       string `json:"message"`
}

// Text returns the comment body.
func (r CreateCommentRequest) Text() string {
	if r.Content != "" {
		return r.Content
	}
	return r.Message
}

// UpdateCommentRequest moderates a comment.
type UpdateCommentRequest struct {
	Content    *string `json:"content"`
	IsApproved *bool   `json:"isApproved"`
}

// ReactionRequest payload.
type ReactionRequest struct {
	CommentID int64  `json:"commentId"`
	Type      string `json:"type"`
}

// ReactionResponse describes a reaction.
type ReactionResponse struct {
	ID        int64     `json:"id"`
	CommentID int64     `json:"commentId"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

// CommentResponse describes a comment.
type CommentResponse struct {
	ID               int64              `json:"id"`
	PublicationID    int64              `json:"publicationId"`
	PublicationTitle string             `json:"publicationTitle,omitempty"`
	Name             string             `json:"name,omitempty"`
	Content          string             `json:"content"`
	IsApproved       bool               `json:"isApproved"`
	Reactions        []ReactionResponse `json:"reactions"`
	CreatedAt        time.Time          `json:"createdAt"`
}
