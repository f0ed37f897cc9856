package dto

import "time"

// DirectorRequest creates or edits a director. Absent fields are left
// unchanged on edit.
type DirectorRequest struct {
	FullName    *string `json:"fullName"`
	Position    *string `json:"position"`
	Photo       *string `json:"photo"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

// DirectorResponse describes a director.
type DirectorResponse struct {
	ID           int64     `json:"id"`
	FullName     string    `json:"fullName"`
	Position     string    `json:"position,omitempty"`
	Photo        string    `json:"photo,omitempty"`
	Description  string    `json:"description,omitempty"`
	Status       string    `json:"status"`
	RegisteredAt time.Time `json:"registeredAt"`
}

// ContactSubjectRequest payload.
type ContactSubjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ContactSubjectResponse describes a subject.
type ContactSubjectResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ContactRequest is the public contact form.
type ContactRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	SubjectID *int64 `json:"subjectId"`
	Message   string `json:"message"`
}

// ContactReplyRequest marks a message replied or not.
type ContactReplyRequest struct {
	IsReplied *bool `json:"isReplied"`
}

// ContactMessageResponse describes an inbox message.
type ContactMessageResponse struct {
	ID        int64                   `json:"id"`
	Name      string                  `json:"name"`
	Email     string                  `json:"email"`
	SubjectID *int64                  `json:"subjectId"`
	Subject   *ContactSubjectResponse `json:"subject"`
	Message   string                  `json:"message"`
	IsReplied bool                    `json:"isReplied"`
	RepliedAt *time.Time              `json:"repliedAt"`
	SentAt    time.Time               `json:"sentAt"`
}

// DestinationEmailRequest creates or edits a recipient.
type DestinationEmailRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	IsActive *bool   `json:"isActive"`
}

// DestinationEmailResponse describes a recipient.
type DestinationEmailResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// GalleryRequest records an uploaded or external media item.
type GalleryRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	StorageKey  string `json:"storageKey"`
	Type        string `json:"type"`
}

// GalleryResponse describes a gallery item.
type GalleryResponse struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	URL         string          `json:"url"`
	StorageKey  *string         `json:"storageKey,omitempty"`
	Type        string          `json:"type"`
	AuthorID    int64           `json:"authorId"`
	Author      *AuthorResponse `json:"author,omitempty"`
	UploadedAt  time.Time       `json:"uploadedAt"`
}

// UploadResponse describes a stored file.
type UploadResponse struct {
	Success  bool   `json:"success"`
	URL      string `json:"url"`
	Key      string `json:"key"`
	Size     int64  `json:"size"`
	MimeType string `json:"mimetype"`
	Type     string `json:"type"`
}
