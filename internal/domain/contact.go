package domain

import "time"

// ContactSubject categorizes contact messages.
type ContactSubject struct {
	ID          int64
	Name        string
	Description string
}

// ContactMessage is a message submitted through the public contact form.
type ContactMessage struct {
	ID        int64
	Name      string
	Email     string
	SubjectID *int64
	Subject   *ContactSubject
	Message   string
	IsReplied bool
	RepliedAt *time.Time
	SentAt    time.Time
}

// DestinationEmail is a recipient notified about new contact messages.
type DestinationEmail struct {
	ID        int64
	Name      string
	Email     string
	IsActive  bool
	CreatedAt time.Time
}
