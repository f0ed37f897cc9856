package domain

import "time"

// DirectorStatus marks whether a director is shown on the roster.
type DirectorStatus string

const (
	DirectorStatusActive   DirectorStatus = "active"
	DirectorStatusInactive DirectorStatus = "inactive"
)

// Director is a member of the school's leadership roster.
type Director struct {
	ID           int64
	FullName     string
	Position     string
	Photo        string
	Description  string
	Status       DirectorStatus
	RegisteredAt time.Time
}
