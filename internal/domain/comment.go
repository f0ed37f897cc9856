package domain

import "time"

// ReactionType enumerates visitor reactions to a comment.
type ReactionType string

const (
	ReactionLike    ReactionType = "like"
	ReactionDislike ReactionType = "dislike"
)

// Valid reports whether r is a supported reaction.
func (r ReactionType) Valid() bool {
	return r == ReactionLike || r == ReactionDislike
}

// Comment is a visitor message attached to a publication.
// Comments start unapproved and become public after moderation.
type Comment struct {
	ID               int64
	PublicationID    int64
	PublicationTitle string
	Name             string
	Message          string
	IsApproved       bool
	Reactions        []Reaction
	CreatedAt        time.Time
}

// Reaction is a like or dislike on a comment.
type Reaction struct {
	ID        int64
	CommentID int64
	Type      ReactionType
	CreatedAt time.Time
}
