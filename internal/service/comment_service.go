package service

import (
	"context"
	"strings"

	"github.com/spec-kit/school-portal/internal/auth"
	"github.com/spec-kit/school-portal/internal/domain"
	"github.com/spec-kit/school-portal/internal/repository"
	apperrors "github.com/spec-kit/school-portal/pkg/util"
)

// CommentService handles visitor comments, moderation and reactions.
type CommentService struct {
	comments     repository.CommentRepository
	publications repository.PublicationRepository
	policy       auth.RolePolicy
}

// CommentInput is a new comment.
type CommentInput struct {
	PublicationID int64
	Name          string
	Message       string
}

// CommentUpdate moderates or edits a comment. Nil fields are kept.
type CommentUpdate struct {
	Message    *string
	IsApproved *bool
}

// NewCommentService builds the service.
func NewCommentService(comments repository.CommentRepository, publications repository.PublicationRepository, policy auth.RolePolicy) *CommentService {
	return &CommentService{comments: comments, publications: publications, policy: policy}
}

// List returns comments. Callers below Editor only ever see approved ones;
// editors may filter on approval or see everything.
func (s *CommentService) List(ctx context.Context, caller *domain.Identity, filter repository.CommentFilter) ([]domain.Comment, error) {
	if caller.IsZero() || !s.policy.CanEdit(caller.RoleName) {
		approved := true
		filter.IsApproved = &approved
	}
	comments, err := s.comments.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []domain.Comment{}
	}
	return comments, nil
}

// Create stores an unapproved comment.
func (s *CommentService) Create(ctx context.Context, in CommentInput) (*domain.Comment, error) {
	comment := &domain.Comment{
		PublicationID: in.PublicationID,
		Name:          strings.TrimSpace(in.Name),
		Message:       strings.TrimSpace(in.Message),
	}

	var v fieldErrors
	if comment.PublicationID <= 0 {
		v.add("publicationId", "publicationId must be a positive integer")
	}
	v.minLength("content", comment.Message, 3)
	if err := v.err(); err != nil {
		return nil, err
	}

	if _, err := s.publications.GetByID(ctx, comment.PublicationID); err != nil {
		return nil, notFound(err, "publication")
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}
	return comment, nil
}

// Update approves, hides or edits a comment.
func (s *CommentService) Update(ctx context.Context, id int64, in CommentUpdate) (*domain.Comment, error) {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "comment")
	}
	if in.Message != nil {
		comment.Message = strings.TrimSpace(*in.Message)
		var v fieldErrors
		v.minLength("content", comment.Message, 3)
		if err := v.err(); err != nil {
			return nil, err
		}
	}
	if in.IsApproved != nil {
		comment.IsApproved = *in.IsApproved
	}
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, notFound(err, "comment")
	}
	return comment, nil
}

// Delete removes a comment and its reactions.
func (s *CommentService) Delete(ctx context.Context, id int64) error {
	return notFound(s.comments.Delete(ctx, id), "comment")
}

// React records a like or dislike on a comment.
func (s *CommentService) React(ctx context.Context, commentID int64, reactionType domain.ReactionType) (*domain.Reaction, error) {
	var v fieldErrors
	if commentID <= 0 {
		v.add("commentId", "commentId must be a positive integer")
	}
	if !reactionType.Valid() {
		v.add("type", "type must be like or dislike")
	}
	if err := v.err(); err != nil {
		return nil, err
	}

	if _, err := s.comments.GetByID(ctx, commentID); err != nil {
		return nil, notFound(err, "comment")
	}
	reaction := &domain.Reaction{CommentID: commentID, Type: reactionType}
	if err := s.comments.AddReaction(ctx, reaction); err != nil {
		return nil, apperrors.MapError(err)
	}
	return reaction, nil
}
