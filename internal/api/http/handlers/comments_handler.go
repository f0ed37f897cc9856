package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/school-portal/internal/api/dto"
	"github.com/spec-kit/school-portal/internal/domain"
	"github.com/spec-kit/school-portal/internal/repository"
	"github.com/spec-kit/school-portal/internal/service"
)

// CommentService is what CommentsHandler needs.
type CommentService interface {
	List(ctx context.Context, caller *domain.Identity, filter repository.CommentFilter) ([]domain.Comment, error)
	Create(ctx context.Context, in service.CommentInput) (*domain.Comment, error)
	Update(ctx context.Context, id int64, in service.CommentUpdate) (*domain.Comment, error)
	Delete(ctx context.Context, id int64) error
	React(ctx context.Context, commentID int64, reactionType domain.ReactionType) (*domain.Reaction, error)
}

// CommentsHandler exposes comment and reaction endpoints.
type CommentsHandler struct {
	comments CommentService
}

// NewCommentsHandler constructs handler.
func NewCommentsHandler(comments CommentService) *CommentsHandler {
	return &CommentsHandler{comments: comments}
}

// List handles GET /api/comments.
func (h *CommentsHandler) List(c *fiber.Ctx) error {
	publicationID, err := parseOptionalInt64Query(c, "publicationId")
	if err != nil {
		return err
	}
	approved, err := parseOptionalBoolQuery(c, "isApproved")
	if err != nil {
		return err
	}
	comments, err := h.comments.List(c.UserContext(), identity(c), repository.CommentFilter{
		PublicationID: publicationID,
		IsApproved:    approved,
	})
	if err != nil {
		return err
	}
	items := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		items = append(items, commentResponse(&comments[i]))
	}
	return c.JSON(fiber.Map{"comments": items})
}

// Create handles POST /api/comments.
func (h *CommentsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateCommentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	comment, err := h.comments.Create(c.UserContext(), service.CommentInput{
		PublicationID: req.PublicationID,
		Name:          req.Name,
		Message:       req.Text(),
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(commentResponse(comment))
}

// Update handles PUT /api/comments/:id.
func (h *CommentsHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateCommentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	comment, err := h.comments.Update(c.UserContext(), id, service.CommentUpdate{
		Message:    req.Content,
		IsApproved: req.IsApproved,
	})
	if err != nil {
		return err
	}
	return c.JSON(commentResponse(comment))
}

// Delete handles DELETE /api/comments/:id.
func (h *CommentsHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.comments.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return deleted(c, "comment")
}

// React handles POST /api/reactions.
func (h *CommentsHandler) React(c *fiber.Ctx) error {
	var req dto.ReactionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	reaction, err := h.comments.React(c.UserContext(), req.CommentID, domain.ReactionType(req.Type))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(reactionResponse(reaction))
}
