package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/school-portal/internal/auth"
	"github.com/spec-kit/school-portal/internal/domain"
	"github.com/spec-kit/school-portal/internal/repository"
	apperrors "github.com/spec-kit/school-portal/pkg/util"
)

// PublicationService implements the editorial workflow.
type PublicationService struct {
	publications repository.PublicationRepository
	comments     repository.CommentRepository
	policy       auth.RolePolicy
	logger       *zap.Logger
}

// PublicationDependencies bundles repositories for the publication service.
type PublicationDependencies struct {
	PublicationRepo repository.PublicationRepository
	CommentRepo     repository.CommentRepository
	Policy          auth.RolePolicy
	Logger          *zap.Logger
}

// PublicationInput is the payload for creating a publication.
type PublicationInput struct {
	Title       string
	Slug        string
	Description string
	Content     string
	MainImage   string
	Status      domain.PublicationStatus
	CategoryID  *int64
	TagIDs      []int64
}

// PublicationUpdate changes a publication. Nil fields are kept; a nil TagIDs
// keeps the tags and an empty one clears them. A zero CategoryID detaches the
// category.
type PublicationUpdate struct {
	Title       *string
	Slug        *string
	Description *string
	Content     *string
	MainImage   *string
	Status      *domain.PublicationStatus
	CategoryID  *int64
	TagIDs      []int64
}

// VisitInfo identifies the reader of a publication.
type VisitInfo struct {
	IPAddress string
	UserAgent string
}

// PublicationDetail is a publication with its approved comments.
type PublicationDetail struct {
	domain.Publication
	Comments []domain.Comment
}

// Pagination describes a page of a listing.
type Pagination struct {
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// NewPublicationService builds the service.
func NewPublicationService(deps PublicationDependencies) *PublicationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PublicationService{
		publications: deps.PublicationRepo,
		comments:     deps.CommentRepo,
		policy:       deps.Policy,
		logger:       logger,
	}
}

// List returns a filtered page of publications, newest first.
func (s *PublicationService) List(ctx context.Context, filter repository.PublicationFilter) ([]domain.Publication, Pagination, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, Pagination{}, apperrors.NewValidationError("invalid status filter", map[string]any{"status": *filter.Status})
	}
	filter.Page = filter.Page.Normalize()
	filter.Search = strings.TrimSpace(filter.Search)

	publications, total, err := s.publications.List(ctx, filter)
	if err != nil {
		return nil, Pagination{}, err
	}
	if publications == nil {
		publications = []domain.Publication{}
	}
	return publications, newPagination(total, filter.Page), nil
}

// Get loads a publication by id and records the visit.
func (s *PublicationService) Get(ctx context.Context, id int64, visit VisitInfo) (*PublicationDetail, error) {
	publication, err := s.publications.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "publication")
	}
	return s.detail(ctx, publication, visit)
}

// GetBySlug loads a publication by slug and records the visit.
func (s *PublicationService) GetBySlug(ctx context.Context, slug string, visit VisitInfo) (*PublicationDetail, error) {
	publication, err := s.publications.GetBySlug(ctx, slug)
	if err != nil {
		return nil, notFound(err, "publication")
	}
	return s.detail(ctx, publication, visit)
}

// Create stores a publication authored by the caller.
func (s *PublicationService) Create(ctx context.Context, author *domain.Identity, in PublicationInput) (*domain.Publication, error) {
	if author.IsZero() {
		return nil, apperrors.NewUnauthorized("unauthorized")
	}
	if in.Status == "" {
		in.Status = domain.PublicationStatusDraft
	}
	publication := &domain.Publication{
		Title:       strings.TrimSpace(in.Title),
		Slug:        strings.TrimSpace(in.Slug),
		Description: strings.TrimSpace(in.Description),
		Content:     in.Content,
		MainImage:   strings.TrimSpace(in.MainImage),
		Status:      in.Status,
		AuthorID:    author.UserID,
		CategoryID:  categoryRef(in.CategoryID),
	}
	if err := validatePublication(publication); err != nil {
		return nil, err
	}
	tagIDs := in.TagIDs
	if tagIDs == nil {
		tagIDs = []int64{}
	}
	if err := s.publications.Create(ctx, publication, tagIDs); err != nil {
		return nil, apperrors.MapError(err)
	}
	return s.reload(ctx, publication.ID)
}

// Update edits a publication. Only its author or an administrator may do so;
// a missing publication is reported before the ownership check.
func (s *PublicationService) Update(ctx context.Context, caller *domain.Identity, id int64, in PublicationUpdate) (*domain.Publication, error) {
	publication, err := s.owned(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		publication.Title = strings.TrimSpace(*in.Title)
	}
	if in.Slug != nil {
		publication.Slug = strings.TrimSpace(*in.Slug)
	}
	if in.Description != nil {
		publication.Description = strings.TrimSpace(*in.Description)
	}
	if in.Content != nil {
		publication.Content = *in.Content
	}
	if in.MainImage != nil {
		publication.MainImage = strings.TrimSpace(*in.MainImage)
	}
	if in.Status != nil {
		publication.Status = *in.Status
	}
	if in.CategoryID != nil {
		publication.CategoryID = categoryRef(in.CategoryID)
	}
	if err := validatePublication(publication); err != nil {
		return nil, err
	}

	if err := s.publications.Update(ctx, publication, in.TagIDs); err != nil {
		return nil, apperrors.MapError(notFound(err, "publication"))
	}
	return s.reload(ctx, id)
}

// Delete removes a publication under the same rules as Update.
func (s *PublicationService) Delete(ctx context.Context, caller *domain.Identity, id int64) error {
	if _, err := s.owned(ctx, caller, id); err != nil {
		return err
	}
	return notFound(s.publications.Delete(ctx, id), "publication")
}

func (s *PublicationService) owned(ctx context.Context, caller *domain.Identity, id int64) (*domain.Publication, error) {
	if caller.IsZero() {
		return nil, apperrors.NewUnauthorized("unauthorized")
	}
	publication, err := s.publications.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "publication")
	}
	if publication.AuthorID != caller.UserID && !s.policy.IsAdmin(caller.RoleName) {
		return nil, apperrors.NewForbidden("only the author or an administrator can modify this publication")
	}
	return publication, nil
}

func (s *PublicationService) detail(ctx context.Context, publication *domain.Publication, visit VisitInfo) (*PublicationDetail, error) {
	approved := true
	comments, err := s.comments.List(ctx, repository.CommentFilter{PublicationID: &publication.ID, IsApproved: &approved})
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []domain.Comment{}
	}

	if err := s.publications.RecordVisit(ctx, &domain.Visit{
		PublicationID: publication.ID,
		IPAddress:     orUnknown(visit.IPAddress),
		UserAgent:     orUnknown(visit.UserAgent),
	}); err != nil {
		s.logger.Warn("record visit", zap.Int64("publication_id", publication.ID), zap.Error(err))
	} else {
		publication.VisitCount++
	}

	return &PublicationDetail{Publication: *publication, Comments: comments}, nil
}

func (s *PublicationService) reload(ctx context.Context, id int64) (*domain.Publication, error) {
	publication, err := s.publications.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "publication")
	}
	return publication, nil
}

func validatePublication(p *domain.Publication) error {
	var v fieldErrors
	v.minLength("title", p.Title, 3)
	v.minLength("slug", p.Slug, 3)
	if p.Slug != "" && !slugPattern.MatchString(p.Slug) {
		v.add("slug", "slug may only contain lowercase letters, digits and hyphens")
	}
	v.minLength("content", p.Content, 10)
	v.optionalURL("mainImage", p.MainImage)
	if !p.Status.Valid() {
		v.add("status", "status must be draft, published or archived")
	}
	if p.CategoryID != nil && *p.CategoryID < 0 {
		v.add("categoryId", "categoryId must be positive")
	}
	return v.err()
}

func newPagination(total int64, page repository.Page) Pagination {
	totalPages := 0
	if page.Size > 0 {
		totalPages = int((total + int64(page.Size) - 1) / int64(page.Size))
	}
	return Pagination{Total: total, Page: page.Number, Limit: page.Size, TotalPages: totalPages}
}

// categoryRef treats a zero id as no category.
func categoryRef(id *int64) *int64 {
	if id == nil || *id == 0 {
		return nil
	}
	return id
}

func orUnknown(value string) string {
	if strings.TrimSpace(value) == "" {
		return "unknown"
	}
	return value
}
