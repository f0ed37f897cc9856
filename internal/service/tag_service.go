package service

import (
	"context"
	"strings"

	"github.com/spec-kit/school-portal/internal/domain"
	"github.com/spec-kit/school-portal/internal/repository"
	apperrors "github.com/spec-kit/school-portal/pkg/util"
)

// DefaultTags are created by the seed command.
var DefaultTags = []domain.Tag{
	{Name: "News", Slug: "news", Description: "School news"},
	{Name: "Events", Slug: "events", Description: "Upcoming and past events"},
	{Name: "Academics", Slug: "academics", Description: "Academic life"},
	{Name: "Sports", Slug: "sports", Description: "Sports and competitions"},
	{Name: "Culture", Slug: "culture", Description: "Arts and culture"},
}

// TagService manages publication tags.
type TagService struct {
	tags repository.TagRepository
}

// TagInput creates a tag.
type TagInput struct {
	Name        string
	Slug        string
	Description string
}

// TagUpdate edits a tag. Nil fields are kept.
type TagUpdate struct {
	Name        *string
	Slug        *string
	Description *string
}

// NewTagService builds the service.
func NewTagService(tags repository.TagRepository) *TagService {
	return &TagService{tags: tags}
}

// List returns all tags ordered by name.
func (s *TagService) List(ctx context.Context) ([]domain.Tag, error) {
	tags, err := s.tags.List(ctx)
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []domain.Tag{}
	}
	return tags, nil
}

// Get returns a single tag.
func (s *TagService) Get(ctx context.Context, id int64) (*domain.Tag, error) {
	tag, err := s.tags.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "tag")
	}
	return tag, nil
}

// Create stores a tag. Duplicate names or slugs yield a conflict.
func (s *TagService) Create(ctx context.Context, in TagInput) (*domain.Tag, error) {
	tag := &domain.Tag{
		Name:        strings.TrimSpace(in.Name),
		Slug:        strings.TrimSpace(in.Slug),
		Description: strings.TrimSpace(in.Description),
	}
	if err := validateTag(tag); err != nil {
		return nil, err
	}
	if err := s.tags.Create(ctx, tag); err != nil {
		return nil, apperrors.MapError(err)
	}
	return tag, nil
}

// Update edits a tag.
func (s *TagService) Update(ctx context.Context, id int64, in TagUpdate) (*domain.Tag, error) {
	tag, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		tag.Name = strings.TrimSpace(*in.Name)
	}
	if in.Slug != nil {
		tag.Slug = strings.TrimSpace(*in.Slug)
	}
	if in.Description != nil {
		tag.Description = strings.TrimSpace(*in.Description)
	}
	if err := validateTag(tag); err != nil {
		return nil, err
	}
	if err := s.tags.Update(ctx, tag); err != nil {
		return nil, apperrors.MapError(notFound(err, "tag"))
	}
	return tag, nil
}

// Delete removes a tag and detaches it from publications.
func (s *TagService) Delete(ctx context.Context, id int64) error {
	return notFound(s.tags.Delete(ctx, id), "tag")
}

// EnsureDefaults creates the built-in tags when missing.
func (s *TagService) EnsureDefaults(ctx context.Context) error {
	for _, tag := range DefaultTags {
		tag := tag
		if err := s.tags.Ensure(ctx, &tag); err != nil {
			return err
		}
	}
	return nil
}

func validateTag(tag *domain.Tag) error {
	var v fieldErrors
	v.minLength("name", tag.Name, 2)
	v.minLength("slug", tag.Slug, 2)
	return v.err()
}
