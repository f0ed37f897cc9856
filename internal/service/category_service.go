package service

import (
	"context"
	"strings"

	"github.com/spec-kit/school-portal/internal/domain"
	"github.com/spec-kit/school-portal/internal/repository"
	apperrors "github.com/spec-kit/school-portal/pkg/util"
)

// CategoryService manages publication categories.
type CategoryService struct {
	categories repository.CategoryRepository
}

// CategoryInput creates a category.
type CategoryInput struct {
	Name        string
	Slug        string
	Description string
	Color       string
	Order       int
}

// NewCategoryService builds the service.
func NewCategoryService(categories repository.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

// List returns all categories in display order with their publication counts.
func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	return categories, nil
}

// Create stores a category. Duplicate names or slugs yield a conflict.
func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*domain.Category, error) {
	category := &domain.Category{
		Name:        strings.TrimSpace(in.Name),
		Slug:        strings.TrimSpace(in.Slug),
		Description: strings.TrimSpace(in.Description),
		Color:       strings.TrimSpace(in.Color),
		Order:       in.Order,
	}

	var v fieldErrors
	v.minLength("name", category.Name, 2)
	v.minLength("slug", category.Slug, 2)
	if category.Slug != "" && !slugPattern.MatchString(category.Slug) {
		v.add("slug", "slug may only contain lowercase letters, digits and hyphens")
	}
	if category.Order < 0 {
		v.add("order", "order must not be negative")
	}
	if err := v.err(); err != nil {
		return nil, err
	}

	if err := s.categories.Create(ctx, category); err != nil {
		return nil, apperrors.MapError(err)
	}
	return category, nil
}
