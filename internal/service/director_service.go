package service

import (
	"context"
	"strings"

	"github.com/spec-kit/school-portal/internal/domain"
	"github.com/spec-kit/school-portal/internal/repository"
	apperrors "github.com/spec-kit/school-portal/pkg/util"
)

// DirectorService manages the leadership roster.
type DirectorService struct {
	directors repository.DirectorRepository
}

// DirectorInput creates a director.
type DirectorInput struct {
	FullName    string
	Position    string
	Photo       string
	Description string
	Status      domain.DirectorStatus
}

// DirectorUpdate edits a director. Nil fields are kept.
type DirectorUpdate struct {
	FullName    *string
	Position    *string
	Photo       *string
	Description *string
	Status      *domain.DirectorStatus
}

// NewDirectorService builds the service.
func NewDirectorService(directors repository.DirectorRepository) *DirectorService {
	return &DirectorService{directors: directors}
}

// List returns directors, optionally filtered by status.
func (s *DirectorService) List(ctx context.Context, status *domain.DirectorStatus) ([]domain.Director, error) {
	if status != nil && !validDirectorStatus(*status) {
		return nil, apperrors.NewValidationError("status must be active or inactive", nil)
	}
	directors, err := s.directors.List(ctx, status)
	if err != nil {
		return nil, err
	}
	if directors == nil {
		directors = []domain.Director{}
	}
	return directors, nil
}

// Get returns a single director.
func (s *DirectorService) Get(ctx context.Context, id int64) (*domain.Director, error) {
	director, err := s.directors.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "director")
	}
	return director, nil
}

// Create adds a director. Status defaults to active.
func (s *DirectorService) Create(ctx context.Context, in DirectorInput) (*domain.Director, error) {
	if in.Status == "" {
		in.Status = domain.DirectorStatusActive
	}
	director := &domain.Director{
		FullName:    strings.TrimSpace(in.FullName),
		Position:    strings.TrimSpace(in.Position),
		Photo:       strings.TrimSpace(in.Photo),
		Description: strings.TrimSpace(in.Description),
		Status:      in.Status,
	}
	if err := validateDirector(director); err != nil {
		return nil, err
	}
	if err := s.directors.Create(ctx, director); err != nil {
		return nil, apperrors.MapError(err)
	}
	return director, nil
}

// Update edits a director.
func (s *DirectorService) Update(ctx context.Context, id int64, in DirectorUpdate) (*domain.Director, error) {
	director, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.FullName != nil {
		director.FullName = strings.TrimSpace(*in.FullName)
	}
	if in.Position != nil {
		director.Position = strings.TrimSpace(*in.Position)
	}
	if in.Photo != nil {
		director.Photo = strings.TrimSpace(*in.Photo)
	}
	if in.Description != nil {
		director.Description = strings.TrimSpace(*in.Description)
	}
	if in.Status != nil {
		director.Status = *in.Status
	}
	if err := validateDirector(director); err != nil {
		return nil, err
	}
	if err := s.directors.Update(ctx, director); err != nil {
		return nil, notFound(err, "director")
	}
	return director, nil
}

// Delete removes a director.
func (s *DirectorService) Delete(ctx context.Context, id int64) error {
	return notFound(s.directors.Delete(ctx, id), "director")
}

func validateDirector(d *domain.Director) error {
	var v fieldErrors
	v.minLength("fullName", d.FullName, 2)
	v.optionalURL("photo", d.Photo)
	if !validDirectorStatus(d.Status) {
		v.add("status", "status must be active or inactive")
	}
	return v.err()
}

func validDirectorStatus(s domain.DirectorStatus) bool {
	return s == domain.DirectorStatusActive || s == domain.DirectorStatusInactive
}
