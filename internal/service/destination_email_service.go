package service

import (
	"context"
	"strings"

	"github.com/spec-kit/school-portal/internal/domain"
	"github.com/spec-kit/school-portal/internal/repository"
	apperrors "github.com/spec-kit/school-portal/pkg/util"
)

// DestinationEmailService manages who is notified about contact messages.
type DestinationEmailService struct {
	emails repository.DestinationEmailRepository
}

// DestinationEmailInput creates a recipient. IsActive defaults to true.
type DestinationEmailInput struct {
	Name     string
	Email    string
	IsActive *bool
}

// DestinationEmailUpdate edits a recipient. Nil fields are kept.
type DestinationEmailUpdate struct {
	Name     *string
	Email    *string
	IsActive *bool
}

// NewDestinationEmailService builds the service.
func NewDestinationEmailService(emails repository.DestinationEmailRepository) *DestinationEmailService {
	return &DestinationEmailService{emails: emails}
}

// List returns recipients, optionally only active ones.
func (s *DestinationEmailService) List(ctx context.Context, activeOnly bool) ([]domain.DestinationEmail, error) {
	emails, err := s.emails.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	if emails == nil {
		emails = []domain.DestinationEmail{}
	}
	return emails, nil
}

// Get returns one recipient.
func (s *DestinationEmailService) Get(ctx context.Context, id int64) (*domain.DestinationEmail, error) {
	dest, err := s.emails.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "destination email")
	}
	return dest, nil
}

// Create adds a recipient. A duplicate address is a conflict.
func (s *DestinationEmailService) Create(ctx context.Context, in DestinationEmailInput) (*domain.DestinationEmail, error) {
	dest := &domain.DestinationEmail{
		Name:     strings.TrimSpace(in.Name),
		Email:    normalizeEmail(in.Email),
		IsActive: true,
	}
	if in.IsActive != nil {
		dest.IsActive = *in.IsActive
	}
	if err := s.validate(ctx, dest); err != nil {
		return nil, err
	}
	if err := s.emails.Create(ctx, dest); err != nil {
		return nil, apperrors.MapError(err)
	}
	return dest, nil
}

// Update edits a recipient.
func (s *DestinationEmailService) Update(ctx context.Context, id int64, in DestinationEmailUpdate) (*domain.DestinationEmail, error) {
	dest, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		dest.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		dest.Email = normalizeEmail(*in.Email)
	}
	if in.IsActive != nil {
		dest.IsActive = *in.IsActive
	}
	if err := s.validate(ctx, dest); err != nil {
		return nil, err
	}
	if err := s.emails.Update(ctx, dest); err != nil {
		return nil, apperrors.MapError(notFound(err, "destination email"))
	}
	return dest, nil
}

// Delete removes a recipient.
func (s *DestinationEmailService) Delete(ctx context.Context, id int64) error {
	return notFound(s.emails.Delete(ctx, id), "destination email")
}

func (s *DestinationEmailService) validate(ctx context.Context, dest *domain.DestinationEmail) error {
	if dest.Name == "" || dest.Email == "" {
		return apperrors.NewValidationError("name and email are required", nil)
	}
	if !validEmail(dest.Email) {
		return apperrors.NewValidationError("invalid email format", map[string]any{"email": dest.Email})
	}
	taken, err := s.emails.EmailTaken(ctx, dest.Email, dest.ID)
	if err != nil {
		return err
	}
	if taken {
		return apperrors.NewConflict("email is already registered", map[string]any{"email": dest.Email})
	}
	return nil
}
