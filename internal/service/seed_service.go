package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	apperrors "github.com/spec-kit/school-portal/pkg/util"
)

// SeedService loads reference data into an empty database. Every step is
// idempotent.
type SeedService struct {
	roles   *RoleService
	tags    *TagService
	contact *ContactService
	auth    *AuthService
	logger  *zap.Logger
}

// NewSeedService builds the service.
func NewSeedService(roles *RoleService, tags *TagService, contact *ContactService, authSvc *AuthService, logger *zap.Logger) *SeedService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SeedService{roles: roles, tags: tags, contact: contact, auth: authSvc, logger: logger}
}

// Run seeds roles, tags and contact subjects, then the administrator when
// admin is non-nil. An existing administrator is left untouched.
func (s *SeedService) Run(ctx context.Context, admin *RegisterInput) error {
	if err := s.roles.EnsureDefaults(ctx); err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}
	if err := s.tags.EnsureDefaults(ctx); err != nil {
		return fmt.Errorf("seed tags: %w", err)
	}
	if err := s.contact.EnsureDefaultSubjects(ctx); err != nil {
		return fmt.Errorf("seed contact subjects: %w", err)
	}
	s.logger.Info("reference data seeded",
		zap.Int("roles", len(DefaultRoles)),
		zap.Int("tags", len(DefaultTags)),
		zap.Int("contact_subjects", len(DefaultContactSubjects)))

	if admin == nil {
		return nil
	}
	user, err := s.auth.CreateAdministrator(ctx, *admin)
	if err != nil {
		var de *apperrors.DomainError
		if errors.As(err, &de) && de.Code == "CONFLICT" {
			s.logger.Info("administrator already exists", zap.String("email", admin.Email))
			return nil
		}
		return fmt.Errorf("seed administrator: %w", err)
	}
	s.logger.Info("administrator created", zap.Int64("user_id", user.ID), zap.String("email", user.Email))
	return nil
}
