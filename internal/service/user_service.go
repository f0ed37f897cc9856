package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/school-portal/internal/domain"
	"github.com/spec-kit/school-portal/internal/repository"
	apperrors "github.com/spec-kit/school-portal/pkg/util"
)

// UserService backs the administrator's user management screens.
type UserService struct {
	users   repository.UserRepository
	roles   repository.RoleRepository
	revoker TokenRevoker
	logger  *zap.Logger
	now     func() time.Time
}

// UpdateAccessInput changes a user's role or active flag. Nil fields are kept.
type UpdateAccessInput struct {
	RoleID   *int64
	IsActive *bool
}

// NewUserService builds the service. revoker may be nil.
func NewUserService(users repository.UserRepository, roles repository.RoleRepository, revoker TokenRevoker, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{users: users, roles: roles, revoker: revoker, logger: logger, now: time.Now}
}

// List returns every user with their role, newest first.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// UpdateAccess applies the change and revokes the user's outstanding tokens
// so the new role or deactivation takes effect immediately.
func (s *UserService) UpdateAccess(ctx context.Context, id int64, in UpdateAccessInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "user")
	}

	roleID := user.RoleID
	if in.RoleID != nil {
		if _, err := s.roles.GetByID(ctx, *in.RoleID); err != nil {
			if apperrors.IsNotFound(err) {
				return nil, apperrors.NewValidationError("role does not exist", map[string]any{"roleId": *in.RoleID})
			}
			return nil, err
		}
		roleID = in.RoleID
	}
	isActive := user.IsActive
	if in.IsActive != nil {
		isActive = *in.IsActive
	}

	if err := s.users.UpdateAccess(ctx, id, roleID, isActive); err != nil {
		return nil, notFound(err, "user")
	}

	if s.revoker != nil {
		if err := s.revoker.RevokeUser(ctx, id, s.now()); err != nil {
			s.logger.Error("revoke user tokens", zap.Int64("user_id", id), zap.Error(err))
			return nil, apperrors.NewInternalError(err)
		}
	}

	updated, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return updated, nil
}
