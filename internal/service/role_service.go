package service

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/spec-kit/school-portal/internal/domain"
	"github.com/spec-kit/school-portal/internal/repository"
)

const roleCacheSize = 32

// DefaultRoles is the reference data created by the seed command.
var DefaultRoles = []domain.Role{
	{Name: domain.RoleAdministrator, Description: "Full system access"},
	{Name: domain.RoleEditor, Description: "Can create and edit publications"},
	{Name: domain.RoleUser, Description: "Basic portal user"},
}

// RoleService serves role reference data. Lookups by name are cached since
// roles only change when the seed runs.
type RoleService struct {
	roles  repository.RoleRepository
	byName *expirable.LRU[string, domain.Role]
}

// NewRoleService builds the service. A non-positive ttl disables caching.
func NewRoleService(roles repository.RoleRepository, ttl time.Duration) *RoleService {
	s := &RoleService{roles: roles}
	if ttl > 0 {
		s.byName = expirable.NewLRU[string, domain.Role](roleCacheSize, nil, ttl)
	}
	return s
}

// List returns all roles with their user counts.
func (s *RoleService) List(ctx context.Context) ([]domain.Role, error) {
	return s.roles.List(ctx)
}

// GetByID returns a single role.
func (s *RoleService) GetByID(ctx context.Context, id int64) (*domain.Role, error) {
	return s.roles.GetByID(ctx, id)
}

// GetByName resolves a role by name.
func (s *RoleService) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	if s.byName != nil {
		if role, ok := s.byName.Get(name); ok {
			return &role, nil
		}
	}
	role, err := s.roles.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if s.byName != nil {
		s.byName.Add(name, *role)
	}
	return role, nil
}

// EnsureDefaults upserts the built-in roles and clears the cache.
func (s *RoleService) EnsureDefaults(ctx context.Context) error {
	for _, role := range DefaultRoles {
		role := role
		if err := s.roles.Upsert(ctx, &role); err != nil {
			return err
		}
	}
	if s.byName != nil {
		s.byName.Purge()
	}
	return nil
}
