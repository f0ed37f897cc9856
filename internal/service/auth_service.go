package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/school-portal/internal/auth"
	"github.com/spec-kit/school-portal/internal/domain"
	"github.com/spec-kit/school-portal/internal/events"
	"github.com/spec-kit/school-portal/internal/repository"
	apperrors "github.com/spec-kit/school-portal/pkg/util"
)

// TokenRevoker invalidates issued tokens before they expire.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	RevokeUser(ctx context.Context, userID int64, at time.Time) error
}

// RoleLookup resolves roles by name.
type RoleLookup interface {
	GetByName(ctx context.Context, name string) (*domain.Role, error)
}

// AuthService coordinates registration, login and logout.
type AuthService struct {
	users      repository.UserRepository
	roles      RoleLookup
	tokens     *auth.TokenManager
	revoker    TokenRevoker
	dispatcher events.Dispatcher
	bcryptCost int
	logger     *zap.Logger
	now        func() time.Time
	verify     func(plain, hashed string) bool
	// dummyHash is compared on unknown emails so the miss costs one bcrypt
	// round like a real account.
	dummyHash string
}

// AuthDependencies encapsulates collaborators for the auth service.
// Revoker and Dispatcher are optional.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Roles      RoleLookup
	Tokens     *auth.TokenManager
	Revoker    TokenRevoker
	Dispatcher events.Dispatcher
	BcryptCost int
	Logger     *zap.Logger
}

// AuthResult is a signed session for a user.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// RegisterInput describes a self-service signup.
type RegisterInput struct {
	Email    string
	Username string
	FullName string
	Password string
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	dummyHash, err := auth.HashPassword("school-portal-login-placeholder", deps.BcryptCost)
	if err != nil {
		logger.Warn("failed to prepare login placeholder hash", zap.Error(err))
	}
	return &AuthService{
		users:      deps.UserRepo,
		roles:      deps.Roles,
		tokens:     deps.Tokens,
		revoker:    deps.Revoker,
		dispatcher: deps.Dispatcher,
		bcryptCost: deps.BcryptCost,
		logger:     logger,
		now:        time.Now,
		verify:     auth.VerifyPassword,
		dummyHash:  dummyHash,
	}
}

// Login checks credentials and issues a token. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, apperrors.NewValidationError("email and password are required", nil)
	}

	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.verify(password, s.dummyHash)
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, err
	}
	if !s.verify(password, user.PasswordHash) {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	if !user.IsActive {
		return nil, apperrors.NewForbidden("account is deactivated")
	}

	now := s.now()
	if err := s.users.TouchLastConnection(ctx, user.ID, now); err != nil {
		return nil, err
	}
	user.LastConnection = &now

	return s.issue(user)
}

// Register creates a User-role account and signs it in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Email = normalizeEmail(in.Email)
	in.Username = strings.TrimSpace(in.Username)
	in.FullName = strings.TrimSpace(in.FullName)

	var v fieldErrors
	v.email("email", in.Email)
	v.minLength("username", in.Username, 3)
	v.minLength("fullName", in.FullName, 2)
	v.minLength("password", in.Password, 6)
	if err := v.err(); err != nil {
		return nil, err
	}

	user, err := s.createUser(ctx, in, domain.RoleUser)
	if err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.NewEvent(events.EventUserRegistered, events.UserRegisteredPayload{
			UserID:   user.ID,
			Email:    user.Email,
			FullName: user.FullName,
		}))
	}
	return s.issue(user)
}

// CreateAdministrator provisions an administrator account. It backs the
// create-admin and seed commands.
func (s *AuthService) CreateAdministrator(ctx context.Context, in RegisterInput) (*domain.User, error) {
	in.Email = normalizeEmail(in.Email)
	in.Username = strings.TrimSpace(in.Username)
	in.FullName = strings.TrimSpace(in.FullName)

	var v fieldErrors
	v.email("email", in.Email)
	v.minLength("username", in.Username, 3)
	v.minLength("fullName", in.FullName, 2)
	v.minLength("password", in.Password, 8)
	if err := v.err(); err != nil {
		return nil, err
	}
	return s.createUser(ctx, in, domain.RoleAdministrator)
}

// Logout revokes the caller's current token. Without a revocation store the
// token stays valid until it expires.
func (s *AuthService) Logout(ctx context.Context, identity *domain.Identity) error {
	if identity.IsZero() {
		return apperrors.NewUnauthorized("unauthorized")
	}
	if s.revoker == nil {
		s.logger.Debug("logout without revocation store", zap.Int64("user_id", identity.UserID))
		return nil
	}
	if err := s.revoker.Revoke(ctx, identity.TokenID, identity.ExpiresAt); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

// Me loads the caller's profile.
func (s *AuthService) Me(ctx context.Context, identity *domain.Identity) (*domain.User, error) {
	if identity.IsZero() {
		return nil, apperrors.NewUnauthorized("unauthorized")
	}
	user, err := s.users.GetByID(ctx, identity.UserID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return user, nil
}

func (s *AuthService) createUser(ctx context.Context, in RegisterInput, roleName string) (*domain.User, error) {
	exists, err := s.users.ExistsByEmailOrUsername(ctx, in.Email, in.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewConflict("email or username already registered", nil)
	}

	role, err := s.roles.GetByName(ctx, roleName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewInternalError(errors.New("role " + roleName + " is not seeded"))
		}
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, apperrors.NewValidationError("password must be at most 72 bytes", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}

	roleID, name := role.ID, role.Name
	user := &domain.User{
		Email:        in.Email,
		Username:     in.Username,
		FullName:     in.FullName,
		PasswordHash: hash,
		RoleID:       &roleID,
		RoleName:     &name,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

func (s *AuthService) issue(user *domain.User) (*AuthResult, error) {
	token, exp, err := s.tokens.GenerateToken(auth.SessionClaims{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
		RoleID:   user.RoleID,
		RoleName: user.RoleName,
	})
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &AuthResult{Token: token, ExpiresAt: exp, User: user}, nil
}
