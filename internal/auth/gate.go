package auth

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/school-portal/internal/domain"
	apperrors "github.com/spec-kit/school-portal/pkg/util"
)

type identityKey struct{}

// Forwarded identity headers. Client supplied values are always discarded.
const (
	HeaderUserID       = "X-User-Id"
	HeaderUserEmail    = "X-User-Email"
	HeaderUserUsername = "X-User-Username"
	HeaderUserRole     = "X-User-Role"

	identityHeaderPrefix = "x-user-"
)

// Gate outcomes reported to the observer.
const (
	OutcomePassthrough     = "passthrough"
	OutcomeAuthenticated   = "authenticated"
	OutcomeUnauthenticated = "unauthenticated"
	OutcomeForbidden       = "forbidden"
	OutcomeError           = "error"
)

// GateObserver receives one outcome per gated request.
type GateObserver interface {
	ObserveGate(outcome string)
}

// GateConfig describes which paths the gate protects.
type GateConfig struct {
	APIPrefix     string
	PagePrefixes  []string
	AdminPrefixes []string
	Public        RouteSet
	LoginPath     string
	HomePath      string
}

// DefaultGateConfig returns the portal's protected areas.
func DefaultGateConfig() GateConfig {
	return GateConfig{
		APIPrefix:     "/api",
		PagePrefixes:  []string{"/admin"},
		AdminPrefixes: []string{"/api/admin", "/api/users", "/admin"},
		Public:        DefaultPublicRoutes(),
		LoginPath:     "/login",
		HomePath:      "/",
	}
}

// Gate authenticates requests under the protected prefixes.
type Gate struct {
	cfg         GateConfig
	tokens      *TokenManager
	policy      RolePolicy
	revocations RevocationChecker
	observer    GateObserver
	logger      *zap.Logger
}

// GateDependencies groups the gate collaborators. Revocations and Observer
// are optional.
type GateDependencies struct {
	Tokens      *TokenManager
	Policy      RolePolicy
	Revocations RevocationChecker
	Observer    GateObserver
	Logger      *zap.Logger
}

// NewGate builds a request gate.
func NewGate(cfg GateConfig, deps GateDependencies) *Gate {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{
		cfg:         cfg,
		tokens:      deps.Tokens,
		policy:      deps.Policy,
		revocations: deps.Revocations,
		observer:    deps.Observer,
		logger:      logger,
	}
}

// Handle is the fiber middleware entry point.
func (g *Gate) Handle(c *fiber.Ctx) error {
	stripIdentityHeaders(c)

	path := c.Path()
	isAPI := hasPathPrefix(path, g.cfg.APIPrefix)
	isPage := !isAPI && hasAnyPathPrefix(path, g.cfg.PagePrefixes)
	if !isAPI && !isPage {
		return c.Next()
	}

	if isAPI && g.cfg.Public.Match(c.Method(), path) {
		g.attachOptional(c)
		g.observe(OutcomePassthrough)
		return c.Next()
	}

	token, ok := ExtractTokenFromHeader(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return g.reject(c, isPage, http.StatusUnauthorized, "unauthorized")
	}

	claims, err := g.tokens.VerifyToken(token)
	if err != nil {
		return g.reject(c, isPage, http.StatusUnauthorized, "invalid token")
	}

	revoked, err := g.isRevoked(c, claims)
	if err != nil {
		g.observe(OutcomeError)
		g.logger.Error("revocation check failed", zap.Error(err), zap.Int64("user_id", claims.UserID))
		return apperrors.NewInternalError(err)
	}
	if revoked {
		return g.reject(c, isPage, http.StatusUnauthorized, "invalid token")
	}

	if hasAnyPathPrefix(path, g.cfg.AdminPrefixes) && !g.policy.IsAdmin(claims.Role()) {
		return g.reject(c, isPage, http.StatusForbidden, "access denied")
	}

	attachIdentity(c, claims.Identity())
	g.observe(OutcomeAuthenticated)
	return c.Next()
}

// attachOptional binds an identity on public routes when a valid token is
// presented. Invalid tokens are ignored.
func (g *Gate) attachOptional(c *fiber.Ctx) {
	token, ok := ExtractTokenFromHeader(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return
	}
	claims, err := g.tokens.VerifyToken(token)
	if err != nil {
		return
	}
	revoked, err := g.isRevoked(c, claims)
	if err != nil || revoked {
		return
	}
	attachIdentity(c, claims.Identity())
}

func (g *Gate) isRevoked(c *fiber.Ctx, claims *Claims) (bool, error) {
	if g.revocations == nil {
		return false, nil
	}
	return g.revocations.IsRevoked(c.UserContext(), claims)
}

func (g *Gate) reject(c *fiber.Ctx, isPage bool, status int, message string) error {
	outcome := OutcomeUnauthenticated
	if status == http.StatusForbidden {
		outcome = OutcomeForbidden
	}
	g.observe(outcome)
	g.logger.Debug("gate rejected request",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", status),
	)

	if isPage {
		target := g.cfg.LoginPath
		if status == http.StatusForbidden {
			target = g.cfg.HomePath
		}
		return c.Redirect(target, http.StatusFound)
	}
	return c.Status(status).JSON(fiber.Map{"error": message})
}

func (g *Gate) observe(outcome string) {
	if g.observer != nil {
		g.observer.ObserveGate(outcome)
	}
}

// IdentityFromContext returns the identity attached by the gate.
func IdentityFromContext(c *fiber.Ctx) (*domain.Identity, bool) {
	identity, ok := c.Locals(identityKey{}).(*domain.Identity)
	if !ok || identity == nil {
		return nil, false
	}
	return identity, true
}

// WithIdentity attaches an identity to the request. Used by the gate and by
// handler tests.
func WithIdentity(c *fiber.Ctx, identity domain.Identity) {
	c.Locals(identityKey{}, &identity)
}

func attachIdentity(c *fiber.Ctx, identity domain.Identity) {
	WithIdentity(c, identity)
	headers := &c.Request().Header
	headers.Set(HeaderUserID, strconv.FormatInt(identity.UserID, 10))
	headers.Set(HeaderUserEmail, identity.Email)
	headers.Set(HeaderUserUsername, identity.Username)
	headers.Set(HeaderUserRole, identity.RoleName)
}

func stripIdentityHeaders(c *fiber.Ctx) {
	headers := &c.Request().Header
	var spoofed []string
	headers.VisitAll(func(key, _ []byte) {
		if strings.HasPrefix(strings.ToLower(string(key)), identityHeaderPrefix) {
			spoofed = append(spoofed, string(key))
		}
	})
	for _, key := range spoofed {
		headers.Del(key)
	}
}
