package auth

import (
	"errors"
	"strconv"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/school-portal/internal/domain"
)

// ErrInvalidToken is the only error VerifyToken returns. Expired, forged and
// malformed tokens are deliberately indistinguishable.
var ErrInvalidToken = errors.New("invalid token")

// SessionClaims is the principal snapshot embedded in a session token.
type SessionClaims struct {
	UserID   int64   `json:"userId"`
	Email    string  `json:"email"`
	Username string  `json:"username"`
	RoleID   *int64  `json:"roleId"`
	RoleName *string `json:"roleName"`
}

// Claims describes the full JWT payload.
type Claims struct {
	SessionClaims
	jwt.RegisteredClaims
}

// Role returns the embedded role name or an empty string.
func (c *Claims) Role() string {
	if c == nil || c.RoleName == nil {
		return ""
	}
	return *c.RoleName
}

// Identity projects the claims into the request identity.
func (c *Claims) Identity() domain.Identity {
	id := domain.Identity{
		UserID:   c.UserID,
		Email:    c.Email,
		Username: c.Username,
		RoleID:   c.RoleID,
		RoleName: c.Role(),
		TokenID:  c.ID,
	}
	if c.ExpiresAt != nil {
		id.ExpiresAt = c.ExpiresAt.Time
	}
	return id
}

// TokenManager handles issuing and validating JWT tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// TokenOption customizes a TokenManager.
type TokenOption func(*TokenManager)

// WithClock overrides the time source used for issuing and validating tokens.
func WithClock(now func() time.Time) TokenOption {
	return func(tm *TokenManager) {
		tm.now = now
	}
}

// NewTokenManager builds a new manager. A non-positive ttl falls back to 7 days.
func NewTokenManager(secret string, ttl time.Duration, opts ...TokenOption) *TokenManager {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	tm := &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(tm)
	}
	return tm
}

// TTL returns the configured token lifetime.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}

// GenerateToken builds and signs a JWT for the principal.
func (tm *TokenManager) GenerateToken(session SessionClaims) (string, time.Time, error) {
	now := tm.now()
	expiresAt := now.Add(tm.ttl)
	claims := &Claims{
		SessionClaims: session,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(session.UserID, 10),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// VerifyToken validates signature and expiry and returns the claims.
// Any failure yields ErrInvalidToken.
func (tm *TokenManager) VerifyToken(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return tm.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tm.now),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ExtractTokenFromHeader parses an "Authorization: Bearer <token>" value.
func ExtractTokenFromHeader(header string) (string, bool) {
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}
