package auth

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func int64Ptr(v int64) *int64 { return &v }

func editorSession() SessionClaims {
	return SessionClaims{
		UserID:   7,
		Email:    "editor@school.test",
		Username: "editor",
		RoleID:   int64Ptr(2),
		RoleName: strPtr("Editor"),
	}
}

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)

	token, expiresAt, err := tm.GenerateToken(editorSession())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 2*time.Second)

	claims, err := tm.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, editorSession(), claims.SessionClaims)
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, "7", claims.Subject)

	identity := claims.Identity()
	assert.Equal(t, int64(7), identity.UserID)
	assert.Equal(t, "Editor", identity.RoleName)
	assert.Equal(t, claims.ID, identity.TokenID)
}

func TestTokenManager_NullRole(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	session := SessionClaims{UserID: 3, Email: "a@b.c", Username: "norole"}

	token, _, err := tm.GenerateToken(session)
	require.NoError(t, err)

	payload := decodePayload(t, token)
	assert.Contains(t, payload, `"roleId":null`)
	assert.Contains(t, payload, `"roleName":null`)

	claims, err := tm.VerifyToken(token)
	require.NoError(t, err)
	assert.Nil(t, claims.RoleName)
	assert.Empty(t, claims.Role())
}

func TestTokenManager_UniqueTokenIDs(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	first, _, err := tm.GenerateToken(editorSession())
	require.NoError(t, err)
	second, _, err := tm.GenerateToken(editorSession())
	require.NoError(t, err)

	a, err := tm.VerifyToken(first)
	require.NoError(t, err)
	b, err := tm.VerifyToken(second)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestTokenManager_Expired(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	tm := NewTokenManager("secret", time.Minute, WithClock(clock))

	token, _, err := tm.GenerateToken(editorSession())
	require.NoError(t, err)

	_, err = tm.VerifyToken(token)
	require.NoError(t, err)

	now = now.Add(61 * time.Second)
	_, err = tm.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", time.Hour)
	verifier := NewTokenManager("secret-b", time.Hour)

	token, _, err := issuer.GenerateToken(editorSession())
	require.NoError(t, err)

	_, err = verifier.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_TamperedPayload(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	token, _, err := tm.GenerateToken(editorSession())
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	payload := decodePayload(t, token)
	forged := strings.Replace(payload, `"roleName":"Editor"`, `"roleName":"Administrator"`, 1)
	require.NotEqual(t, payload, forged)
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(forged))

	_, err = tm.VerifyToken(strings.Join(parts, "."))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_Malformed(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	for _, token := range []string{"", "abc", "a.b.c", "....", "Bearer x.y.z"} {
		_, err := tm.VerifyToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken, token)
	}
}

func TestTokenManager_RejectsNoneAlgorithm(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	claims := &Claims{
		SessionClaims: editorSession(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = tm.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RequiresExpiry(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	claims := &Claims{SessionClaims: editorSession()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = tm.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_VerifyIsIdempotent(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	token, _, err := tm.GenerateToken(editorSession())
	require.NoError(t, err)

	first, err := tm.VerifyToken(token)
	require.NoError(t, err)
	second, err := tm.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestExtractTokenFromHeader(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", true},
		{"Bearer  padded ", "padded", true},
		{"", "", false},
		{"Bearer", "", false},
		{"Bearer ", "", false},
		{"Basic dXNlcjpwYXNz", "", false},
		{"bearer abc", "", false},
		{"abc.def.ghi", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, ok := ExtractTokenFromHeader(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func decodePayload(t *testing.T, token string) string {
	t.Helper()
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	raw, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	return string(raw)
}
