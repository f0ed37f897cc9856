package http

import (
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/school-portal/internal/api/http/handlers"
	"github.com/spec-kit/school-portal/internal/auth"
	"github.com/spec-kit/school-portal/internal/domain"
	"github.com/spec-kit/school-portal/internal/observability"
)

const testSecret = "router-test-secret"

// newTestServer wires the real middleware stack and routes. Handlers get nil
// services, so only requests rejected before reaching them are exercised.
func newTestServer(t *testing.T) *fiber.App {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	policy := auth.DefaultRolePolicy()

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(logger)})
	RegisterMiddlewares(app, logger, metrics, MiddlewareConfig{Timeout: time.Second, AllowOrigins: "https://school.test"})
	RegisterRoutes(app, RouteConfig{
		Gate: auth.NewGate(auth.DefaultGateConfig(), auth.GateDependencies{
			Tokens:   auth.NewTokenManager(testSecret, time.Hour),
			Policy:   policy,
			Observer: metrics,
			Logger:   logger,
		}),
		Policy:            policy,
		Health:            handlers.NewHealthHandler("school-portal", "test", nil),
		Auth:              handlers.NewAuthHandler(nil),
		Users:             handlers.NewUsersHandler(nil, nil),
		Publications:      handlers.NewPublicationsHandler(nil),
		Tags:              handlers.NewTagsHandler(nil),
		Categories:        handlers.NewCategoriesHandler(nil),
		Comments:          handlers.NewCommentsHandler(nil),
		Directors:         handlers.NewDirectorsHandler(nil),
		Contact:           handlers.NewContactHandler(nil),
		DestinationEmails: handlers.NewDestinationEmailsHandler(nil),
		Media:             handlers.NewMediaHandler(nil, nil),
	})
	return app
}

func bearer(t *testing.T, role string) string {
	t.Helper()
	tm := auth.NewTokenManager(testSecret, time.Hour)
	token, _, err := tm.GenerateToken(auth.SessionClaims{UserID: 42, Email: "u@school.test", Username: "u", RoleName: &role})
	require.NoError(t, err)
	return "Bearer " + token
}

func TestRoutes_Guards(t *testing.T) {
	app := newTestServer(t)

	tests := []struct {
		name       string
		method     string
		path       string
		role       string
		wantStatus int
	}{
		{"users without token", nethttp.MethodGet, "/api/users", "", nethttp.StatusUnauthorized},
		{"users as editor", nethttp.MethodGet, "/api/users", domain.RoleEditor, nethttp.StatusForbidden},
		{"create publication as user", nethttp.MethodPost, "/api/publications", domain.RoleUser, nethttp.StatusForbidden},
		{"delete tag as editor", nethttp.MethodDelete, "/api/tags/1", domain.RoleEditor, nethttp.StatusForbidden},
		{"create category anonymously", nethttp.MethodPost, "/api/categories", "", nethttp.StatusUnauthorized},
		{"create category as editor", nethttp.MethodPost, "/api/categories", domain.RoleEditor, nethttp.StatusForbidden},
		{"create director anonymously", nethttp.MethodPost, "/api/directors", "", nethttp.StatusUnauthorized},
		{"contact inbox as user", nethttp.MethodGet, "/api/contact", domain.RoleUser, nethttp.StatusForbidden},
		{"destination emails as user", nethttp.MethodGet, "/api/destination-emails", domain.RoleUser, nethttp.StatusForbidden},
		{"upload as user", nethttp.MethodPost, "/api/upload", domain.RoleUser, nethttp.StatusForbidden},
		{"delete gallery item as editor", nethttp.MethodDelete, "/api/gallery/3", domain.RoleEditor, nethttp.StatusForbidden},
		{"unknown api route", nethttp.MethodGet, "/api/nothing-here", domain.RoleUser, nethttp.StatusNotFound},
		{"liveness outside gate", nethttp.MethodGet, "/health/live", "", nethttp.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.role != "" {
				req.Header.Set("Authorization", bearer(t, tt.role))
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			if tt.wantStatus >= 400 {
				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				var payload map[string]any
				require.NoError(t, json.Unmarshal(body, &payload), string(body))
				assert.IsType(t, "", payload["error"])
			}
		})
	}
}

func TestRoutes_EditorMayModerateComments(t *testing.T) {
	app := newTestServer(t)

	update := func(role string) *nethttp.Response {
		req := httptest.NewRequest(nethttp.MethodPut, "/api/comments/5", strings.NewReader("{broken"))
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
		req.Header.Set("Authorization", bearer(t, role))
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	// The handler rejects the payload, so the guard let the editor through.
	resp := update(domain.RoleEditor)
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"invalid payload"}`, string(body))

	assert.Equal(t, nethttp.StatusForbidden, update(domain.RoleUser).StatusCode)
}

func TestRoutes_AdminPageRedirects(t *testing.T) {
	app := newTestServer(t)

	resp, err := app.Test(httptest.NewRequest(nethttp.MethodGet, "/admin/dashboard", nil))
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestRoutes_MetricsNotOnPublicListener(t *testing.T) {
	app := newTestServer(t)

	resp, err := app.Test(httptest.NewRequest(nethttp.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
}

func TestMetricsApp_ServesScrapes(t *testing.T) {
	metrics := observability.NewMetrics()
	metrics.ObserveGate("allowed")

	resp, err := NewMetricsApp(metrics.Handler()).Test(httptest.NewRequest(nethttp.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "auth_gate_decisions_total")
}

func TestErrorHandlingMiddleware_RecoversPanics(t *testing.T) {
	app := fiber.New()
	app.Use(errorHandlingMiddleware(zap.NewNop(), nil))
	app.Get("/boom", func(c *fiber.Ctx) error {
		panic("kaboom")
	})

	resp, err := app.Test(httptest.NewRequest(nethttp.MethodGet, "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusInternalServerError, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"internal server error"}`, string(body))
}

func TestCORSPreflight(t *testing.T) {
	app := newTestServer(t)

	req := httptest.NewRequest(nethttp.MethodOptions, "/api/publications", nil)
	req.Header.Set("Origin", "https://school.test")
	req.Header.Set("Access-Control-Request-Method", nethttp.MethodPost)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "https://school.test", resp.Header.Get("Access-Control-Allow-Origin"))
}
