package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasknestle/tasknestle/internal/core/domain"
	"github.com/tasknestle/tasknestle/internal/core/ports"
	"github.com/tasknestle/tasknestle/internal/infrastructure/http/handlers"
)

type stubAuth struct {
	ports.AuthService
	users map[string]*domain.User // token -> user
}

func (s *stubAuth) Authenticate(_ context.Context, token string) (*domain.User, error) {
	if u, ok := s.users[token]; ok {
		return u, nil
	}
	return nil, domain.ErrUnauthenticated
}

type stubUsers struct {
	ports.UserService
}

func (stubUsers) ListUsers(_ context.Context, _ *domain.User) ([]*domain.User, error) {
	return []*domain.User{{ID: "u1", Name: "Ada"}}, nil
}

type stubProjects struct {
	ports.ProjectService
}

func (stubProjects) List(_ context.Context, _ *domain.User, _ domain.ProjectStatus) ([]ports.ProjectView, error) {
	return nil, nil
}

func newTestRouter() *echo.Echo {
	auth := &stubAuth{users: map[string]*domain.User{
		"admin-token":  {ID: "a1", Role: domain.RoleAdmin},
		"member-token": {ID: "m1", Role: domain.RoleMember},
	}}
	return NewRouter(Services{
		Auth:     auth,
		Users:    stubUsers{},
		Projects: stubProjects{},
	}, Options{
		Log:        zerolog.Nop(),
		Health:     handlers.NewHealthHandler(nil),
		Registerer: prometheus.NewRegistry(),
	})
}

func do(e *echo.Echo, method, path, token, body string) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	return rec, resp
}

func TestRouter_RequiresAuthentication(t *testing.T) {
	e := newTestRouter()

	rec, body := do(e, http.MethodGet, "/api/projects", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, false, body["success"])

	rec, _ = do(e, http.MethodGet, "/api/projects", "forged", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, body = do(e, http.MethodGet, "/api/projects", "member-token", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
}

func TestRouter_AdminRoutes(t *testing.T) {
	e := newTestRouter()

	rec, _ := do(e, http.MethodGet, "/api/auth/users", "member-token", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, body := do(e, http.MethodGet, "/api/auth/users", "admin-token", "")
	require.Equal(t, http.StatusOK, rec.Code)
	users := body["data"].(map[string]any)["users"].([]any)
	assert.Len(t, users, 1)
}

func TestRouter_ValidationEnvelope(t *testing.T) {
	e := newTestRouter()

	rec, body := do(e, http.MethodPost, "/api/auth/login", "", `{"email":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation failed", body["message"])
	assert.NotEmpty(t, body["errors"])
}

func TestRouter_OperationalEndpoints(t *testing.T) {
	e := newTestRouter()

	rec, body := do(e, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])

	rec, _ = do(e, http.MethodGet, "/health/ready", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(e, http.MethodGet, "/no/such/route", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
