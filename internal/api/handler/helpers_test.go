package handler

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/tasknestle/tasknestle/internal/api/middleware"
	"github.com/tasknestle/tasknestle/internal/core/domain"
)

var (
	admin  = &domain.User{ID: "a1", Name: "Ada", Email: "ada@example.com", Role: domain.RoleAdmin}
	member = &domain.User{ID: "m1", Name: "Max", Email: "max@example.com", Role: domain.RoleMember}
)

// newRequest builds an echo context for method/target carrying body as JSON,
// authenticated as principal when non-nil.
func newRequest(method, target, body string, principal *domain.User) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if principal != nil {
		middleware.SetPrincipal(c, principal)
	}
	return c, rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["success"] != true {
		t.Fatalf("expected success envelope, got %v", resp)
	}
	data, _ := resp["data"].(map[string]any)
	return data
}

func expectKind(t *testing.T, err error, want domain.Kind) {
	t.Helper()
	if got, _ := domain.KindOf(err); got != want {
		t.Fatalf("expected %s error, got %s (%v)", want, got, err)
	}
}

func jsonUnmarshal(s string, v any) error {
	return json.Unmarshal([]byte(s), v)
}
