package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/tasknestle/tasknestle/internal/core/domain"
	"github.com/tasknestle/tasknestle/internal/core/ports"
)

type stubAuthService struct {
	ports.AuthService
	loginFn          func(ctx context.Context, email, password string) (string, *domain.User, error)
	updateProfileFn  func(ctx context.Context, p *domain.User, in ports.UpdateProfileInput) (*domain.User, error)
	changePasswordFn func(ctx context.Context, p *domain.User, current, next string) error
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Profile(_ context.Context, p *domain.User) (*domain.User, error) {
	return p, nil
}

func (s *stubAuthService) UpdateProfile(ctx context.Context, p *domain.User, in ports.UpdateProfileInput) (*domain.User, error) {
	return s.updateProfileFn(ctx, p, in)
}

func (s *stubAuthService) ChangePassword(ctx context.Context, p *domain.User, current, next string) error {
	return s.changePasswordFn(ctx, p, current, next)
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
			if email != "ada@example.com" || password != "Secret1" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return "token123", admin, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newRequest(http.MethodPost, "/api/auth/login", `{"email":"ada@example.com","password":"Secret1"}`, nil)
	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	data := decode(t, rec)
	if data["token"] != "token123" {
		t.Fatalf("expected token, got %v", data["token"])
	}
	user, ok := data["user"].(map[string]any)
	if !ok || user["email"] != "ada@example.com" || user["role"] != "admin" {
		t.Fatalf("unexpected user payload: %+v", user)
	}
	if _, leaked := user["PasswordHash"]; leaked {
		t.Fatalf("password hash must not be serialised")
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	c, _ := newRequest(http.MethodPost, "/api/auth/login", `{"email":"ada@example.com","password":"bad"}`, nil)

	err := NewAuthHandler(stub).Login(c)
	expectKind(t, err, domain.KindUnauthenticated)
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
			t.Fatalf("should not be called")
			return "", nil, nil
		},
	}
	c, _ := newRequest(http.MethodPost, "/api/auth/login", "{", nil)

	err := NewAuthHandler(stub).Login(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestAuthHandler_Login_ValidationFields(t *testing.T) {
	stub := &stubAuthService{}
	c, _ := newRequest(http.MethodPost, "/api/auth/login", `{"email":"not-an-email"}`, nil)

	err := NewAuthHandler(stub).Login(c)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	fields := map[string]bool{}
	for _, f := range ve.Fields {
		fields[f.Field] = true
	}
	if !fields["email"] || !fields["password"] {
		t.Fatalf("expected email and password errors, got %+v", ve.Fields)
	}
}

func TestAuthHandler_Profile_RequiresPrincipal(t *testing.T) {
	c, _ := newRequest(http.MethodGet, "/api/auth/profile", "", nil)
	expectKind(t, NewAuthHandler(&stubAuthService{}).Profile(c), domain.KindUnauthenticated)
}

func TestAuthHandler_UpdateProfile(t *testing.T) {
	stub := &stubAuthService{
		updateProfileFn: func(_ context.Context, p *domain.User, in ports.UpdateProfileInput) (*domain.User, error) {
			if p.ID != member.ID || in.Name != "Maxine" || in.Email != "" {
				t.Fatalf("unexpected args: %+v %+v", p, in)
			}
			u := *p
			u.Name = in.Name
			return &u, nil
		},
	}
	c, rec := newRequest(http.MethodPut, "/api/auth/profile", `{"name":"Maxine"}`, member)

	if err := NewAuthHandler(stub).UpdateProfile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	user := decode(t, rec)["user"].(map[string]any)
	if user["name"] != "Maxine" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestAuthHandler_ChangePassword_WeakPasswordRejected(t *testing.T) {
	stub := &stubAuthService{
		changePasswordFn: func(context.Context, *domain.User, string, string) error {
			t.Fatal("should not be called")
			return nil
		},
	}
	c, _ := newRequest(http.MethodPut, "/api/auth/change-password", `{"currentPassword":"Old1pass","newPassword":"weak"}`, member)

	expectKind(t, NewAuthHandler(stub).ChangePassword(c), domain.KindValidation)
}

func TestAuthHandler_ChangePassword_IncorrectCurrent(t *testing.T) {
	stub := &stubAuthService{
		changePasswordFn: func(context.Context, *domain.User, string, string) error {
			return domain.ErrIncorrectPassword
		},
	}
	c, _ := newRequest(http.MethodPut, "/api/auth/change-password", `{"currentPassword":"nope","newPassword":"Strong1pass"}`, member)

	err := NewAuthHandler(stub).ChangePassword(c)
	if !errors.Is(err, domain.ErrIncorrectPassword) {
		t.Fatalf("expected ErrIncorrectPassword, got %v", err)
	}
}
