package ports

import (
	"context"

	"github.com/tasknestle/tasknestle/internal/core/domain"
)

// UpdateProfileInput carries the self-editable profile fields. Empty fields are left unchanged.
type UpdateProfileInput struct {
	Name  string
	Email string
}

// AuthService covers sessions and the caller's own account.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// Authenticate resolves a bearer session token to its user.
	Authenticate(ctx context.Context, token string) (*domain.User, error)
	Profile(ctx context.Context, principal *domain.User) (*domain.User, error)
	UpdateProfile(ctx context.Context, principal *domain.User, input UpdateProfileInput) (*domain.User, error)
	ChangePassword(ctx context.Context, principal *domain.User, current, next string) error
}
