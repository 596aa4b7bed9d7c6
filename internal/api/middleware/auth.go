package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tasknestle/tasknestle/internal/core/domain"
	"github.com/tasknestle/tasknestle/internal/core/ports"
)

const principalKey = "principal"

// Auth resolves the bearer token to a user through authenticator and injects
// it into the request context.
func Auth(authenticator ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return domain.ErrUnauthenticated
			}

			scheme, token, ok := strings.Cut(authHeader, " ")
			if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
				return domain.ErrUnauthenticated
			}

			user, err := authenticator.Authenticate(c.Request().Context(), strings.TrimSpace(token))
			if err != nil {
				return err
			}

			SetPrincipal(c, user)
			return next(c)
		}
	}
}

// SetPrincipal stores the authenticated user on c.
func SetPrincipal(c echo.Context, user *domain.User) {
	c.Set(principalKey, user)
}

// Principal returns the authenticated user, or ErrUnauthenticated when the
// Auth middleware did not run.
func Principal(c echo.Context) (*domain.User, error) {
	user, _ := c.Get(principalKey).(*domain.User)
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}
	return user, nil
}
