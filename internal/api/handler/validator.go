package handler

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/tasknestle/tasknestle/internal/core/domain"
)

type requestValidator struct {
	v *validator.Validate
}

// NewValidator is installed as echo.Echo.Validator. Reported field names are
// the json names, not the Go ones.
func NewValidator() *requestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// password: minimum length with upper, lower and digit.
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return domain.StrongPassword(fl.Field().String())
	})
	return &requestValidator{v: v}
}

// Validate reports every rejected field at once as a *domain.ValidationError.
func (rv *requestValidator) Validate(i any) error {
	err := rv.v.Struct(i)
	var failures validator.ValidationErrors
	if !errors.As(err, &failures) {
		return err
	}
	out := &domain.ValidationError{Fields: make([]domain.FieldError, 0, len(failures))}
	for _, fe := range failures {
		out.Fields = append(out.Fields, domain.FieldError{Field: fe.Field(), Message: describe(fe)})
	}
	return out
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must contain at least %s items", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "mongodb":
		return field + " must be a valid id"
	case "password":
		return fmt.Sprintf("%s must be at least %d characters and contain an uppercase letter, a lowercase letter and a number",
			field, domain.MinPasswordLength)
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

// bind decodes the request body into req and validates it.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}
