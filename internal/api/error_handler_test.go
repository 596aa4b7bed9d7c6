package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasknestle/tasknestle/internal/api/handler"
	"github.com/tasknestle/tasknestle/internal/core/domain"
)

func render(t *testing.T, err error) (int, handler.ErrorResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	NewHTTPErrorHandler(zerolog.Nop())(err, e.NewContext(req, rec))

	var body handler.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestErrorHandler_DomainKinds(t *testing.T) {
	cases := []struct {
		err  error
		code int
		msg  string
	}{
		{domain.ErrAssigneeNotMember, http.StatusBadRequest, "assigned user must be a project member"},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid email or password"},
		{domain.ErrForbidden, http.StatusForbidden, "access forbidden"},
		{fmt.Errorf("load: %w", domain.ErrProjectNotFound), http.StatusNotFound, "project not found"},
		{domain.ErrProjectGone, http.StatusNotFound, "project no longer exists"},
		{domain.ErrAlreadyMember, http.StatusBadRequest, "user is already a member of this project"},
		{domain.ErrInvalidToken, http.StatusBadRequest, "invalid or expired invitation token"},
	}
	for _, c := range cases {
		code, body := render(t, c.err)
		assert.Equal(t, c.code, code, c.err.Error())
		assert.Equal(t, c.msg, body.Message)
		assert.False(t, body.Success)
	}
}

func TestErrorHandler_ValidationFields(t *testing.T) {
	err := &domain.ValidationError{Fields: []domain.FieldError{
		{Field: "title", Message: "title is required"},
		{Field: "priority", Message: "priority must be one of: low medium high"},
	}}

	code, body := render(t, err)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "validation failed", body.Message)
	require.Len(t, body.Errors, 2)
	assert.Equal(t, "title", body.Errors[0].Field)
}

func TestErrorHandler_EchoHTTPError(t *testing.T) {
	code, body := render(t, echo.NewHTTPError(http.StatusBadRequest, "invalid payload"))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid payload", body.Message)
}

func TestErrorHandler_InternalHidesCause(t *testing.T) {
	code, body := render(t, errors.New("mongo: connection reset"))
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "internal server error", body.Message)
}
