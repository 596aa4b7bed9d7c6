package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		kind Kind
		msg  string
	}{
		{fmt.Errorf("update task: %w", ErrAssigneeNotMember), KindValidation, ErrAssigneeNotMember.Error()},
		{ErrPrincipalNotFound, KindUnauthenticated, ErrPrincipalNotFound.Error()},
		{fmt.Errorf("delete project: %w", ErrForbidden), KindForbidden, ErrForbidden.Error()},
		{ErrProjectGone, KindNotFound, ErrProjectGone.Error()},
		{ErrAlreadyMember, KindConflict, ErrAlreadyMember.Error()},
		{errors.New("connection reset"), KindInternal, ""},
	}

	for _, tt := range tests {
		kind, msg := KindOf(tt.err)
		assert.Equal(t, tt.kind, kind, tt.err.Error())
		assert.Equal(t, tt.msg, msg)
	}
}

func TestValidationError(t *testing.T) {
	err := fmt.Errorf("create task: %w", NewValidationError("status", "status must be one of the task statuses"))

	assert.True(t, errors.Is(err, ErrValidation))

	kind, msg := KindOf(err)
	assert.Equal(t, KindValidation, kind)
	assert.Equal(t, "status must be one of the task statuses", msg)

	var ve *ValidationError
	if assert.True(t, errors.As(err, &ve)) {
		assert.Equal(t, "status", ve.Fields[0].Field)
	}
}
