package domain

import (
	"errors"
	"strings"
)

// Sentinel errors returned by services. Wrap with fmt.Errorf("...: %w") and
// classify with KindOf at the transport boundary.
var (
	ErrValidation          = errors.New("validation failed")
	ErrAssigneeNotMember   = errors.New("assigned user must be a project member")
	ErrCannotRemoveCreator = errors.New("cannot remove project creator")
	ErrInvalidMembers      = errors.New("one or more members do not exist")
	ErrIncorrectPassword   = errors.New("current password is incorrect")
	ErrCannotDeleteSelf    = errors.New("cannot delete your own account")
	ErrInvalidToken        = errors.New("invalid or expired invitation token")

	ErrUnauthenticated    = errors.New("not authorized, token failed")
	ErrPrincipalNotFound  = errors.New("user not found for token")
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrForbidden = errors.New("access forbidden")

	ErrUserNotFound    = errors.New("user not found")
	ErrProjectNotFound = errors.New("project not found")
	ErrTaskNotFound    = errors.New("task not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrProjectGone     = errors.New("project no longer exists")

	ErrUserExists        = errors.New("user already exists")
	ErrAlreadyMember     = errors.New("user is already a member of this project")
	ErrAlreadyRegistered = errors.New("user already registered")
)

// Kind is the transport-independent class of an error.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation_failed"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

var classified = []struct {
	err  error
	kind Kind
}{
	{ErrValidation, KindValidation},
	{ErrAssigneeNotMember, KindValidation},
	{ErrCannotRemoveCreator, KindValidation},
	{ErrInvalidMembers, KindValidation},
	{ErrIncorrectPassword, KindValidation},
	{ErrCannotDeleteSelf, KindValidation},
	{ErrInvalidToken, KindValidation},
	{ErrUnauthenticated, KindUnauthenticated},
	{ErrPrincipalNotFound, KindUnauthenticated},
	{ErrInvalidCredentials, KindUnauthenticated},
	{ErrForbidden, KindForbidden},
	{ErrUserNotFound, KindNotFound},
	{ErrProjectNotFound, KindNotFound},
	{ErrTaskNotFound, KindNotFound},
	{ErrCommentNotFound, KindNotFound},
	{ErrProjectGone, KindNotFound},
	{ErrUserExists, KindConflict},
	{ErrAlreadyMember, KindConflict},
	{ErrAlreadyRegistered, KindConflict},
}

// KindOf classifies err and returns the message safe to show a client.
// Unknown errors are KindInternal with an empty message.
func KindOf(err error) (Kind, string) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return KindValidation, ve.Error()
	}
	for _, c := range classified {
		if errors.Is(err, c.err) {
			return c.kind, c.err.Error()
		}
	}
	return KindInternal, ""
}

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries per-field failures. It matches ErrValidation.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
