package domain

import (
	"errors"
	"strings"
)

// Kind classifies a domain failure. The HTTP boundary maps each kind to a
// status code; callers branch on kinds with errors.Is, never on messages.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindInvalidCredentials
	KindInvalidToken
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindInvalidState
	KindTooManyAttempts
)

var kindCodes = map[Kind]string{
	KindInternal:           "INTERNAL_ERROR",
	KindValidation:         "VALIDATION_ERROR",
	KindInvalidCredentials: "INVALID_CREDENTIALS",
	KindInvalidToken:       "INVALID_TOKEN",
	KindUnauthorized:       "UNAUTHORIZED",
	KindForbidden:          "FORBIDDEN",
	KindNotFound:           "NOT_FOUND",
	KindConflict:           "CONFLICT",
	KindInvalidState:       "INVALID_STATE",
	KindTooManyAttempts:    "TOO_MANY_ATTEMPTS",
}

// Code returns the stable machine-readable code rendered in API errors.
func (k Kind) Code() string {
	if c, ok := kindCodes[k]; ok {
		return c
	}
	return kindCodes[KindInternal]
}

func (k Kind) String() string { return k.Code() }

// Error is the single error type produced by the core.
type Error struct {
	Kind    Kind
	Message string
	// Details lists individual rule violations, one entry per rule.
	Details []string
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = strings.ToLower(strings.ReplaceAll(e.Kind.Code(), "_", " "))
	}
	if len(e.Details) > 0 {
		return msg + ": " + strings.Join(e.Details, "; ")
	}
	return msg
}

// Is matches another *Error of the same kind. A target without a message
// matches every error of its kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Message == "" || t.Message == e.Message
}

// Kind-wide sentinels.
var (
	ErrValidation         = &Error{Kind: KindValidation}
	ErrUnauthorized       = &Error{Kind: KindUnauthorized}
	ErrForbidden          = &Error{Kind: KindForbidden}
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrConflict           = &Error{Kind: KindConflict}
	ErrInvalidState       = &Error{Kind: KindInvalidState}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials, Message: "invalid credentials"}
	ErrInvalidToken       = &Error{Kind: KindInvalidToken, Message: "invalid token"}
	ErrTooManyAttempts    = &Error{Kind: KindTooManyAttempts, Message: "too many login attempts, try again later"}
)

var (
	ErrEmailInUse        = &Error{Kind: KindConflict, Message: "email already in use"}
	ErrPolicyNumberInUse = &Error{Kind: KindConflict, Message: "policy number already in use"}
	ErrUserNotFound      = &Error{Kind: KindNotFound, Message: "user not found"}
	ErrClientNotFound    = &Error{Kind: KindNotFound, Message: "client not found"}
	ErrInsuranceNotFound = &Error{Kind: KindNotFound, Message: "insurance not found"}
	ErrAlreadyCanceled   = &Error{Kind: KindInvalidState, Message: "insurance already canceled"}
	ErrInvalidTransition = &Error{Kind: KindInvalidState, Message: "invalid status transition"}
)

// NewValidationError builds a validation failure carrying each violated rule.
func NewValidationError(message string, details ...string) *Error {
	return &Error{Kind: KindValidation, Message: message, Details: details}
}

// NewConflictError builds a uniqueness violation.
func NewConflictError(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// NewNotFoundError builds a missing-entity failure.
func NewNotFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// KindOf returns the kind of the first *Error in err's chain, or
// KindInternal for anything unclassified.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// DetailsOf returns the rule violations attached to err, if any.
func DetailsOf(err error) []string {
	var de *Error
	if errors.As(err, &de) {
		return de.Details
	}
	return nil
}
