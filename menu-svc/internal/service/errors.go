package service

import "errors"

type Kind int

const (
	KindValidation Kind = iota + 1
	KindConflict
	KindAuth
	KindForbidden
	KindNotFound
	KindIntegration
)

// Error is the error type returned by every service operation that fails for a
// reason the caller can act on. Anything else is an internal failure.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func validation(msg string) *Error  { return &Error{Kind: KindValidation, Message: msg} }
func conflict(msg string) *Error    { return &Error{Kind: KindConflict, Message: msg} }
func authFailure(msg string) *Error { return &Error{Kind: KindAuth, Message: msg} }
func forbidden(msg string) *Error   { return &Error{Kind: KindForbidden, Message: msg} }
func notFound(msg string) *Error    { return &Error{Kind: KindNotFound, Message: msg} }

func integration(msg string, err error) *Error {
	return &Error{Kind: KindIntegration, Message: msg, Err: err}
}

var (
	ErrInvalidBody        = validation("Invalid request body")
	ErrMissingFields      = validation("Missing required fields")
	ErrWeakPassword       = validation("Password must be at least 6 characters")
	ErrCredentialsMissing = validation("Email and password required")
	ErrVenueFieldsMissing = validation("Missing required fields (name, slug)")
	ErrInvalidOrder       = validation("Invalid order data")
	ErrEmailTaken         = conflict("Email already registered")
	ErrSlugTaken          = conflict("Slug already exists for this user")
	ErrInvalidCredentials = authFailure("Invalid email or password")
	ErrTokenRequired      = authFailure("Token required")
	ErrInvalidToken       = authFailure("Invalid token")
	ErrUnauthorized       = authFailure("Unauthorized")
	ErrNotOwner           = forbidden("Unauthorized")
	ErrUserRequired       = forbidden("A user session is required")
	ErrVenueNotFound      = notFound("Venue not found")
	ErrItemNotFound       = notFound("Item not found")
	ErrOrderNotFound      = notFound("Order not found")
)

// KindOf reports the Kind of err, or 0 when err is not a *Error.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return 0
}
