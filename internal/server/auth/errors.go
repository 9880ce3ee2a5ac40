package auth

import "errors"

// Error kinds. Every error returned by Service matches exactly one of them
// with errors.Is.
var (
	ErrValidation       = errors.New("validation error")
	ErrConflict         = errors.New("conflict")
	ErrNotFound         = errors.New("not found")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrAlreadyVerified  = errors.New("already verified")
	ErrInvalidOrExpired = errors.New("invalid or expired")
	ErrInternal         = errors.New("internal error")
)

// Error carries a message that is safe to show to the client, the error
// kind and, optionally, the underlying cause.
type Error struct {
	Kind    error
	Err     error
	Message string
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func newError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// internalError hides cause behind a generic message.
func internalError(cause error) *Error {
	return &Error{Kind: ErrInternal, Message: "Internal server error", Err: cause}
}

// Message returns the client-facing message of err. Errors that did not come
// from this package get the generic internal message.
func Message(err error) string {
	var authErr *Error
	if errors.As(err, &authErr) {
		return authErr.Message
	}
	return "Internal server error"
}
