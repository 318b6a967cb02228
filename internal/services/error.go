package services

import "errors"

var (
	ErrValidation      = errors.New("validation error")
	ErrNotFound        = errors.New("poll not found")
	ErrForbidden       = errors.New("not authorized")
	ErrInvalidState    = errors.New("invalid poll state")
	ErrDuplicateVote   = errors.New("already voted on this poll")
	ErrInvalidOption   = errors.New("invalid option id")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrInternal        = errors.New("internal error")
)

// Error pairs a taxonomy member with a message that is safe to show to
// callers. errors.Is(err, ErrX) works through it.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// errUnauthenticated is returned when a mutation arrives without a caller
// identity.
var errUnauthenticated = newError(ErrUnauthenticated, "Authentication required")

func newError(kind error, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}
