package service

import "errors"

var (
	// ErrBadCredentials covers both an absent account and a password
	// mismatch, so login failures don't reveal which usernames exist.
	ErrBadCredentials = errors.New("bad username or password")
	// ErrConflict signals an account that already exists.
	ErrConflict = errors.New("account already exists")
	// ErrNotFound signals an absent account on an operation that
	// requires one.
	ErrNotFound = errors.New("account not found")
)

// ValidationError reports a malformed input payload, naming the
// offending object.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
