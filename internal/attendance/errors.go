package attendance

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated means no identity was presented at all.
	ErrUnauthenticated = errors.New("no authenticated identity")
	// ErrUnauthorized means the identity lacks the role an operation requires.
	ErrUnauthorized = errors.New("identity lacks required role")
	// ErrSessionNotOpen means no open session exists for the requested date.
	ErrSessionNotOpen = errors.New("attendance session is not open")
	// ErrSessionExpired means the session's end time has passed.
	ErrSessionExpired = errors.New("attendance session has expired")
	// ErrAlreadyMarked means the student is already in the day's roster.
	ErrAlreadyMarked = errors.New("student already marked present")
	// ErrRemoteUnavailable wraps any store or directory transport failure.
	ErrRemoteUnavailable = errors.New("attendance store unavailable")
)

// ValidationError is used to indicate a bad value for a specific field.
// Validation happens before any remote call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func remoteErr(err error) error {
	return fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
}
