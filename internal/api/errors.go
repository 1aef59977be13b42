package api

import (
	"errors"
	"fmt"
)

// Failure kinds. Every error returned by Client wraps exactly one of them,
// so callers can branch with errors.Is.
var (
	ErrUnreachable = errors.New("server unreachable")
	ErrTimeout     = errors.New("request timed out")
	ErrAuthExpired = errors.New("authentication expired")
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("request rejected")
	ErrServerFault = errors.New("server error")
)

// Error carries the failure kind plus whatever the server or transport said.
type Error struct {
	Kind    error
	Status  int    // HTTP status, 0 for transport failures
	Message string // server-provided message, if any
	Err     error  // underlying transport error, if any
}

func (e *Error) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("%v: %s", e.Kind, e.Message)
	case e.Status != 0:
		return fmt.Sprintf("%v: HTTP %d", e.Kind, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	default:
		return e.Kind.Error()
	}
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// Describe turns err into a message fit for the terminal.
func Describe(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnreachable):
		return "cannot reach the server. Check your connection or try again later"
	case errors.Is(err, ErrTimeout):
		return "the request timed out. Try again in a moment"
	case errors.Is(err, ErrAuthExpired):
		return "your session has expired. Run 'feelog login' to sign in again"
	}
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
