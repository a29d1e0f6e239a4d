package apierr

import (
	"fmt"
	"net/http"
)

// Error carries an HTTP status and a stable machine code alongside the cause.
type Error struct {
	Status  int
	Code    string
	Err     error
	Details []string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// WithDetails returns e carrying details, e.g. individual validation failures.
func (e *Error) WithDetails(details []string) *Error {
	e.Details = details
	return e
}

// Internal wraps err as a 500.
func Internal(err error) *Error {
	return New(http.StatusInternalServerError, "internal", err)
}
