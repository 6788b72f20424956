package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes surfaced to clients. Every expected failure maps to one of these;
// anything else is reported as CodeInternal without internal detail.
const (
	CodeValidation          = "validation_error"
	CodeNotFound            = "not_found"
	CodeInvalidState        = "invalid_state"
	CodeInvalidTransition   = "invalid_transition"
	CodeInsufficientBalance = "insufficient_balance"
	CodeConflict            = "conflict"
	CodeInternal            = "internal_error"
)

type Error struct {
	Status int
	Code   string
	Err    error
	// Meta carries machine-readable context for the client, e.g. the
	// remaining point balance on a failed redemption.
	Meta map[string]any
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

func Validation(format string, args ...any) *Error {
	return New(http.StatusBadRequest, CodeValidation, fmt.Errorf(format, args...))
}

func NotFound(format string, args ...any) *Error {
	return New(http.StatusNotFound, CodeNotFound, fmt.Errorf(format, args...))
}

func InvalidState(format string, args ...any) *Error {
	return New(http.StatusBadRequest, CodeInvalidState, fmt.Errorf(format, args...))
}

func InvalidTransition(format string, args ...any) *Error {
	return New(http.StatusBadRequest, CodeInvalidTransition, fmt.Errorf(format, args...))
}

func InsufficientBalance(remaining int, format string, args ...any) *Error {
	e := New(http.StatusBadRequest, CodeInsufficientBalance, fmt.Errorf(format, args...))
	e.Meta = map[string]any{"remaining_points": remaining}
	return e
}

func Conflict(format string, args ...any) *Error {
	return New(http.StatusConflict, CodeConflict, fmt.Errorf(format, args...))
}

func Internal(err error) *Error {
	return New(http.StatusInternalServerError, CodeInternal, err)
}

// From extracts an *Error from err, wrapping unrecognized errors as internal.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Internal(err)
}

// Is reports whether err is an *Error with the given code.
func Is(err error, code string) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Code == code
}
