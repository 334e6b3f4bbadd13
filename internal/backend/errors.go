package backend

import (
	"errors"
	"fmt"
)

// Error codes the application maps to user-facing messages. Table codes follow
// PostgreSQL / PostgREST, auth messages follow the hosted auth API.
const (
	ErrCodeSingleRow        = "PGRST116"
	ErrCodeUndefinedTable   = "42P01"
	ErrCodePermissionDenied = "42501"
	ErrCodeUniqueViolation  = "23505"
	ErrCodeCheckViolation   = "23514"
	ErrCodeNotNullViolation = "23502"

	MsgInvalidCredentials = "Invalid login credentials"
	MsgEmailNotConfirmed  = "Email not confirmed"
	MsgTooManyRequests    = "Too many requests"
	MsgUserRegistered     = "User already registered"
	MsgWeakPassword       = "Password should be at least 6 characters"
)

// Error is a failure reported by the backend itself, as opposed to transport
// or decoding problems.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Hint    string `json:"hint,omitempty"`
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("backend error %s (status %d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("backend error (status %d): %s", e.Status, e.Message)
}

// AsError extracts a backend error from err's chain.
func AsError(err error) (*Error, bool) {
	var be *Error
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

var (
	ErrClosed       = errors.New("backend client closed")
	ErrInvalidTable = errors.New("invalid table or column name")
)
