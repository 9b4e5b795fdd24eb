package rootkey

import "fmt"

// Code is the machine-readable kind of an authorization failure. The
// transport layer maps it to an HTTP status.
type Code string

const (
	CodeUnauthorized        Code = "UNAUTHORIZED"
	CodeInternalServerError Code = "INTERNAL_SERVER_ERROR"
)

// AuthorizationError is the single error type produced by the guard.
// Every failure path yields exactly one of these; there is no partial
// or default-allow outcome.
type AuthorizationError struct {
	Code    Code
	Message string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewUnauthorized(message string) *AuthorizationError {
	return &AuthorizationError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

func NewInternal(message string) *AuthorizationError {
	return &AuthorizationError{
		Code:    CodeInternalServerError,
		Message: message,
	}
}
