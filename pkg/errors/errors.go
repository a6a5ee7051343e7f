package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// Tokens.
	ErrInvalidSigningMethod = errors.New("unexpected token signing method")
	ErrInvalidToken         = errors.New("invalid token")
	ErrTokenExpired         = errors.New("token expired")
	ErrTokenNotYetValid     = errors.New("token not yet valid")

	// Authorization.
	ErrEmptyAuthHeader    = errors.New("authorization header missing")
	ErrInvalidAuthHeader  = errors.New("invalid authorization header format")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbidden          = errors.New("access denied")

	// Request context.
	ErrSessionNotFound = errors.New("session not found in request context")

	// Generic.
	ErrNotFound   = errors.New("record not found")
	ErrBadRequest = errors.New("bad request")
)

// HttpError carries an HTTP status code and a user-facing message alongside
// the underlying error. Details, when set, is rendered into the response body
// (quota prompts, attempts_left counters and the like).
type HttpError struct {
	Code    int
	Message string
	Err     error
	Details map[string]interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, details map[string]interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Details: details}
}

func BadRequest(message string) *HttpError {
	return NewHttpError(http.StatusBadRequest, message, nil, nil)
}

func Conflict(message string) *HttpError {
	return NewHttpError(http.StatusConflict, message, nil, nil)
}

func Unauthorized(message string) *HttpError {
	return NewHttpError(http.StatusUnauthorized, message, nil, nil)
}

// CodeFor maps the package sentinels onto HTTP status codes. Unknown errors
// fall through to 500.
func CodeFor(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrEmptyAuthHeader),
		errors.Is(err, ErrInvalidAuthHeader),
		errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrTokenExpired),
		errors.Is(err, ErrTokenNotYetValid),
		errors.Is(err, ErrSessionNotFound):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
