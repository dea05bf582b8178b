package errors

import (
	"errors"
	"net/http"
	"strings"
)

var (
	// ErrNotFound is returned by repositories when no row/document matches.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a unique key already exists.
	ErrConflict = errors.New("already exists")
	// ErrInvalidCredentials is returned for an unknown account or a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidRefreshToken is returned when a refresh token is invalid, expired or revoked.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
)

// ValidationError reports required fields that are missing or malformed.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid request"
	}
	return "missing or invalid fields: " + strings.Join(e.Fields, ", ")
}

// NewValidationError builds a ValidationError for the given fields.
func NewValidationError(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// ConflictError names the unique key that collided.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// Is lets errors.Is(err, ErrConflict) match any ConflictError.
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Message: e.Message,
		Code:    e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Anything unrecognised is
// reported as a generic internal error so store details never reach clients.
func MapErrorToHTTP(err error) *HTTPError {
	var validationErr *ValidationError
	var conflictErr *ConflictError

	switch {
	case errors.As(err, &validationErr):
		return NewHTTPError(http.StatusBadRequest, validationErr.Error(), "VALIDATION_ERROR")
	case errors.As(err, &conflictErr):
		return NewHTTPError(http.StatusConflict, conflictErr.Error(), "CONFLICT")
	case errors.Is(err, ErrConflict):
		return NewHTTPError(http.StatusConflict, err.Error(), "CONFLICT")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrInvalidRefreshToken):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidRefreshToken.Error(), "INVALID_REFRESH_TOKEN")
	case errors.Is(err, ErrNotFound):
		return NewHTTPError(http.StatusNotFound, ErrNotFound.Error(), "NOT_FOUND")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
