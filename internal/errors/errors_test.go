package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", NewValidationError("pincode"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"wrapped validation", fmt.Errorf("add: %w", NewValidationError("address")), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"conflict type", &ConflictError{Message: "name taken"}, http.StatusConflict, "CONFLICT"},
		{"conflict sentinel", fmt.Errorf("insert: %w", ErrConflict), http.StatusConflict, "CONFLICT"},
		{"credentials", ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"refresh", ErrInvalidRefreshToken, http.StatusUnauthorized, "INVALID_REFRESH_TOKEN"},
		{"not found", ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"unknown", errors.New("dial tcp 10.0.0.3:3306: connection refused"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, httpErr.StatusCode)
			assert.Equal(t, tt.wantCode, httpErr.Code)
		})
	}
}

func TestMapErrorToHTTP_InternalDoesNotLeak(t *testing.T) {
	httpErr := MapErrorToHTTP(errors.New("Error 1045: Access denied for user 'root'"))
	assert.Equal(t, "internal server error", httpErr.ToErrorResponse().Message)
}

func TestValidationError_Message(t *testing.T) {
	err := NewValidationError("serviceName", "pincode")
	assert.Equal(t, "missing or invalid fields: serviceName, pincode", err.Error())
	assert.Equal(t, "invalid request", (&ValidationError{}).Error())
}

func TestConflictError_IsSentinel(t *testing.T) {
	err := fmt.Errorf("register: %w", &ConflictError{Message: "name already exists"})
	assert.True(t, errors.Is(err, ErrConflict))
}
