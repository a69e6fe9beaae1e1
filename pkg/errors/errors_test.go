package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinels_AreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNotFound, ErrInvalidInput, ErrUnauthorized,
		ErrConflict, ErrInternal, ErrServiceUnavail,
	}

	for i := 0; i < len(sentinels); i++ {
		for j := i + 1; j < len(sentinels); j++ {
			assert.NotEqual(t, sentinels[i], sentinels[j])
		}
	}
}

func TestAppError_ErrorString(t *testing.T) {
	appErr := &AppError{Code: "NOT_FOUND", Message: "cart not found"}
	assert.Equal(t, "NOT_FOUND: cart not found", appErr.Error())

	inner := fmt.Errorf("connection refused")
	wrapped := &AppError{Code: "INTERNAL_ERROR", Message: "store failure", Err: inner}
	assert.Contains(t, wrapped.Error(), "INTERNAL_ERROR")
	assert.Contains(t, wrapped.Error(), "connection refused")
}

func TestAppError_UnwrapsToSentinel(t *testing.T) {
	err := NotFound("cart", "user-9")
	assert.True(t, errors.Is(err, ErrNotFound))

	err2 := InvalidInput("quantity must be positive")
	assert.True(t, errors.Is(err2, ErrInvalidInput))

	err3 := Conflict("cart was modified concurrently")
	assert.True(t, errors.Is(err3, ErrConflict))
}

func TestConstructors_StatusAndCode(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   string
		status int
	}{
		{"not found", NotFound("cart", "u1"), "NOT_FOUND", http.StatusNotFound},
		{"invalid input", InvalidInput("bad"), "INVALID_INPUT", http.StatusBadRequest},
		{"unauthorized", Unauthorized("no token"), "UNAUTHORIZED", http.StatusUnauthorized},
		{"conflict", Conflict("version mismatch"), "CONFLICT", http.StatusConflict},
		{"internal", Internal(fmt.Errorf("boom")), "INTERNAL_ERROR", http.StatusInternalServerError},
		{"unavailable", Unavailable("store down"), "SERVICE_UNAVAILABLE", http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotNil(t, tt.err)
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.Status)
		})
	}
}

func TestHTTPStatus_AppError(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NotFound("cart", "u1")))
	assert.Equal(t, http.StatusConflict, HTTPStatus(Conflict("racy")))
}

func TestHTTPStatus_WrappedSentinel(t *testing.T) {
	err := fmt.Errorf("load cart: %w", ErrNotFound)
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
}

func TestHTTPStatus_UnknownError(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(fmt.Errorf("mystery")))
}
