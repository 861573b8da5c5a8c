package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	cause := errors.New("boom")
	appErr := Internal(cause)

	assert.Contains(t, appErr.Error(), "INTERNAL_ERROR")
	assert.True(t, errors.Is(appErr, cause))
}

func TestConstructors_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		status int
		code   string
	}{
		{"not found", NotFound("product", "5"), http.StatusNotFound, "NOT_FOUND"},
		{"invalid input", InvalidInput("quantity must be positive"), http.StatusBadRequest, "INVALID_INPUT"},
		{"unauthorized", Unauthorized("missing token"), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"forbidden", Forbidden("admin only"), http.StatusForbidden, "FORBIDDEN"},
		{"conflict", Conflict("cart changed"), http.StatusConflict, "CONFLICT"},
		{"gone", Gone("session expired"), http.StatusGone, "GONE"},
		{"unavailable", Unavailable("backend down"), http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.Status)
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
		})
	}
}

func TestHTTPStatus_Sentinels(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(fmt.Errorf("get: %w", ErrNotFound)))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(fmt.Errorf("add: %w", ErrInvalidInput)))
	assert.Equal(t, http.StatusConflict, HTTPStatus(Wrap(ErrConflict, "save")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("unknown")))
}
