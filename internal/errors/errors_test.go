package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name:     "error without cause",
			err:      NewConfigError("year column missing", nil),
			expected: "[CONFIG] year column missing",
		},
		{
			name:     "error with cause",
			err:      NewParsingError("bad numeric cell", fmt.Errorf("strconv failure")),
			expected: "[PARSING] bad numeric cell: strconv failure",
		},
		{
			name:     "not found error",
			err:      NewNotFoundError("dataset"),
			expected: "[NOT_FOUND] dataset not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := NewStorageError("write failed", cause)

	assert.True(t, errors.Is(err, cause))

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, ErrTypeStorage, appErr.Type)
}

func TestAppError_WithContext(t *testing.T) {
	err := NewParsingError("coercion failed", nil).
		WithContext("column", "compensation_annual").
		WithContext("row", 42)

	assert.Equal(t, "compensation_annual", err.Context["column"])
	assert.Equal(t, 42, err.Context["row"])
}

func TestAPIError_New(t *testing.T) {
	err := New(http.StatusBadRequest, "INVALID_PARAMETER", "year out of range")

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "INVALID_PARAMETER", err.ErrorCode)
	assert.Equal(t, "year out of range", err.Error())
}

func TestErrorHandler_ErrorToProblem(t *testing.T) {
	handler := NewErrorHandler(slog.Default(), false)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{
			name:       "api error maps by error code",
			err:        ErrDatasetNotFound,
			wantStatus: http.StatusNotFound,
			wantType:   TypeNotFound,
		},
		{
			name:       "config app error maps to dataset not loaded",
			err:        NewConfigError("year column missing", nil),
			wantStatus: http.StatusServiceUnavailable,
			wantType:   TypeDatasetNotLoaded,
		},
		{
			name:       "parsing app error maps to dataset corrupted",
			err:        NewParsingError("bad cell", nil),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeDatasetCorrupted,
		},
		{
			name:       "context cancellation maps to timeout",
			err:        context.DeadlineExceeded,
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
		},
		{
			name:       "unknown error maps to internal",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/shares", nil)
			problem := handler.ErrorToProblem(tt.err, r)

			require.NotNil(t, problem)
			assert.Equal(t, tt.wantStatus, problem.Status)
			assert.Equal(t, tt.wantType, problem.Type)
			assert.Equal(t, "/api/shares", problem.Instance)
		})
	}
}

func TestErrorHandler_HandleError(t *testing.T) {
	handler := NewErrorHandler(slog.Default(), false)

	r := httptest.NewRequest(http.MethodGet, "/api/lifecycle", nil)
	w := httptest.NewRecorder()

	handler.HandleError(w, r, NotFoundError("framework"))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/problem+json")
	assert.Contains(t, w.Body.String(), "framework not found")
}
