package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: http.StatusOK},
		{name: "validation", err: NewValidationError(map[string]any{"dob": []string{"bad"}}), want: http.StatusBadRequest},
		{name: "type mismatch", err: &TypeMismatchError{Message: "Expected a list of patient objects"}, want: http.StatusBadRequest},
		{name: "not found", err: NewNotFoundError("patient", 3), want: http.StatusNotFound},
		{name: "wrapped not found", err: fmt.Errorf("lookup: %w", NewNotFoundError("patient", 3)), want: http.StatusNotFound},
		{name: "external", err: &ExternalError{StatusCode: http.StatusTeapot, Body: []byte("nope")}, want: http.StatusTeapot},
		{name: "gateway", err: NewGatewayError(errors.New("dial tcp: refused")), want: http.StatusBadGateway},
		{name: "unknown", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestNotFoundErrorIs(t *testing.T) {
	err := NewNotFoundError("patient", 42)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "patient 42 not found", err.Error())
}

func TestExternalErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewGatewayError(cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, []byte("connection reset"), err.Body)
	assert.Contains(t, err.Error(), "status 502")
}
