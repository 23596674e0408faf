// Package apperrors defines the failures handlers translate into HTTP responses.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound matches every *NotFoundError through errors.Is.
var ErrNotFound = errors.New("record not found")

// ValidationError carries field-level messages. Fields is either a
// map[string]any keyed by JSON field name or, for bulk input, a slice aligned
// with the submitted items.
type ValidationError struct {
	Fields any
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Fields)
}

type NotFoundError struct {
	Resource string
	ID       uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// TypeMismatchError is returned when a request body has the wrong JSON shape,
// e.g. an object where a list was expected.
type TypeMismatchError struct {
	Message string
}

func (e *TypeMismatchError) Error() string {
	return e.Message
}

// ExternalError is a failed call to the remote processing API. StatusCode and
// Body are passed through to the caller unchanged.
type ExternalError struct {
	StatusCode  int
	Body        []byte
	ContentType string
	Err         error
}

func (e *ExternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("external API error (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("external API error (status %d): %s", e.StatusCode, string(e.Body))
}

func (e *ExternalError) Unwrap() error {
	return e.Err
}

func NewValidationError(fields any) *ValidationError {
	return &ValidationError{Fields: fields}
}

func NewNotFoundError(resource string, id uint) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// NewGatewayError wraps a transport failure or unreadable reply from the remote API.
func NewGatewayError(err error) *ExternalError {
	return &ExternalError{
		StatusCode:  http.StatusBadGateway,
		Body:        []byte(err.Error()),
		ContentType: "text/plain; charset=utf-8",
		Err:         err,
	}
}

// HTTPStatus maps an error to the status code handlers respond with.
func HTTPStatus(err error) int {
	var (
		validationErr *ValidationError
		mismatchErr   *TypeMismatchError
		externalErr   *ExternalError
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validationErr), errors.As(err, &mismatchErr):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &externalErr):
		return externalErr.StatusCode
	default:
		return http.StatusInternalServerError
	}
}
