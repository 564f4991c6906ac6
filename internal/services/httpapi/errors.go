package httpapi

import (
	"context"
	"errors"
	"net/http"
)

// RequestError represents a failure accompanied by an HTTP status code.
type RequestError struct {
	statusCode int
	err        error
}

// Error returns the error string.
func (requestError RequestError) Error() string {
	return requestError.err.Error()
}

// Unwrap exposes the wrapped error.
func (requestError RequestError) Unwrap() error {
	return requestError.err
}

// StatusCode reports the associated HTTP status code.
func (requestError RequestError) StatusCode() int {
	return requestError.statusCode
}

// NewRequestError creates a new RequestError.
func NewRequestError(statusCode int, err error) error {
	if err == nil {
		return nil
	}
	return RequestError{statusCode: statusCode, err: err}
}

func statusCodeFromError(err error) int {
	var requestError RequestError
	if errors.As(err, &requestError) {
		return requestError.StatusCode()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
