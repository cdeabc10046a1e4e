package apperrors

import (
	"errors"
	"net/http"
)

// HTTPError is a domain error carrying the status code it should surface as.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// New creates an HTTPError with an explicit status code.
func New(statusCode int, message string) *HTTPError {
	return &HTTPError{StatusCode: statusCode, Message: message}
}

// BadRequest marks malformed or missing input and policy violations.
func BadRequest(message string) *HTTPError {
	return New(http.StatusBadRequest, message)
}

// Unauthorized marks a missing, invalid or expired credential.
func Unauthorized(message string) *HTTPError {
	return New(http.StatusUnauthorized, message)
}

// Forbidden marks a valid credential with insufficient privilege.
func Forbidden(message string) *HTTPError {
	return New(http.StatusForbidden, message)
}

// NotFound marks an absent resource.
func NotFound(message string) *HTTPError {
	return New(http.StatusNotFound, message)
}

// Internal marks a downstream dependency failure.
func Internal(message string) *HTTPError {
	return New(http.StatusInternalServerError, message)
}

// AsHTTPError unwraps err into an HTTPError if one is in the chain.
func AsHTTPError(err error) (*HTTPError, bool) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr, true
	}
	return nil, false
}
