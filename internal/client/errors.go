package client

import (
	"errors"
	"fmt"
	"strings"
)

// Op names the remote operation that failed
type Op string

const (
	OpAnalyze Op = "analyze"
	OpHealth  Op = "health"
)

// RequestError reports a failed call to the analysis service
type RequestError struct {
	// Op is the operation that failed
	Op Op `json:"op"`

	// Message provides a short technical description
	Message string `json:"message"`

	// StatusCode is set when the service answered with a non-success status
	StatusCode int `json:"status_code,omitempty"`

	// Cause is the underlying transport or decoding error
	Cause error `json:"-"`
}

// Error implements the error interface
func (e *RequestError) Error() string {
	parts := []string{fmt.Sprintf("op=%s", e.Op)}

	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.StatusCode))
	}

	parts = append(parts, e.Message)

	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause=%s", e.Cause.Error()))
	}

	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying error
func (e *RequestError) Unwrap() error {
	return e.Cause
}

// newRequestError creates a request error without a cause
func newRequestError(op Op, message string) *RequestError {
	return &RequestError{Op: op, Message: message}
}

// newRequestErrorWithCause creates a request error wrapping cause
func newRequestErrorWithCause(op Op, message string, cause error) *RequestError {
	return &RequestError{Op: op, Message: message, Cause: cause}
}

// newStatusError creates a request error for a non-success response
func newStatusError(op Op, status int, detail string) *RequestError {
	msg := fmt.Sprintf("request failed with status %d", status)
	if detail != "" {
		msg += " (" + detail + ")"
	}
	return &RequestError{Op: op, Message: msg, StatusCode: status}
}

// IsRequestError checks if an error is a request error
func IsRequestError(err error) bool {
	var re *RequestError
	return errors.As(err, &re)
}

// StatusCode extracts the HTTP status of a request error, or 0
func StatusCode(err error) int {
	var re *RequestError
	if errors.As(err, &re) {
		return re.StatusCode
	}
	return 0
}
