package server

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// APIError is the JSON body of every failed request. Detail mirrors the
// field the analysis client reads from error responses.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewBadRequestError creates a 400 Bad Request error
func NewBadRequestError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusBadRequest,
		Code:    "BAD_REQUEST",
		Message: message,
	}
	if cause != nil {
		err.Detail = cause.Error()
	}
	return err
}

// NewUnsupportedFileError rejects an upload by extension
func NewUnsupportedFileError(name string) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    "UNSUPPORTED_FILE",
		Message: "Invalid file type",
		Detail:  fmt.Sprintf("%s: allowed types are .jpg, .jpeg, .png, .dcm", name),
	}
}

// NewTooLargeError rejects an upload over the configured limit
func NewTooLargeError(size, limit int64) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    "FILE_TOO_LARGE",
		Message: "File exceeds upload limit",
		Detail:  fmt.Sprintf("%d bytes > %d bytes", size, limit),
	}
}

// NewInternalError creates a 500 Internal Server Error
func NewInternalError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusInternalServerError,
		Code:    "INTERNAL_ERROR",
		Message: message,
	}
	if cause != nil {
		err.Detail = cause.Error()
	}
	return err
}

// errorHandler renders any handler error as an APIError body
func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var apiErr *APIError

	switch e := err.(type) {
	case *APIError:
		apiErr = e
	case *echo.HTTPError:
		apiErr = &APIError{
			Status:  e.Code,
			Code:    "HTTP_ERROR",
			Message: fmt.Sprintf("%v", e.Message),
		}
	default:
		apiErr = NewInternalError("An unexpected error occurred", err)
	}

	if apiErr.Status >= http.StatusInternalServerError {
		s.log.ErrorWithFields("request failed", requestFields(c, apiErr))
	} else {
		s.log.DebugWithFields("request rejected", requestFields(c, apiErr))
	}

	if err := c.JSON(apiErr.Status, apiErr); err != nil {
		s.log.Error("failed to write error response: %v", err)
	}
}
