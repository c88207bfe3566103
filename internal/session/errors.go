package session

import (
	"errors"
	"fmt"
)

// Messages shown to the user
const (
	MsgNoFile       = "Please select a file first"
	MsgProcessing   = "Error processing image. Please try again."
	MsgPreviewError = "Could not read the selected file"
)

// ErrAnalysisInProgress is returned by Start while a run is already processing
var ErrAnalysisInProgress = errors.New("analysis already in progress")

// SelectionError is returned when analysis is requested without a selected file
type SelectionError struct {
	Message string
}

// Error implements the error interface
func (e *SelectionError) Error() string {
	return fmt.Sprintf("selection error: %s", e.Message)
}

// NewSelectionError creates a selection error with the default message
func NewSelectionError() *SelectionError {
	return &SelectionError{Message: MsgNoFile}
}

// IsSelectionError checks if an error is a selection error
func IsSelectionError(err error) bool {
	var se *SelectionError
	return errors.As(err, &se)
}

// InvariantError reports a violated session invariant
type InvariantError struct {
	State    State
	Progress int
	Reason   string
}

// Error implements the error interface
func (e *InvariantError) Error() string {
	return fmt.Sprintf("session invariant violated: state=%s progress=%d: %s", e.State, e.Progress, e.Reason)
}
