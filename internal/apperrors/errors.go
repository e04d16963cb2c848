package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound represents an error when a requested resource is not found.
type ErrNotFound struct {
	Resource string
	ID       interface{}
}

// Error implements the error interface.
func (e *ErrNotFound) Error() string {
	if e.ID != nil {
		return fmt.Sprintf("%s with ID %v not found", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is allows for error checking with errors.Is().
func (e *ErrNotFound) Is(target error) bool {
	_, ok := target.(*ErrNotFound)
	return ok
}

// NewNotFoundError creates a new ErrNotFound.
func NewNotFoundError(resource string, id interface{}) *ErrNotFound {
	return &ErrNotFound{
		Resource: resource,
		ID:       id,
	}
}

// NewShowNotFoundError creates a specific error for when the catalog does not know a show.
func NewShowNotFoundError(showID int) *ErrNotFound {
	return &ErrNotFound{
		Resource: "show",
		ID:       showID,
	}
}

// ErrUpstreamStatus is returned when the catalog answers with a non-200 status.
type ErrUpstreamStatus struct {
	URL        string
	StatusCode int
}

// Error implements the error interface.
func (e *ErrUpstreamStatus) Error() string {
	return fmt.Sprintf("catalog returned status %d for %s", e.StatusCode, e.URL)
}

// Is allows for error checking with errors.Is().
func (e *ErrUpstreamStatus) Is(target error) bool {
	_, ok := target.(*ErrUpstreamStatus)
	return ok
}

// ErrUnexpectedShape is returned when a catalog payload does not match the expected structure.
type ErrUnexpectedShape struct {
	Payload string // "search" or "episodes"
	Index   int    // Offending element, -1 when the whole document is rejected
	Reason  string
	Err     error
}

// Error implements the error interface.
func (e *ErrUnexpectedShape) Error() string {
	msg := fmt.Sprintf("unexpected %s payload", e.Payload)
	if e.Index >= 0 {
		msg = fmt.Sprintf("%s at index %d", msg, e.Index)
	}
	if e.Reason != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Reason)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying decode error, if any.
func (e *ErrUnexpectedShape) Unwrap() error {
	return e.Err
}

// Is allows for error checking with errors.Is().
func (e *ErrUnexpectedShape) Is(target error) bool {
	_, ok := target.(*ErrUnexpectedShape)
	return ok
}

// NewShapeError creates an ErrUnexpectedShape for a single payload element.
func NewShapeError(payload string, index int, reason string) *ErrUnexpectedShape {
	return &ErrUnexpectedShape{
		Payload: payload,
		Index:   index,
		Reason:  reason,
	}
}

// Kind classifies an error for logging and metric labels.
func Kind(err error) string {
	var (
		notFound *ErrNotFound
		shape    *ErrUnexpectedShape
		status   *ErrUpstreamStatus
	)
	switch {
	case err == nil:
		return "none"
	case errors.As(err, &notFound):
		return "not_found"
	case errors.As(err, &shape):
		return "shape"
	case errors.As(err, &status):
		return "status"
	default:
		return "transport"
	}
}
