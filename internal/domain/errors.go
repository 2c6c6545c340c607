package domain

import (
	"errors"
	"net/http"
)

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// ErrTransient marks storage failures (timeouts, lost connections, serialization
	// conflicts) that survived the storage layer's single retry.
	ErrTransient = errors.New("storage temporarily unavailable")
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// ConflictError represents a resource conflict with details about the existing resource
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // Type of resource (user, document)
	ResourceID   string // ID of the existing/conflicting resource, empty when not disclosed
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return e.Message
}

// StatusCode implements the HTTPError interface
func (e *ConflictError) StatusCode() int {
	return http.StatusConflict
}

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// NotFoundError names the missing resource so handlers can tell a missing
// document apart from a missing user
type NotFoundError struct {
	ResourceType string // user, document
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return e.ResourceType + " not found"
}

// StatusCode implements the HTTPError interface
func (e *NotFoundError) StatusCode() int {
	return http.StatusNotFound
}

// Is allows errors.Is() to match against ErrNotFound
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
