// Package domain defines the error taxonomy shared by every layer of the
// OpenAlex Explorer service.
package domain

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for common error conditions.
var (
	// ErrNotFound indicates that a requested entity was not found upstream.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that caller-supplied parameters are invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrRateLimited indicates that the upstream API rate limited the request.
	ErrRateLimited = errors.New("rate limited")

	// ErrServiceUnavailable indicates that the upstream API is unavailable.
	ErrServiceUnavailable = errors.New("service unavailable")
)

// ValidationError represents a validation error for a specific field.
// It is raised immediately and never retried.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// Unwrap returns the underlying sentinel error for use with errors.Is.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// NotFoundError provides details about a not found entity. Identifier-based
// lookups translate it into an absent result rather than a failure.
type NotFoundError struct {
	Entity string
	ID     string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

// Unwrap returns the underlying sentinel error for use with errors.Is.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// RateLimitError provides details about a rate limit response.
type RateLimitError struct {
	Source     string
	RetryAfter time.Duration
}

// Error implements the error interface.
func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited by %s: retry after %s", e.Source, e.RetryAfter)
}

// Unwrap returns the underlying sentinel error for use with errors.Is.
func (e *RateLimitError) Unwrap() error {
	return ErrRateLimited
}

// ExternalAPIError provides details about an upstream API failure that is
// not a 404. Retries have already been exhausted by the time one is returned.
type ExternalAPIError struct {
	Source     string
	StatusCode int
	Message    string
	Cause      error
}

// Error implements the error interface.
func (e *ExternalAPIError) Error() string {
	return fmt.Sprintf("%s API error (status %d): %s", e.Source, e.StatusCode, e.Message)
}

// Unwrap returns the underlying cause error.
func (e *ExternalAPIError) Unwrap() error {
	return e.Cause
}

// IsNotFound reports whether err indicates a missing entity.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidInput reports whether err indicates invalid caller input.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(entity, id string) *NotFoundError {
	return &NotFoundError{
		Entity: entity,
		ID:     id,
	}
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// NewRateLimitError creates a new RateLimitError.
func NewRateLimitError(source string, retryAfter time.Duration) *RateLimitError {
	return &RateLimitError{
		Source:     source,
		RetryAfter: retryAfter,
	}
}

// NewExternalAPIError creates a new ExternalAPIError.
func NewExternalAPIError(source string, statusCode int, message string, cause error) *ExternalAPIError {
	return &ExternalAPIError{
		Source:     source,
		StatusCode: statusCode,
		Message:    message,
		Cause:      cause,
	}
}
