// Package errors provides custom error types for the ontology-matcher
// system. These errors enable programmatic error checking and keep the
// failure taxonomy explicit: per-identifier problems accumulate as FailedID
// records and never abort a run, while the errors defined here are fatal.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is is an alias for the standard library errors.Is.
var Is = errors.Is

// As is an alias for the standard library errors.As.
var As = errors.As

// Common sentinel errors.
var (
	// ErrNotFound indicates that a requested record was not found.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoResult indicates that a whole resolver batch produced nothing.
	ErrNoResult = errors.New("no result")

	// ErrAlreadyExists indicates that a resource already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrServiceUnavailable indicates that a backing service is temporarily unavailable.
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrRateLimited indicates that a service rate limit has been exceeded.
	ErrRateLimited = errors.New("rate limited")
)

// Violation is one malformed entry found while validating input identifiers.
type Violation struct {
	Index  int
	ID     string
	Reason string
}

// ValidationError reports every malformed identifier or missing column in
// one value, so the caller can fix the input file once rather than
// iterating.
type ValidationError struct {
	Violations []Violation
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Violations) == 1 {
		v := e.Violations[0]
		return fmt.Sprintf("validation failed for id %q at index %d: %s", v.ID, v.Index, v.Reason)
	}
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, fmt.Sprintf("[%d] %q: %s", v.Index, v.ID, v.Reason))
	}
	return fmt.Sprintf("validation failed for %d ids: %s", len(e.Violations), strings.Join(parts, "; "))
}

// Is implements errors.Is support.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError.
func NewValidationError(violations []Violation) *ValidationError {
	return &ValidationError{Violations: violations}
}

// NoResultError indicates that an entire resolver batch yielded nothing.
// This is fatal to the run and distinct from per-identifier failure: it
// disambiguates a service outage from "all ids unmapped".
type NoResultError struct {
	Message string
}

// Error implements the error interface.
func (e *NoResultError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "no results found for the whole batch; it may be caused by a network issue, a traffic limit or invalid ids. " +
		"If the issue persists, choose a bigger sleep time and a smaller batch size, or check the ids manually"
}

// Is implements errors.Is support.
func (e *NoResultError) Is(target error) bool {
	return target == ErrNoResult
}

// NewNoResultError creates a NoResultError with the default message.
func NewNoResultError() *NoResultError {
	return &NoResultError{}
}

// NotFoundError reports that a converted id could not be traced back to an
// input row. This indicates a broken invariant, not a user error, and is
// fatal.
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// APIError represents a terminal failure from a backing service, after the
// transport has exhausted its retries.
type APIError struct {
	Service    string
	StatusCode int
	Endpoint   string
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error from %s (status %d): %s", e.Service, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error from %s: %s", e.Service, e.Message)
}

// Unwrap implements errors.Unwrap.
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support.
func (e *APIError) Is(target error) bool {
	if e.StatusCode == 429 {
		return target == ErrRateLimited
	}
	if e.StatusCode >= 500 {
		return target == ErrServiceUnavailable
	}
	return false
}

// NewAPIError creates a new APIError.
func NewAPIError(service string, statusCode int, endpoint, message string) *APIError {
	return &APIError{
		Service:    service,
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
	}
}

// WrapAPI creates an APIError wrapping an underlying transport error.
func WrapAPI(service string, statusCode int, endpoint, message string, err error) *APIError {
	return &APIError{
		Service:    service,
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
		Err:        err,
	}
}

// IOError represents an error during file operations.
type IOError struct {
	Operation string // "read", "write", "create", "open", "close"
	Path      string
	Err       error
}

// Error implements the error interface.
func (e *IOError) Error() string {
	return fmt.Sprintf("IO error during %s of %s: %v", e.Operation, e.Path, e.Err)
}

// Unwrap implements errors.Unwrap.
func (e *IOError) Unwrap() error {
	return e.Err
}

// WrapIO wraps an error as an IOError.
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Operation: operation, Path: path, Err: err}
}

// ParseError represents an error when parsing data formats.
type ParseError struct {
	Format  string // "json", "yaml", "tsv"
	File    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// WrapParse wraps an error as a ParseError.
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return &ParseError{Format: format, File: file, Message: err.Error(), Err: err}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsNoResult checks if an error reports an empty resolver batch.
func IsNoResult(err error) bool {
	return errors.Is(err, ErrNoResult)
}

// IsAlreadyExists checks if an error is an already exists error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsRateLimited checks if an error is a rate limit error.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}
