// Package errors provides custom error types for the edforge system.
// These errors enable programmatic error checking across the catalog,
// library, and runtime layers and the transports built on top of them.
package errors

import (
	"context"
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// As finds the first error in err's chain that matches target.
// It's an alias for the standard library errors.As.
var As = errors.As

// Common sentinel errors for the edforge system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrProviderUnavailable indicates that a provider could not deliver its catalog
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrLockUnavailable indicates that a state guard could not be acquired
	ErrLockUnavailable = errors.New("lock unavailable")

	// ErrNotificationFailed indicates that an event could not be delivered to the UI layer
	ErrNotificationFailed = errors.New("notification failed")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// LockError reports that the guard protecting a state cell could not be
// acquired. The cell's contents can no longer be trusted; other cells are
// unaffected.
type LockError struct {
	Cell string
	Err  error
}

// Error implements the error interface
func (e *LockError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s lock poisoned: %v", e.Cell, e.Err)
	}
	return fmt.Sprintf("%s lock poisoned", e.Cell)
}

// Unwrap implements errors.Unwrap
func (e *LockError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *LockError) Is(target error) bool {
	return target == ErrLockUnavailable
}

// NewLockError creates a new LockError
func NewLockError(cell string, err error) *LockError {
	return &LockError{Cell: cell, Err: err}
}

// NotificationError reports that an event could not be delivered after the
// mutation that produced it was committed.
type NotificationError struct {
	Event string
	Err   error
}

// Error implements the error interface
func (e *NotificationError) Error() string {
	return fmt.Sprintf("event emit failed for %s: %v", e.Event, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *NotificationError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *NotificationError) Is(target error) bool {
	return target == ErrNotificationFailed
}

// NewNotificationError creates a new NotificationError
func NewNotificationError(event string, err error) *NotificationError {
	return &NotificationError{Event: event, Err: err}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// SyncError represents a failure while fetching a provider's catalog
type SyncError struct {
	Provider string
	Err      error
}

// Error implements the error interface
func (e *SyncError) Error() string {
	return fmt.Sprintf("sync error for provider %s: %v", e.Provider, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *SyncError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *SyncError) Is(target error) bool {
	return target == ErrProviderUnavailable
}

// NewSyncError creates a new SyncError
func NewSyncError(provider string, err error) *SyncError {
	return &SyncError{
		Provider: provider,
		Err:      err,
	}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "yaml"
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// ResourceError represents an error during resource operations
type ResourceError struct {
	Operation string // "create", "build", "save", "launch", "remove"
	Resource  string // "catalog", "library entry", "runtime config"
	ID        string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ResourceError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("failed to %s %s %s: %s", e.Operation, e.Resource, e.ID, e.Message)
	}
	return fmt.Sprintf("failed to %s %s: %s", e.Operation, e.Resource, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ResourceError) Unwrap() error {
	return e.Err
}

// NewResourceError creates a new ResourceError
func NewResourceError(operation, resource, id string, err error) *ResourceError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ResourceError{
		Operation: operation,
		Resource:  resource,
		ID:        id,
		Message:   message,
		Err:       err,
	}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsLockUnavailable checks if an error reports a poisoned state guard
func IsLockUnavailable(err error) bool {
	return errors.Is(err, ErrLockUnavailable)
}

// IsNotificationFailure checks if an error only reports a failed event
// delivery. The mutation that triggered the event has been committed.
func IsNotificationFailure(err error) bool {
	return errors.Is(err, ErrNotificationFailed)
}

// IsProviderUnavailable checks if an error indicates provider unavailability
func IsProviderUnavailable(err error) bool {
	return errors.Is(err, ErrProviderUnavailable)
}

// IsCanceled checks if an error is a cancellation error, including a
// canceled or expired context
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// Helper wrapping functions for common patterns

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapResource wraps an error as a ResourceError
func WrapResource(operation, resource, id string, err error) error {
	if err == nil {
		return nil
	}
	return NewResourceError(operation, resource, id, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// WrapSync wraps an error as a SyncError for the given provider
func WrapSync(provider string, err error) error {
	if err == nil {
		return nil
	}
	return NewSyncError(provider, err)
}
