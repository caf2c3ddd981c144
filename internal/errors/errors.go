// Package errors provides centralized error definitions and error handling
// utilities for the taskmill codebase. It defines the task resolution
// taxonomy (not-found versus invalid), workspace errors, error constructors
// with context wrapping, and classification helpers.
//
// # Error Types
//
// Resolution errors distinguish the two failure modes of task lookup:
//   - TaskNotFoundError: no unit could be loaded for the requested name
//   - InvalidTaskError: a unit loaded but cannot be run
//
// Workspace errors cover project manifest problems:
//   - ManifestError: a project manifest that fails to decode or validate
//
// # Usage
//
// Creating errors:
//
//	err := errors.NewTaskNotFoundError("deps.fetch")
//	err := errors.NewInvalidTaskError("deps.fetch", "no run function")
//
// Checking errors:
//
//	// Check for sentinel errors
//	if errors.Is(err, errors.ErrTaskNotFound) { ... }
//
//	// Check for error types
//	var invalid *errors.InvalidTaskError
//	if errors.As(err, &invalid) { ... }
//
//	// Use classification helpers
//	if errors.IsUserFacing(err) { ... }
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Task-related sentinel errors
var (
	// ErrTaskNotFound indicates that no unit could be loaded for a task name.
	ErrTaskNotFound = New("task not found")
	// ErrTaskInvalid indicates that a unit loaded but cannot be run.
	ErrTaskInvalid = New("task is invalid")
	// ErrNameSyntax indicates that a name does not follow the task naming convention.
	ErrNameSyntax = New("malformed task name")
	// ErrDuplicateTask indicates that a task name is already registered.
	ErrDuplicateTask = New("task already registered")
)

// Workspace-related sentinel errors
var (
	// ErrNoProject indicates that no project manifest was found.
	ErrNoProject = New("no project found")
	// ErrManifestInvalid indicates that a project manifest failed validation.
	ErrManifestInvalid = New("project manifest is invalid")
	// ErrNotUmbrella indicates that an umbrella-only operation was asked of a
	// regular project.
	ErrNotUmbrella = New("project is not an umbrella")
)

// Watch-related sentinel errors
var (
	// ErrWatchLocked indicates that another watcher holds the project lock.
	ErrWatchLocked = New("watch lock held by another process")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// TaskmillError is the base interface for all taskmill errors.
// It extends the standard error interface with methods used by the
// caller-facing layer to classify errors.
type TaskmillError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Is reports whether this error matches the target error.
	// This is used by errors.Is() for error comparison.
	Is(target error) bool

	// IsUserFacing returns true if the error message is safe to display
	// to end users.
	IsUserFacing() bool
}

// -----------------------------------------------------------------------------
// Base Error Implementation
// -----------------------------------------------------------------------------

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	userFacing bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// IsUserFacing returns whether the error is safe to show users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// -----------------------------------------------------------------------------
// Resolution Errors
// -----------------------------------------------------------------------------

// TaskNotFoundError reports a task name for which no unit could be loaded:
// nothing registered under the name and no search location holds a loadable
// unit file for it.
//
// Example:
//
//	err := errors.NewTaskNotFoundError("deps.fetch")
//	fmt.Println(err) // "task 'deps.fetch' not found"
type TaskNotFoundError struct {
	baseError
	Name string
}

// NewTaskNotFoundError creates a new TaskNotFoundError.
func NewTaskNotFoundError(name string) *TaskNotFoundError {
	return &TaskNotFoundError{
		baseError: baseError{
			message:    fmt.Sprintf("task '%s' not found", name),
			userFacing: true,
		},
		Name: name,
	}
}

// WithCause adds a cause to the error.
func (e *TaskNotFoundError) WithCause(cause error) *TaskNotFoundError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *TaskNotFoundError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("task '%s' not found: %v", e.Name, e.cause)
	}
	return fmt.Sprintf("task '%s' not found", e.Name)
}

// Is checks if this error matches the target.
func (e *TaskNotFoundError) Is(target error) bool {
	if _, ok := target.(*TaskNotFoundError); ok {
		return true
	}
	if errors.Is(target, ErrTaskNotFound) {
		return true
	}
	return e.baseError.Is(target)
}

// InvalidTaskError reports a task name whose unit loaded but cannot be run,
// typically because the unit declares no run capability.
//
// Example:
//
//	err := errors.NewInvalidTaskError("deps.fetch", "no run function")
//	fmt.Println(err) // "task 'deps.fetch' is invalid: no run function"
type InvalidTaskError struct {
	baseError
	Name   string
	Reason string
}

// NewInvalidTaskError creates a new InvalidTaskError.
func NewInvalidTaskError(name, reason string) *InvalidTaskError {
	return &InvalidTaskError{
		baseError: baseError{
			message:    fmt.Sprintf("task '%s' is invalid", name),
			userFacing: true,
		},
		Name:   name,
		Reason: reason,
	}
}

// WithCause adds a cause to the error.
func (e *InvalidTaskError) WithCause(cause error) *InvalidTaskError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *InvalidTaskError) Error() string {
	msg := fmt.Sprintf("task '%s' is invalid", e.Name)
	if e.Reason != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Reason)
	}
	if e.cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.cause)
	}
	return msg
}

// Is checks if this error matches the target.
func (e *InvalidTaskError) Is(target error) bool {
	if _, ok := target.(*InvalidTaskError); ok {
		return true
	}
	if errors.Is(target, ErrTaskInvalid) {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Workspace Errors
// -----------------------------------------------------------------------------

// ManifestError reports a project manifest that failed to decode or validate.
//
// Example:
//
//	err := errors.NewManifestError("decode failed", cause).WithPath("apps/web/project.toml")
type ManifestError struct {
	baseError
	Path string
}

// NewManifestError creates a new ManifestError.
func NewManifestError(message string, cause error) *ManifestError {
	return &ManifestError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			userFacing: true,
		},
	}
}

// WithPath adds the manifest path to the error context.
func (e *ManifestError) WithPath(path string) *ManifestError {
	e.Path = path
	return e
}

// Error returns the formatted error message.
func (e *ManifestError) Error() string {
	var parts []string
	if e.Path != "" {
		parts = append(parts, fmt.Sprintf("path=%s", e.Path))
	}

	prefix := "manifest error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("manifest error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *ManifestError) Is(target error) bool {
	if _, ok := target.(*ManifestError); ok {
		return true
	}
	if errors.Is(target, ErrManifestInvalid) {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Error Classification Helpers
// -----------------------------------------------------------------------------

// IsUserFacing returns true if the error message is safe to display to end
// users. This checks for:
//   - Errors implementing TaskmillError with IsUserFacing() returning true
//   - Resolution errors (TaskNotFoundError, InvalidTaskError)
//
// Example:
//
//	if errors.IsUserFacing(err) {
//	    displayToUser(err.Error())
//	} else {
//	    displayToUser("An internal error occurred")
//	    log.Error("internal error", "err", err)
//	}
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}

	var millErr TaskmillError
	if As(err, &millErr) {
		return millErr.IsUserFacing()
	}

	// Resolution errors are always user-facing
	var notFound *TaskNotFoundError
	var invalid *InvalidTaskError

	if As(err, &notFound) || As(err, &invalid) {
		return true
	}

	return false
}

// IsResolution returns true if the error is a resolution error
// (TaskNotFoundError or InvalidTaskError).
func IsResolution(err error) bool {
	if err == nil {
		return false
	}

	var notFound *TaskNotFoundError
	var invalid *InvalidTaskError

	return As(err, &notFound) || As(err, &invalid)
}

// -----------------------------------------------------------------------------
// Convenience Constructors
// -----------------------------------------------------------------------------

// Wrap wraps an error with an additional context message.
//
// Example:
//
//	err := errors.Wrap(baseErr, "failed to load unit")
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
//
// Example:
//
//	err := errors.Wrapf(baseErr, "failed to load unit %s", name)
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
