/*
Package shared holds the types every subdomain depends on: sentinel errors,
the filter model, pagination and the generic repository contract.

Error design:
 1. Sentinel errors are matched with errors.Is and carry no detail.
 2. DomainError captures the call stack when it is created and formats it lazily.
 3. Driver errors are wrapped in PersistenceError so callers can tell a storage
    failure apart from an absent entity or a rejected transition.
 4. Nothing here knows about HTTP status codes.
*/
package shared

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// ============================================================================
// Sentinel errors
// ============================================================================

var (
	// ErrNotFound the addressed entity does not exist
	ErrNotFound = errors.New("not found")

	// ErrConflict unique constraint or concurrent modification
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput argument validation failed
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidTransition lifecycle move not permitted from the current state
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrTransitionRejected a transition validator refused the move
	ErrTransitionRejected = errors.New("transition rejected")

	// ErrPersistence the storage backend rejected or could not complete an operation
	ErrPersistence = errors.New("persistence failure")

	// ErrNotImplemented adapter has no binding logic
	ErrNotImplemented = errors.New("not implemented")
)

// ============================================================================
// DomainError
// ============================================================================

// DomainError structured error with business context and the stack of its origin
type DomainError struct {
	// Err underlying sentinel, used by errors.Is
	Err error

	// Entity name of the entity involved ("order", "user")
	Entity string

	// Message human readable description
	Message string

	// Field optional field name for validation errors
	Field string

	stack []uintptr
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Stack formats the captured frames on demand
func (e *DomainError) Stack() []string {
	return FormatStack(e.stack)
}

// CaptureStack records the current call stack.
// skip is usually 3: Callers, CaptureStack, NewXxxError
func CaptureStack(skip int) []uintptr {
	var pcs [32]uintptr
	n := runtime.Callers(skip, pcs[:])
	return pcs[:n]
}

// FormatStack renders frames as "file:line function", skipping runtime frames, at most 10
func FormatStack(stack []uintptr) []string {
	if len(stack) == 0 {
		return nil
	}

	frames := runtime.CallersFrames(stack)
	var result []string
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			result = append(result, fmt.Sprintf("%s:%d %s", frame.File, frame.Line, frame.Function))
		}
		if !more || len(result) > 10 {
			break
		}
	}
	return result
}

// NewNotFoundError creates a not-found domain error
func NewNotFoundError(entity string) error {
	return &DomainError{
		Err:     ErrNotFound,
		Entity:  entity,
		Message: entity + " not found",
		stack:   CaptureStack(3),
	}
}

// NewConflictError creates a conflict domain error
func NewConflictError(entity, message string) error {
	return &DomainError{
		Err:     ErrConflict,
		Entity:  entity,
		Message: message,
		stack:   CaptureStack(3),
	}
}

// NewValidationError creates a validation domain error
func NewValidationError(entity, field, reason string) error {
	return &DomainError{
		Err:     ErrInvalidInput,
		Entity:  entity,
		Field:   field,
		Message: reason,
		stack:   CaptureStack(3),
	}
}

// ============================================================================
// PersistenceError
// ============================================================================

// PersistenceError wraps a storage driver error.
// errors.Is(err, ErrPersistence) holds, and errors.As still reaches the driver error.
type PersistenceError struct {
	Backend string
	Op      string
	Err     error

	stack []uintptr
}

// NewPersistenceError wraps err; returns nil when err is nil
func NewPersistenceError(backend, op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{
		Backend: backend,
		Op:      op,
		Err:     err,
		stack:   CaptureStack(3),
	}
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Backend, e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Is reports ErrPersistence as part of the chain
func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

func (e *PersistenceError) Stack() []string {
	return FormatStack(e.stack)
}

// NotImplementedError is returned by adapters that were scaffolded without binding logic
type NotImplementedError struct {
	Adapter string
	Op      string
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("%s adapter scaffolding generated; implement repository binding logic (%s)", e.Adapter, e.Op)
}

func (e *NotImplementedError) Unwrap() error {
	return ErrNotImplemented
}

// Stacker errors that can provide a stack
type Stacker interface {
	Stack() []string
}
