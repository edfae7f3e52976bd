// Package ndwrap structured error types
package ndwrap

import (
	"errors"
	"fmt"
)

// ErrorType represents categories of errors
type ErrorType int

const (
	// Memory errors
	ErrTypeMemory ErrorType = iota
	// Invalid argument errors (shape, dtype, value)
	ErrTypeInvalidArg
	// Execution errors
	ErrTypeExecution
)

// Error represents a structured error with context
type Error struct {
	Type    ErrorType
	Op      string // Operation that failed
	Message string // Human-readable message
	Err     error  // Underlying error if any
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ndwrap %s error in %s: %s (caused by: %v)",
			e.Type.String(), e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("ndwrap %s error in %s: %s",
		e.Type.String(), e.Op, e.Message)
}

// Unwrap allows error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

// String returns the error type as a string
func (t ErrorType) String() string {
	switch t {
	case ErrTypeMemory:
		return "Memory"
	case ErrTypeInvalidArg:
		return "InvalidArgument"
	case ErrTypeExecution:
		return "Execution"
	default:
		return "Unknown"
	}
}

// NewMemoryError creates a memory-related error
func NewMemoryError(op string, message string, err error) error {
	return &Error{
		Type:    ErrTypeMemory,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// NewInvalidArgError creates an invalid argument error
func NewInvalidArgError(op string, message string) error {
	return &Error{
		Type:    ErrTypeInvalidArg,
		Op:      op,
		Message: message,
	}
}

// NewExecutionError creates an execution error
func NewExecutionError(op string, message string, err error) error {
	return &Error{
		Type:    ErrTypeExecution,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// invalidArg reports a detailed invalid argument error in op that still
// matches sentinel through errors.Is.
func invalidArg(sentinel error, op string, format string, args ...interface{}) error {
	return &Error{
		Type:    ErrTypeInvalidArg,
		Op:      op,
		Message: fmt.Sprintf(format, args...),
		Err:     sentinel,
	}
}

var (
	// ErrDoubleFree indicates a release of storage that was already released
	ErrDoubleFree = NewMemoryError("Release", "double free detected", nil)

	// ErrUnknownBuffer indicates storage that does not belong to the pool
	ErrUnknownBuffer = NewMemoryError("Free", "buffer not found in allocation pool", nil)

	// ErrInvalidSize indicates a negative length or dimension
	ErrInvalidSize = NewInvalidArgError("Alloc", "size must not be negative")

	// ErrDTypeMismatch indicates an array of the wrong element type
	ErrDTypeMismatch = NewInvalidArgError("DType", "unsupported dtype")

	// ErrShapeMismatch indicates incompatible operand shapes
	ErrShapeMismatch = NewInvalidArgError("Shape", "incompatible shapes")

	// ErrNotMatrix indicates an operand that is not two dimensional
	ErrNotMatrix = NewInvalidArgError("Shape", "operand is not a matrix")

	// ErrNotVector indicates an operand that is not one dimensional
	ErrNotVector = NewInvalidArgError("Shape", "operand is not a vector")

	// ErrReleased indicates use of an array after its last release
	ErrReleased = NewMemoryError("Access", "array already released", nil)
)

// IsMemoryError checks if an error is a memory error
func IsMemoryError(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Type == ErrTypeMemory
	}
	return false
}

// IsInvalidArgError checks if an error is an invalid argument error
func IsInvalidArgError(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Type == ErrTypeInvalidArg
	}
	return false
}

// IsExecutionError checks if an error is an execution error
func IsExecutionError(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Type == ErrTypeExecution
	}
	return false
}
