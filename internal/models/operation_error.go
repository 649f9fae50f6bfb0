package models

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed set of failure categories an operation can report.
// Callers use it to tell user-fixable failures from processing failures.
type ErrorKind string

const (
	// KindInvalidInput means a required file, selection or text was missing or malformed
	KindInvalidInput ErrorKind = "invalid_input"
	// KindUnreadableDocument means an uploaded file could not be parsed as a PDF
	KindUnreadableDocument ErrorKind = "unreadable_document"
	// KindConversionFailure means a library failed while transforming a readable document
	KindConversionFailure ErrorKind = "conversion_failure"
	// KindWriteFailure means the output could not be written to the workspace
	KindWriteFailure ErrorKind = "write_failure"
)

// OperationError is returned by every document operation
type OperationError struct {
	Op      Operation
	Kind    ErrorKind
	Message string // user-facing summary
	Err     error  // underlying cause, may be nil for input errors
}

func (e *OperationError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// InputError builds an invalid_input error with no underlying cause
func InputError(op Operation, message string) *OperationError {
	return &OperationError{Op: op, Kind: KindInvalidInput, Message: message}
}

// NewOperationError wraps err with the given kind
func NewOperationError(op Operation, kind ErrorKind, message string, err error) *OperationError {
	return &OperationError{Op: op, Kind: kind, Message: message, Err: err}
}

// KindOf returns the ErrorKind carried by err, or KindConversionFailure when err
// is not an OperationError.
func KindOf(err error) ErrorKind {
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return opErr.Kind
	}
	return KindConversionFailure
}

// UserMessage returns the text shown to the user for err. Input errors show
// only their message; processing failures append the underlying cause.
func UserMessage(err error) string {
	var opErr *OperationError
	if errors.As(err, &opErr) {
		if opErr.Kind == KindInvalidInput || opErr.Err == nil {
			return opErr.Message
		}
		return opErr.Error()
	}
	return err.Error()
}

// IsUserFixable reports whether the user can resolve err by changing their input
func IsUserFixable(err error) bool {
	switch KindOf(err) {
	case KindInvalidInput, KindUnreadableDocument:
		return true
	}
	return false
}
