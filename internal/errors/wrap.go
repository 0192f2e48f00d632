package errors

import (
	"errors"
	"fmt"
)

// ErrorWrapper attaches module and operation context to errors.
type ErrorWrapper struct {
	operation string
	module    string
}

// NewWrapper creates a new error wrapper with operation and module context.
func NewWrapper(module, operation string) *ErrorWrapper {
	return &ErrorWrapper{
		module:    module,
		operation: operation,
	}
}

// Wrap wraps an error with operation context.
// Returns nil if err is nil.
func (w *ErrorWrapper) Wrap(err error, userMessage string) error {
	if err == nil {
		return nil
	}
	return &WrappedError{
		Operation:   w.operation,
		Module:      w.module,
		Cause:       err,
		UserMessage: userMessage,
	}
}

// WrappedError contains both internal error details and user-facing message.
type WrappedError struct {
	Operation   string // e.g. "translate", "reply"
	Module      string // e.g. "postback", "webhook"
	Cause       error
	UserMessage string
}

func (e *WrappedError) Error() string {
	return fmt.Sprintf("[%s:%s] %s: %v", e.Module, e.Operation, e.UserMessage, e.Cause)
}

func (e *WrappedError) Unwrap() error {
	return e.Cause
}

// GetUserMessage returns the user-facing message carried by err.
// Falls back to err.Error() when no WrappedError is in the chain.
func GetUserMessage(err error) string {
	if err == nil {
		return ""
	}
	var wrapped *WrappedError
	if errors.As(err, &wrapped) {
		return wrapped.UserMessage
	}
	return err.Error()
}
