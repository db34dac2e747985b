// Package errors defines the domain error type shared by the engine,
// command layer and transports.
package errors

import stderrors "errors"

// Error is the domain error type with structured metadata.
type Error struct {
	Code     Code              // Machine-readable error code
	Message  string            // Message shown to the actor for invalid actions
	Metadata map[string]string // Additional context for logs
	Cause    error             // Wrapped underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a simple domain error with a code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithMetadata creates a domain error carrying log context.
func WithMetadata(code Code, message string, metadata map[string]string) *Error {
	return &Error{Code: code, Message: message, Metadata: metadata}
}

// Wrap creates a domain error that wraps an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// CodeOf extracts the code of the first domain error in the chain.
func CodeOf(err error) Code {
	var de *Error
	if stderrors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// IsInvalidAction reports whether err is a user-facing, non-fatal failure.
func IsInvalidAction(err error) bool {
	return err != nil && CodeOf(err).Class() == ClassInvalidAction
}

// UserMessage maps err to the terse in-context text an actor sees.
func UserMessage(err error) string {
	var de *Error
	if stderrors.As(err, &de) && de.Code.Class() == ClassInvalidAction && de.Message != "" {
		return de.Message
	}
	return "Huh?"
}
