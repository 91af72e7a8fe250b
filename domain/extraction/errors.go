package extraction

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why an extraction failed
type ErrorKind string

const (
	KindNotFound           ErrorKind = "NotFound"
	KindInvalidInput       ErrorKind = "InvalidInput"
	KindUnsupportedFormat  ErrorKind = "UnsupportedFormat"
	KindRuntimeUnavailable ErrorKind = "RuntimeUnavailable"
	KindExecutionFailed    ErrorKind = "ExecutionFailed"
	KindTimeout            ErrorKind = "Timeout"
	KindCanceled           ErrorKind = "Canceled"
	KindOutputMissing      ErrorKind = "OutputMissing"
	KindOutputEmpty        ErrorKind = "OutputEmpty"
	KindPermissionDenied   ErrorKind = "PermissionDenied"
)

// Error is the error type produced by every extraction component
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new Error
func NewError(kind ErrorKind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// KindOf returns the kind of the first *Error in the chain, or "" if none
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

func NotFound(message string, cause error) *Error {
	return NewError(KindNotFound, message, cause)
}

func InvalidInput(message string, cause error) *Error {
	return NewError(KindInvalidInput, message, cause)
}

func UnsupportedFormat(message string) *Error {
	return NewError(KindUnsupportedFormat, message, nil)
}

func RuntimeUnavailable(message string, cause error) *Error {
	return NewError(KindRuntimeUnavailable, message, cause)
}

// ExecutionFailed keeps the process diagnostic text verbatim in the message
func ExecutionFailed(message string, cause error) *Error {
	return NewError(KindExecutionFailed, message, cause)
}

func Timeout(message string, cause error) *Error {
	return NewError(KindTimeout, message, cause)
}

func Canceled(message string, cause error) *Error {
	return NewError(KindCanceled, message, cause)
}

func OutputMissing(path string) *Error {
	return NewError(KindOutputMissing, fmt.Sprintf("output file was not created: %s", path), nil)
}

func OutputEmpty(path string) *Error {
	return NewError(KindOutputEmpty, fmt.Sprintf("output file is empty: %s", path), nil)
}

func PermissionDenied(message string, cause error) *Error {
	return NewError(KindPermissionDenied, message, cause)
}
