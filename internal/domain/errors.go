package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure for the boundary layer. Every error that
// crosses out of a component is mapped to exactly one kind; anything
// unclassified is a Fault.
type ErrorKind int

const (
	// KindFault is an unexpected internal or storage error.
	KindFault ErrorKind = iota

	// KindUnauthenticated means the caller presented no usable credential.
	KindUnauthenticated

	// KindForbidden means the caller is authenticated but not the owner.
	KindForbidden

	// KindNotFound means the addressed resource does not exist.
	KindNotFound

	// KindValidation means the request payload was rejected before any
	// side effect took place.
	KindValidation
)

// FieldError points at a single offending request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the failure type shared by all components. Fields is only set for
// validation failures.
type Error struct {
	Kind    ErrorKind
	Message string
	Fields  []FieldError
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Unauthenticated builds a 401-class error.
func Unauthenticated(message string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: message}
}

// Forbidden builds a 403-class error.
func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// NotFound builds a 404-class error.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Invalid builds a 422-class error carrying the offending fields.
func Invalid(message string, fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// Fault wraps an unexpected error. The message is safe to show callers; the
// cause is for logs only.
func Fault(message string, cause error) *Error {
	return &Error{Kind: KindFault, Message: message, cause: cause}
}

// KindOf extracts the kind from an error chain, defaulting to KindFault.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindFault
}
