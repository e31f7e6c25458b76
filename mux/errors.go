package mux

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no endpoint is registered for the request
// path. Corresponds to 404 Not Found per RFC 9110 Section 15.5.5.
var ErrNotFound = errors.New("no matching endpoint was found")

// ErrMethodNotAllowed is returned when the table has no endpoint at all for
// the request method. Corresponds to 405 Method Not Allowed per RFC 9110
// Section 15.5.6.
var ErrMethodNotAllowed = errors.New("method is not allowed")

// ErrMissingArgument is wrapped by ArgumentError when a required argument
// is absent from its source.
var ErrMissingArgument = errors.New("missing required argument")

// ErrArgumentTypeMismatch is wrapped by ArgumentError when a value fails
// every allowed coercion.
var ErrArgumentTypeMismatch = errors.New("argument type mismatch")

// ErrUnsupportedMatcherShape is returned by UnescapePattern for patterns
// that cannot be expressed as a tree key.
var ErrUnsupportedMatcherShape = errors.New("unsupported matcher shape")

// ErrInvalidDeclaration is wrapped by DeclarationError for malformed
// argument declarations and routes.
var ErrInvalidDeclaration = errors.New("invalid declaration")

// ArgumentError describes a request-time binding failure.
type ArgumentError struct {
	// Source is the argument source: path, query, body or header.
	Source Source
	// Name is the declared argument name.
	Name string
	// Reason is a human-readable description suitable for a response body.
	Reason string

	err error
}

func (e *ArgumentError) Error() string {
	return e.Reason
}

func (e *ArgumentError) Unwrap() error {
	return e.err
}

func missingArgument(src Source, name string) *ArgumentError {
	return &ArgumentError{
		Source: src,
		Name:   name,
		Reason: fmt.Sprintf("argument %q is mandatory in %s", name, src),
		err:    ErrMissingArgument,
	}
}

func typeMismatch(src Source, name, reason string) *ArgumentError {
	return &ArgumentError{
		Source: src,
		Name:   name,
		Reason: reason,
		err:    ErrArgumentTypeMismatch,
	}
}

// DeclarationError describes a registration-time failure. Registration
// errors are fatal: callers are expected to abort start-up.
type DeclarationError struct {
	// Subject is the argument name or route path being declared.
	Subject string
	// Reason explains what is wrong with the declaration.
	Reason string
}

func (e *DeclarationError) Error() string {
	return fmt.Sprintf("mux: %s: %s", e.Subject, e.Reason)
}

func (e *DeclarationError) Unwrap() error {
	return ErrInvalidDeclaration
}

func declarationError(subject, format string, args ...any) *DeclarationError {
	return &DeclarationError{Subject: subject, Reason: fmt.Sprintf(format, args...)}
}
