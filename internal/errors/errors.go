// Package errors holds the typed errors shared by the yidmfa packages.
// Every typed error unwraps to one of the sentinels so callers can test
// the broad category with errors.Is.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates a missing file, URL or column.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates malformed input or configuration.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnsupported indicates an unsupported format or encoding.
	ErrUnsupported = errors.New("unsupported")
)

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool { return errors.As(err, target) }

// IOError wraps a failed filesystem or network operation.
type IOError struct {
	Op   string // "read", "write", "download", ...
	Path string // file path or URL
	Err  error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ParseError reports malformed content in a given format.
type ParseError struct {
	Format  string // "TextGrid", "CSV", "dictionary", ...
	Path    string
	Line    int // 0 when unknown
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	loc := e.Path
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d", e.Path, e.Line)
	}
	if loc != "" {
		return fmt.Sprintf("parse %s %s: %s", e.Format, loc, e.Message)
	}
	return fmt.Sprintf("parse %s: %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// ValidationError reports an invalid configuration value.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// UnsupportedError reports a value outside the supported set.
type UnsupportedError struct {
	What  string // "encoding", "dictionary format", ...
	Value string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported %s %q", e.What, e.Value)
}

func (e *UnsupportedError) Unwrap() error { return ErrUnsupported }

// NotFoundError reports a missing resource.
type NotFoundError struct {
	What string
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.What, e.Name)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NewIO creates an IOError.
func NewIO(op, path string, err error) *IOError {
	return &IOError{Op: op, Path: path, Err: err}
}

// NewParse creates a ParseError.
func NewParse(format, path string, line int, message string) *ParseError {
	return &ParseError{Format: format, Path: path, Line: line, Message: message}
}

// NewValidation creates a ValidationError.
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NewUnsupported creates an UnsupportedError.
func NewUnsupported(what, value string) *UnsupportedError {
	return &UnsupportedError{What: what, Value: value}
}

// NewNotFound creates a NotFoundError.
func NewNotFound(what, name string) *NotFoundError {
	return &NotFoundError{What: what, Name: name}
}
