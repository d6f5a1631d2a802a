package errors

import (
	stdErrors "errors"
	"fmt"
)

// FetchError represents a failed catalog request: a transport failure or a
// non-success response.
type FetchError struct {
	Page       int
	StatusCode int
	Message    string
	Err        error
}

// NewFetchError constructs a FetchError for the given page.
func NewFetchError(page, statusCode int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &FetchError{Page: page, StatusCode: statusCode, Message: message, Err: err}
}

func (e *FetchError) Error() string {
	if e == nil {
		return ""
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch error: page %d: status %d: %s", e.Page, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("fetch error: page %d: %s", e.Page, e.Message)
}

// Unwrap exposes the underlying error.
func (e *FetchError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ParseError represents a malformed document, either a catalog response body
// or a configuration file, with optional line metadata.
type ParseError struct {
	Source  string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(source string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Source: source, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Source, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Source, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// PersistenceError captures a failed read, write or serialization against the
// durable key-value store.
type PersistenceError struct {
	Key string
	Op  string
	Err error
}

// NewPersistenceError constructs a PersistenceError for a storage key.
func NewPersistenceError(key, op string, err error) error {
	return &PersistenceError{Key: key, Op: op, Err: err}
}

func (e *PersistenceError) Error() string {
	if e == nil {
		return ""
	}
	if e.Key != "" {
		return fmt.Sprintf("persistence error: %s %q: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("persistence error: %s: %v", e.Op, e.Err)
}

// Unwrap exposes the underlying error.
func (e *PersistenceError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError captures invalid arguments or configuration values.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsFetchFailure reports whether err came from a failed catalog fetch. A
// malformed response body counts as a fetch failure.
func IsFetchFailure(err error) bool {
	var fetchErr *FetchError
	if stdErrors.As(err, &fetchErr) {
		return true
	}
	var parseErr *ParseError
	return stdErrors.As(err, &parseErr)
}

// IsPersistenceFailure reports whether err came from the key-value store.
func IsPersistenceFailure(err error) bool {
	var persistErr *PersistenceError
	return stdErrors.As(err, &persistErr)
}
