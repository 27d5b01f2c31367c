// Package stacerr defines the two failure kinds raised while evaluating a catalog query.
//
// An ObjectError is attributable to one catalog object (an item or a page) and carries
// that object's identifier. A ValidationError describes structurally invalid input that
// cannot be pinned to a single object, such as missing required keys or unsupported
// filter values. Both abort the query that raised them.
package stacerr

import (
	"errors"
	"fmt"
)

// Object kinds reported by ObjectError
const (
	KindItem              = "item"
	KindFeatureCollection = "FeatureCollection"
)

// ObjectError is raised for failures attributable to a specific catalog object
type ObjectError struct {
	ID      string
	Kind    string
	Message string
	Err     error
}

func (e *ObjectError) Error() string {
	msg := fmt.Sprintf("stac %s %q: %s", e.Kind, e.ID, e.Message)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ObjectError) Unwrap() error {
	return e.Err
}

// NewObjectError creates an ObjectError. err may be nil.
func NewObjectError(id, kind, message string, err error) error {
	return &ObjectError{
		ID:      id,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// ItemError creates an ObjectError for the item with the given id
func ItemError(id, message string, err error) error {
	return NewObjectError(id, KindItem, message, err)
}

// ValidationError is raised for structurally invalid input not attributable to one object
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("validation failed: %s: %v", e.Message, e.Err)
	}
	return "validation failed: " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError from a format string
func NewValidationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// WrapValidationError creates a ValidationError wrapping err
func WrapValidationError(err error, message string) error {
	return &ValidationError{Message: message, Err: err}
}

// IsObjectError reports whether err or any error it wraps is an ObjectError
func IsObjectError(err error) bool {
	var objErr *ObjectError
	return errors.As(err, &objErr)
}

// IsValidationError reports whether err or any error it wraps is a ValidationError
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}
