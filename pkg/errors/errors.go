package errors

import (
	"fmt"
)

// ErrNotFound is returned when a resource is not found
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrValidation is returned when validation fails
type ErrValidation struct {
	Message string
	Fields  map[string]string
}

func (e *ErrValidation) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "validation failed"
}

// ErrTransport is returned when an upstream call fails or answers with something unusable.
// StatusCode is 0 when no response was received.
type ErrTransport struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *ErrTransport) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: status %d", e.Op, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op + ": transport failure"
}

func (e *ErrTransport) Unwrap() error {
	return e.Err
}

// ErrMalformedRecord is returned when a single catalog record cannot be parsed
type ErrMalformedRecord struct {
	Record string
	Field  string
	Err    error
}

func (e *ErrMalformedRecord) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed %s: field %s: %v", e.Record, e.Field, e.Err)
	}
	return fmt.Sprintf("malformed %s: field %s", e.Record, e.Field)
}

func (e *ErrMalformedRecord) Unwrap() error {
	return e.Err
}
