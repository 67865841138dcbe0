package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness or state precondition was violated.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidInput indicates the request was malformed and never reached storage.
	ErrInvalidInput = errors.New("invalid input")
)

// NotFoundError reports which entity and key were absent.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q: not found", e.Entity, e.Key)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ConflictError reports a uniqueness violation on an entity key.
type ConflictError struct {
	Entity string
	Key    string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %q: already exists", e.Entity, e.Key)
}

func (e *ConflictError) Unwrap() error { return ErrAlreadyExists }

// ValidationError reports a malformed or out-of-range input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewNotFound builds a NotFoundError for the given entity and key.
func NewNotFound(entity string, key any) *NotFoundError {
	return &NotFoundError{Entity: entity, Key: fmt.Sprint(key)}
}

// NewConflict builds a ConflictError for the given entity and key.
func NewConflict(entity string, key any) *ConflictError {
	return &ConflictError{Entity: entity, Key: fmt.Sprint(key)}
}

// NewValidation builds a ValidationError for a field.
func NewValidation(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
