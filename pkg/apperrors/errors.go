package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrUnknownActionType  = errors.New("unknown action type")
	ErrSuggestionReviewed = errors.New("suggestion already processed")
)

// MissingFieldError reports an Action that lacks a field its kind requires.
// It surfaces as a failed ActionResult, never as a panic.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// NewMissingField returns a MissingFieldError for the given field name.
func NewMissingField(field string) error {
	return &MissingFieldError{Field: field}
}

// IsMissingField reports whether err is (or wraps) a MissingFieldError.
func IsMissingField(err error) bool {
	var mfe *MissingFieldError
	return errors.As(err, &mfe)
}

// RepositoryError wraps a failed repository operation. Audit steps match
// on this type to decide whether a failure degrades to an empty finding
// or propagates.
type RepositoryError struct {
	Op  string
	Err error
}

func (e *RepositoryError) Error() string {
	return fmt.Sprintf("repository %s: %v", e.Op, e.Err)
}

func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// NewRepositoryError wraps err with the repository operation that failed.
func NewRepositoryError(op string, err error) error {
	return &RepositoryError{Op: op, Err: err}
}

// IsRepositoryError reports whether err is (or wraps) a RepositoryError.
func IsRepositoryError(err error) bool {
	var re *RepositoryError
	return errors.As(err, &re)
}
