package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ValidationError reports malformed or missing submitted fields. It is
// recoverable; the field map is surfaced to the caller as-is.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError builds a single-field validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// ReferenceNotFoundError reports that a submitted identifier does not
// resolve to any stored record
type ReferenceNotFoundError struct {
	Entity string
	ID     uint
}

func (e *ReferenceNotFoundError) Error() string {
	return fmt.Sprintf("%s with id %d does not exist", e.Entity, e.ID)
}

// UniquenessViolationError reports a collision on a unique column such
// as an application ID or CNIC
type UniquenessViolationError struct {
	Field string
}

func (e *UniquenessViolationError) Error() string {
	return fmt.Sprintf("a record with this %s already exists", e.Field)
}

// TransactionAbortedError wraps any other failure that rolled back an
// atomic submission or review. The cause is logged server-side only.
type TransactionAbortedError struct {
	Err error
}

func (e *TransactionAbortedError) Error() string {
	return "operation failed and was rolled back"
}

func (e *TransactionAbortedError) Unwrap() error {
	return e.Err
}

// isDuplicateKey reports whether err is a unique-constraint violation.
// GORM translates driver errors when TranslateError is on; the string
// checks cover the postgres and sqlite drivers used in tests.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLSTATE 23505") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// classifyTxError maps a transaction failure onto the error taxonomy.
// Errors already belonging to the taxonomy pass through untouched.
func classifyTxError(err error, uniqueField string) error {
	var ve *ValidationError
	var rnf *ReferenceNotFoundError
	var uv *UniquenessViolationError
	if errors.As(err, &ve) || errors.As(err, &rnf) || errors.As(err, &uv) {
		return err
	}
	if isDuplicateKey(err) {
		return &UniquenessViolationError{Field: uniqueField}
	}
	return &TransactionAbortedError{Err: err}
}
