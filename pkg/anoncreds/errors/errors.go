package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes
const (
	ErrCodeValidation      = "ANONCREDS_VALIDATION"
	ErrCodeDecode          = "ANONCREDS_DECODE"
	ErrCodeRecordNotFound  = "ANONCREDS_RECORD_NOT_FOUND"
	ErrCodeRecordDuplicate = "ANONCREDS_RECORD_DUPLICATE"
)

// ValidationError is the single error kind raised by Validate operations.
// Error() returns the message verbatim so callers can match on it.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Code returns ErrCodeValidation
func (e *ValidationError) Code() string {
	return ErrCodeValidation
}

// Invalid builds a ValidationError from a format string
func Invalid(format string, args ...interface{}) *ValidationError {
	if len(args) == 0 {
		return &ValidationError{Message: format}
	}
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err (or anything it wraps) is a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return stderrors.As(err, &ve)
}

// DecodeError is raised while deserializing a record: unknown version tags,
// unknown enum wire values or malformed JSON. It is deliberately distinct from
// ValidationError.
type DecodeError struct {
	Kind    string
	Message string
	Cause   error
}

func (e *DecodeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: failed to decode %s: %s (cause: %v)", ErrCodeDecode, e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: failed to decode %s: %s", ErrCodeDecode, e.Kind, e.Message)
}

// Unwrap returns the underlying error
func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// NewDecodeError creates a new DecodeError
func NewDecodeError(kind, message string, cause error) *DecodeError {
	return &DecodeError{Kind: kind, Message: message, Cause: cause}
}

// UnknownVersion reports an envelope whose `ver` tag is not recognised
func UnknownVersion(kind, ver string) *DecodeError {
	if ver == "" {
		return NewDecodeError(kind, "missing version tag `ver`", nil)
	}
	return NewDecodeError(kind, fmt.Sprintf("unknown version tag `ver`: %q", ver), nil)
}

// IsDecodeError reports whether err (or anything it wraps) is a DecodeError
func IsDecodeError(err error) bool {
	var de *DecodeError
	return stderrors.As(err, &de)
}

// RecordError represents a storage failure for a record
type RecordError struct {
	Code     string
	Category string
	ID       string
	Cause    error
}

func (e *RecordError) Error() string {
	msg := "record operation failed"
	switch e.Code {
	case ErrCodeRecordNotFound:
		msg = "record not found"
	case ErrCodeRecordDuplicate:
		msg = "record already exists"
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s %s/%s (cause: %v)", e.Code, msg, e.Category, e.ID, e.Cause)
	}
	return fmt.Sprintf("%s: %s %s/%s", e.Code, msg, e.Category, e.ID)
}

// Unwrap returns the underlying error
func (e *RecordError) Unwrap() error {
	return e.Cause
}

// Is matches another RecordError with the same code, so callers can use
// errors.Is(err, ErrRecordNotFound).
func (e *RecordError) Is(target error) bool {
	t, ok := target.(*RecordError)
	if !ok {
		return false
	}
	return t.Code == e.Code && t.Category == "" && t.ID == ""
}

// NotFound creates a RecordError for a missing record
func NotFound(category, id string) *RecordError {
	return &RecordError{Code: ErrCodeRecordNotFound, Category: category, ID: id}
}

// Duplicate creates a RecordError for a record that already exists
func Duplicate(category, id string, cause error) *RecordError {
	return &RecordError{Code: ErrCodeRecordDuplicate, Category: category, ID: id, Cause: cause}
}

// Common errors
var (
	ErrRecordNotFound  = &RecordError{Code: ErrCodeRecordNotFound}
	ErrRecordDuplicate = &RecordError{Code: ErrCodeRecordDuplicate}
)
