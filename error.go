package rundown

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	EINTERNAL  = "internal"
	EINVALID   = "invalid"
	ENOTFOUND  = "not_found"
	ESCHEMA    = "schema"
	ESTATION   = "unknown_station"
	EMALFORMED = "malformed_name"
)

// Error represents an application-specific error.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error"
}

// IsSchemaError reports whether err signals a missing structural node.
func IsSchemaError(err error) bool { return ErrorCode(err) == ESCHEMA }

// IsUnknownStation reports whether err signals a station outside the directory.
func IsUnknownStation(err error) bool { return ErrorCode(err) == ESTATION }

// IsMalformedName reports whether err signals an unparseable export file name.
func IsMalformedName(err error) bool { return ErrorCode(err) == EMALFORMED }

// FieldError records a field value that could not be interpreted. Field
// errors are collected during extraction and never abort a walk.
type FieldError struct {
	Source   string
	ObjectID string
	Field    FieldID
	Value    string
	Err      error
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: object %s: field %s: invalid value %q: %s", e.Source, e.ObjectID, e.Field, e.Value, e.Err)
}

// Unwrap returns the underlying parse error.
func (e *FieldError) Unwrap() error {
	return e.Err
}
