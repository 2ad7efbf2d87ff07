package adapter

import (
	"errors"
	"fmt"

	"github.com/roach88/herald/internal/ir"
)

// ErrorCode categorizes adapter errors.
type ErrorCode string

const (
	// ErrCodeUnknownField means neither the adapter nor the base recognizes
	// a field. Configuration error; aborts the pass.
	ErrCodeUnknownField ErrorCode = "UNKNOWN_FIELD"

	// ErrCodeUnsupportedAction means no applier handles an action. Reported
	// on that effect's transcript, never as a pass failure.
	ErrCodeUnsupportedAction ErrorCode = "UNSUPPORTED_ACTION"

	// ErrCodeExternalLoadFailure means a data collaborator failed. Aborts
	// the pass; never treated as "no data".
	ErrCodeExternalLoadFailure ErrorCode = "EXTERNAL_LOAD_FAILURE"

	// ErrCodeNoObject means the adapter has no object bound yet.
	ErrCodeNoObject ErrorCode = "NO_OBJECT"

	// ErrCodeNotFound means a lookup matched nothing.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
)

// Error is the structured error returned by adapters.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Field is the field being resolved, if any.
	Field ir.FieldID

	// Action is the action being applied, if any.
	Action ir.ActionID

	// Err is the underlying cause (for load failures).
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	switch {
	case e.Field != "":
		msg = fmt.Sprintf("%s (field=%s)", msg, e.Field)
	case e.Action != "":
		msg = fmt.Sprintf("%s (action=%s)", msg, e.Action)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewUnknownFieldError creates an Error for an unrecognized field.
func NewUnknownFieldError(field ir.FieldID) *Error {
	return &Error{
		Code:    ErrCodeUnknownField,
		Message: fmt.Sprintf("unknown field %q", field),
		Field:   field,
	}
}

// NewUnsupportedActionError creates an Error for an action no applier handles.
func NewUnsupportedActionError(action ir.ActionID) *Error {
	return &Error{
		Code:    ErrCodeUnsupportedAction,
		Message: fmt.Sprintf("no rules to handle action %q", action),
		Action:  action,
	}
}

// NewLoadError wraps a collaborator failure while resolving field.
func NewLoadError(field ir.FieldID, what string, err error) *Error {
	return &Error{
		Code:    ErrCodeExternalLoadFailure,
		Message: fmt.Sprintf("loading %s", what),
		Field:   field,
		Err:     err,
	}
}

// NewNoObjectError creates an Error for an adapter with nothing bound.
func NewNoObjectError(contentType string) *Error {
	return &Error{
		Code:    ErrCodeNoObject,
		Message: fmt.Sprintf("%s adapter has no object bound", contentType),
	}
}

// NewNotFoundError creates an Error for a lookup that matched nothing.
func NewNotFoundError(what string) *Error {
	return &Error{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found", what),
	}
}

func hasCode(err error, code ErrorCode) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}

// IsUnknownField reports whether err is an unknown-field error.
func IsUnknownField(err error) bool { return hasCode(err, ErrCodeUnknownField) }

// IsUnsupportedAction reports whether err is an unsupported-action error.
func IsUnsupportedAction(err error) bool { return hasCode(err, ErrCodeUnsupportedAction) }

// IsExternalLoadFailure reports whether err is a collaborator load failure.
func IsExternalLoadFailure(err error) bool { return hasCode(err, ErrCodeExternalLoadFailure) }

// IsNoObject reports whether err means no object is bound.
func IsNoObject(err error) bool { return hasCode(err, ErrCodeNoObject) }

// IsNotFound reports whether err is a not-found error, including one
// wrapped inside a load failure.
func IsNotFound(err error) bool {
	for err != nil {
		if hasCode(err, ErrCodeNotFound) {
			return true
		}
		var ae *Error
		if !errors.As(err, &ae) {
			return false
		}
		err = ae.Err
	}
	return false
}
