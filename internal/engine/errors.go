package engine

import (
	"errors"
	"fmt"
)

// PassErrorCode categorizes pass-level failures.
type PassErrorCode string

const (
	// ErrCodeSnapshotFailed means a field could not be resolved. The
	// underlying adapter error says whether it was an unknown field or a
	// failed load.
	ErrCodeSnapshotFailed PassErrorCode = "SNAPSHOT_FAILED"

	// ErrCodeObjectMismatch means an effect names a different object than
	// the one bound to the adapter.
	ErrCodeObjectMismatch PassErrorCode = "OBJECT_MISMATCH"

	// ErrCodeTranscriptMismatch means the adapter broke the one transcript
	// per effect, in order, contract.
	ErrCodeTranscriptMismatch PassErrorCode = "TRANSCRIPT_MISMATCH"

	// ErrCodeRecordFailed means the pass was evaluated but not recorded.
	ErrCodeRecordFailed PassErrorCode = "RECORD_FAILED"
)

// PassError is a failure that aborts one pass. Other passes are unaffected.
type PassError struct {
	Code       PassErrorCode
	Message    string
	ObjectPHID string
	Err        error
}

// Error implements the error interface.
func (e *PassError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.ObjectPHID != "" {
		msg += fmt.Sprintf(" (object=%s)", e.ObjectPHID)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *PassError) Unwrap() error {
	return e.Err
}

// IsPassError reports whether err aborted a pass, and with which code.
func IsPassError(err error, code PassErrorCode) bool {
	var pe *PassError
	if errors.As(err, &pe) {
		return pe.Code == code
	}
	return false
}
