package gradebook

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindDuplicateField      Kind = "duplicate_field"
	KindLengthMismatch      Kind = "length_mismatch"
	KindNotANumber          Kind = "not_a_number"
	KindWeightSumInvalid    Kind = "weight_sum_invalid"
	KindZeroMaxMark         Kind = "zero_max_mark"
	KindMissingField        Kind = "missing_field"
	KindRecordShapeMismatch Kind = "record_shape_mismatch"
	KindInvalidIdentifier   Kind = "invalid_identifier"
	KindDuplicateStudent    Kind = "duplicate_student"
	KindBandInconsistency   Kind = "internal_banding_inconsistency"
)

// Fatal reports whether an error of this kind aborts the whole run.
func (k Kind) Fatal() bool {
	switch k {
	case KindRecordShapeMismatch, KindInvalidIdentifier, KindDuplicateStudent:
		return false
	}
	return true
}

var ErrStudentNotFound = errors.New("student not found")

// Error is a fatal gradebook error. Line is 0 when the error is not tied to
// a specific line of the input.
type Error struct {
	Kind  Kind
	Field string
	Token string
	Line  int
	msg   string
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.msg)
	}
	return e.msg
}

func newError(kind Kind, field string, format string, args ...any) *Error {
	return &Error{
		Kind:  kind,
		Field: field,
		msg:   fmt.Sprintf(format, args...),
	}
}

func (e *Error) atLine(line int) *Error {
	e.Line = line
	return e
}

func (e *Error) withToken(token string) *Error {
	e.Token = token
	return e
}

// IsKind reports whether err wraps a gradebook error of the given kind.
func IsKind(err error, kind Kind) bool {
	var gbErr *Error
	if errors.As(err, &gbErr) {
		return gbErr.Kind == kind
	}
	return false
}

// RecordError describes a student line that was excluded from grading.
type RecordError struct {
	Kind    Kind   `json:"kind"`
	ID      string `json:"id,omitempty"`
	Line    int    `json:"line"`
	RawLine string `json:"raw_line"`
	Reason  string `json:"reason"`
}

func (e RecordError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}
