package normalizer

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when the field is absent or blank
	ErrEmptyInput = errors.New("empty input")

	// ErrUnparseablePhone is returned when no interpretation of a phone survives the numbering plan
	ErrUnparseablePhone = errors.New("unparseable phone")

	// ErrUnparseableDate is returned when no strategy resolves a date
	ErrUnparseableDate = errors.New("unparseable date")

	// ErrInvalidCalendarDate is returned when components resolve but do not form a real date
	ErrInvalidCalendarDate = errors.New("invalid calendar date")
)

// Error is the failure half of a normalization outcome. Reason is meant for
// people re-submitting data and carries the raw input.
type Error struct {
	Kind   error
	Reason string

	Raw       string
	Sanitized string

	Year  int
	Month int
	Day   int
}

func (e *Error) Error() string {
	return e.Reason
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func emptyDOB() *Error {
	return &Error{
		Kind:   ErrEmptyInput,
		Reason: "empty dob",
	}
}

func invalidPhone(raw, sanitized string) *Error {
	return &Error{
		Kind:      ErrUnparseablePhone,
		Reason:    fmt.Sprintf("invalid phone: %s -> %s", raw, sanitized),
		Raw:       raw,
		Sanitized: sanitized,
	}
}

func invalidDate(raw string) *Error {
	return &Error{
		Kind:   ErrUnparseableDate,
		Reason: fmt.Sprintf("invalid date: %s", raw),
		Raw:    raw,
	}
}

func invalidComponents(y, m, d int) *Error {
	return &Error{
		Kind:   ErrInvalidCalendarDate,
		Reason: fmt.Sprintf("invalid date components y=%d m=%d d=%d", y, m, d),
		Year:   y,
		Month:  m,
		Day:    d,
	}
}

// Reason returns the human readable reason of a normalization failure, or
// err.Error() for anything else.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	var nerr *Error
	if errors.As(err, &nerr) {
		return nerr.Reason
	}
	return err.Error()
}
