package hierarchy

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the hierarchy file is missing or unreadable.
	ErrNotFound = errors.New("hierarchy: file not found or unreadable")

	// ErrInvalidExtension indicates a path without the .sol suffix.
	ErrInvalidExtension = errors.New("hierarchy: file must have a .sol extension")

	// ErrInvalidFormat matches every malformed-content error.
	ErrInvalidFormat = errors.New("hierarchy: invalid format")

	// ErrInvalidHeader indicates a malformed camera or light line.
	ErrInvalidHeader = errors.New("hierarchy: invalid header")

	// ErrInvalidBody indicates a malformed or misplaced body record.
	ErrInvalidBody = errors.New("hierarchy: invalid body record")
)

// Section identifies which part of the file a [FormatError] came from.
type Section int

const (
	SectionHeader Section = iota + 1
	SectionBody
)

func (s Section) String() string {
	switch s {
	case SectionHeader:
		return "header"
	case SectionBody:
		return "body record"
	default:
		return "record"
	}
}

// FormatError reports the first malformed line of a hierarchy file.
// It matches [ErrInvalidFormat] and either [ErrInvalidHeader] or
// [ErrInvalidBody] under errors.Is, plus any wrapped cause.
type FormatError struct {
	Section Section
	Line    int
	Field   string
	Reason  string
	Err     error
}

func (e *FormatError) Error() string {
	msg := fmt.Sprintf("hierarchy: invalid %s at line %d", e.Section, e.Line)
	if e.Field != "" {
		msg += fmt.Sprintf(" (%s)", e.Field)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() []error {
	errs := []error{ErrInvalidFormat}
	switch e.Section {
	case SectionHeader:
		errs = append(errs, ErrInvalidHeader)
	case SectionBody:
		errs = append(errs, ErrInvalidBody)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func headerError(line int, field, reason string, err error) *FormatError {
	return &FormatError{Section: SectionHeader, Line: line, Field: field, Reason: reason, Err: err}
}

func bodyError(line int, field, reason string, err error) *FormatError {
	return &FormatError{Section: SectionBody, Line: line, Field: field, Reason: reason, Err: err}
}
