package normalize

import (
	"errors"
	"fmt"
)

var (
	// ErrEmpty is returned for blank input under the EmptyFail policy.
	ErrEmpty = errors.New("empty value")
	// ErrNoDigits is returned when nothing numeric is left after cleaning,
	// e.g. a lone currency symbol.
	ErrNoDigits = errors.New("no digits")
	// ErrMalformed is returned when the cleaned text is not a plain decimal number.
	ErrMalformed = errors.New("malformed number")
	// ErrBadDate is returned when no layout matches.
	ErrBadDate = errors.New("unrecognised date")
)

// ParseError describes a cell that could not be converted.
type ParseError struct {
	Field string
	Raw   string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s %q: %v", e.Field, e.Raw, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
