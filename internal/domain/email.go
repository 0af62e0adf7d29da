// Package domain holds the value objects shared by the user-facing modules.
package domain

import (
	"errors"
	"regexp"
)

// ErrInvalidEmail indicates a malformed email address.
var ErrInvalidEmail = errors.New("invalid email address")

// emailPattern accepts a single-@ address with an ASCII local part and a
// dotted domain. Domain labels may contain word characters, dots and
// hyphens; the final label has no minimum length. No attempt is made to
// validate deliverability.
var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9._-]+\.[A-Za-z0-9_]+$`)

// Email is an immutable, validated email address. Two Emails are equal iff
// their raw strings are equal; no case folding is performed, which is a
// deliberate limitation rather than an oversight.
type Email struct {
	value string
}

// ParseEmail validates raw and returns an Email value. An Email can never
// be observed in an invalid state.
func ParseEmail(raw string) (Email, error) {
	if raw == "" || !emailPattern.MatchString(raw) {
		return Email{}, ErrInvalidEmail
	}
	return Email{value: raw}, nil
}

// String returns the raw address.
func (e Email) String() string {
	return e.value
}

// IsZero reports whether the Email is the zero value.
func (e Email) IsZero() bool {
	return e.value == ""
}
