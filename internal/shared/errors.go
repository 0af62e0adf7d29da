package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure. The same value is
	// returned for an unknown email and a wrong password so a caller
	// cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
