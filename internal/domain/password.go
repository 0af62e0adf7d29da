package domain

import (
	"errors"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// ErrWeakPassword indicates a plaintext that violates the password policy.
var ErrWeakPassword = errors.New("password must be at least 8 characters and contain letters and digits")

const minPasswordLength = 8

// Password holds a bcrypt hash derived from a plaintext secret. The
// plaintext is discarded at construction and cannot be recovered; the value
// can only verify candidates against the stored hash.
type Password struct {
	hash string
}

// NewPassword enforces the password policy, derives a salted bcrypt hash
// and returns the credential. The policy requires at least 8 characters
// with at least one letter and one digit.
func NewPassword(plaintext string) (Password, error) {
	if !passwordAcceptable(plaintext) {
		return Password{}, ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return Password{}, err
	}
	return Password{hash: string(hash)}, nil
}

// PasswordFromHash rehydrates a credential from a stored bcrypt hash.
func PasswordFromHash(hash string) Password {
	return Password{hash: hash}
}

// Verify reports whether candidate matches the stored hash. It never
// returns policy errors; a non-matching candidate simply yields false.
func (p Password) Verify(candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(p.hash), []byte(candidate)) == nil
}

// Hash exposes the derived hash for persistence. Callers must never log it.
func (p Password) Hash() string {
	return p.hash
}

// String masks the credential in any rendered form.
func (p Password) String() string {
	return "********"
}

func passwordAcceptable(plaintext string) bool {
	if len(plaintext) < minPasswordLength {
		return false
	}
	var hasLetter, hasDigit bool
	for _, r := range plaintext {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}
