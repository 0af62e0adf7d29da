package domain_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forkful-app/forkful/internal/domain"
)

func TestNewPasswordRejectsWeakPlaintexts(t *testing.T) {
	for _, plaintext := range []string{
		"",
		"short1",
		"seven7a",   // length 7
		"12345678",  // digits only
		"password",  // letters only
		"!!!!!!!!1", // no letters
	} {
		_, err := domain.NewPassword(plaintext)
		assert.ErrorIs(t, err, domain.ErrWeakPassword, "input %q", plaintext)
	}
}

func TestNewPasswordVerifyRoundTrip(t *testing.T) {
	password, err := domain.NewPassword("secret123")
	require.NoError(t, err)

	assert.True(t, password.Verify("secret123"))
	assert.False(t, password.Verify("secret124"))
	assert.False(t, password.Verify(""))
	assert.False(t, password.Verify("SECRET123"))
}

func TestPasswordNeverExposesPlaintext(t *testing.T) {
	password, err := domain.NewPassword("secret123")
	require.NoError(t, err)

	assert.Equal(t, "********", password.String())
	assert.Equal(t, "********", fmt.Sprintf("%v", password))
	assert.NotEmpty(t, password.Hash())
	assert.NotContains(t, password.Hash(), "secret123")
}

func TestPasswordFromHashVerifies(t *testing.T) {
	original, err := domain.NewPassword("secret123")
	require.NoError(t, err)

	restored := domain.PasswordFromHash(original.Hash())
	assert.True(t, restored.Verify("secret123"))
	assert.False(t, restored.Verify("wrongpass1"))
}

func TestPasswordFromHashNeverReportsPolicy(t *testing.T) {
	// Verify on a malformed stored hash returns false, never an error.
	restored := domain.PasswordFromHash("not-a-bcrypt-hash")
	assert.False(t, restored.Verify("secret123"))
}
