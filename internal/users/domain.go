package users

import (
	"time"

	"github.com/forkful-app/forkful/internal/domain"
)

// User represents a registered account. The credential holds only a derived
// hash; plaintext passwords never reach this type.
type User struct {
	ID         string
	Name       string
	Email      domain.Email
	Credential domain.Password
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// PublicUser is the credential-free projection of a User. It is the only
// form of a user record returned across the system boundary.
type PublicUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Public returns the credential-free projection.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email.String(),
	}
}
