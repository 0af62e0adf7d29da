package users

import (
	"context"
	"errors"

	"github.com/forkful-app/forkful/internal/domain"
)

var (
	// ErrNotFound indicates the referenced user does not exist.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail indicates a registration conflict on the email
	// unique index. The database is the authority on uniqueness; callers
	// must not attempt their own check-then-act.
	ErrDuplicateEmail = errors.New("email already registered")
)

// Directory defines durable persistence for user records.
type Directory interface {
	FindByEmail(ctx context.Context, email domain.Email) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id string) error
}
