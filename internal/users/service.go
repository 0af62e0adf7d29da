package users

import (
	"context"

	"github.com/forkful-app/forkful/internal/domain"
)

// Service handles profile operations on the authenticated account.
type Service struct {
	directory Directory
}

// NewService builds Service instance.
func NewService(directory Directory) *Service {
	return &Service{directory: directory}
}

// Get returns the public projection of the user.
func (s *Service) Get(ctx context.Context, id string) (PublicUser, error) {
	user, err := s.directory.FindByID(ctx, id)
	if err != nil {
		return PublicUser{}, err
	}
	return user.Public(), nil
}

// UpdateProfile replaces name, email and optionally the credential while
// preserving the id. An empty newPassword keeps the current credential.
func (s *Service) UpdateProfile(ctx context.Context, id, name, email, newPassword string) (PublicUser, error) {
	user, err := s.directory.FindByID(ctx, id)
	if err != nil {
		return PublicUser{}, err
	}

	parsedEmail, err := domain.ParseEmail(email)
	if err != nil {
		return PublicUser{}, err
	}

	user.Name = name
	user.Email = parsedEmail
	if newPassword != "" {
		credential, err := domain.NewPassword(newPassword)
		if err != nil {
			return PublicUser{}, err
		}
		user.Credential = credential
	}

	if err := s.directory.Update(ctx, user); err != nil {
		return PublicUser{}, err
	}
	return user.Public(), nil
}

// DeleteAccount removes the user record.
func (s *Service) DeleteAccount(ctx context.Context, id string) error {
	return s.directory.Delete(ctx, id)
}
