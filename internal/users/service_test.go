package users_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forkful-app/forkful/internal/domain"
	"github.com/forkful-app/forkful/internal/users"
)

type fakeDirectory struct {
	mu      sync.Mutex
	byID    map[string]*users.User
	byEmail map[string]string
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		byID:    make(map[string]*users.User),
		byEmail: make(map[string]string),
	}
}

func (d *fakeDirectory) FindByEmail(ctx context.Context, email domain.Email) (*users.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	id, ok := d.byEmail[email.String()]
	if !ok {
		return nil, users.ErrNotFound
	}
	clone := *d.byID[id]
	return &clone, nil
}

func (d *fakeDirectory) FindByID(ctx context.Context, id string) (*users.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	user, ok := d.byID[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (d *fakeDirectory) Create(ctx context.Context, user *users.User) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.byEmail[user.Email.String()]; exists {
		return users.ErrDuplicateEmail
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	clone := *user
	d.byID[user.ID] = &clone
	d.byEmail[user.Email.String()] = user.ID
	return nil
}

func (d *fakeDirectory) Update(ctx context.Context, user *users.User) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	existing, ok := d.byID[user.ID]
	if !ok {
		return users.ErrNotFound
	}
	if id, exists := d.byEmail[user.Email.String()]; exists && id != user.ID {
		return users.ErrDuplicateEmail
	}
	delete(d.byEmail, existing.Email.String())
	user.UpdatedAt = time.Now().UTC()
	clone := *user
	d.byID[user.ID] = &clone
	d.byEmail[user.Email.String()] = user.ID
	return nil
}

func (d *fakeDirectory) Delete(ctx context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	user, ok := d.byID[id]
	if !ok {
		return users.ErrNotFound
	}
	delete(d.byEmail, user.Email.String())
	delete(d.byID, id)
	return nil
}

func seedUser(t *testing.T, directory *fakeDirectory, id, name, email, password string) {
	t.Helper()
	parsed, err := domain.ParseEmail(email)
	require.NoError(t, err)
	credential, err := domain.NewPassword(password)
	require.NoError(t, err)
	require.NoError(t, directory.Create(context.Background(), &users.User{
		ID:         id,
		Name:       name,
		Email:      parsed,
		Credential: credential,
	}))
}

func TestGetReturnsPublicProjection(t *testing.T) {
	directory := newFakeDirectory()
	seedUser(t, directory, "user-1", "Ana", "ana@example.com", "secret123")
	service := users.NewService(directory)

	public, err := service.Get(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, users.PublicUser{ID: "user-1", Name: "Ana", Email: "ana@example.com"}, public)

	_, err = service.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, users.ErrNotFound)
}

func TestUpdateProfileKeepsCredentialWhenPasswordEmpty(t *testing.T) {
	directory := newFakeDirectory()
	seedUser(t, directory, "user-1", "Ana", "ana@example.com", "secret123")
	service := users.NewService(directory)
	ctx := context.Background()

	public, err := service.UpdateProfile(ctx, "user-1", "Ana Maria", "ana.maria@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", public.Name)
	assert.Equal(t, "ana.maria@example.com", public.Email)

	stored, err := directory.FindByID(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, stored.Credential.Verify("secret123"))
}

func TestUpdateProfileReplacesCredential(t *testing.T) {
	directory := newFakeDirectory()
	seedUser(t, directory, "user-1", "Ana", "ana@example.com", "secret123")
	service := users.NewService(directory)
	ctx := context.Background()

	_, err := service.UpdateProfile(ctx, "user-1", "Ana", "ana@example.com", "newsecret1")
	require.NoError(t, err)

	stored, err := directory.FindByID(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, stored.Credential.Verify("secret123"))
	assert.True(t, stored.Credential.Verify("newsecret1"))
}

func TestUpdateProfileValidation(t *testing.T) {
	directory := newFakeDirectory()
	seedUser(t, directory, "user-1", "Ana", "ana@example.com", "secret123")
	service := users.NewService(directory)
	ctx := context.Background()

	_, err := service.UpdateProfile(ctx, "user-1", "Ana", "not-an-email", "")
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)

	_, err = service.UpdateProfile(ctx, "user-1", "Ana", "ana@example.com", "short1")
	assert.ErrorIs(t, err, domain.ErrWeakPassword)

	_, err = service.UpdateProfile(ctx, "missing", "Ana", "ana@example.com", "")
	assert.ErrorIs(t, err, users.ErrNotFound)
}

func TestUpdateProfileDuplicateEmail(t *testing.T) {
	directory := newFakeDirectory()
	seedUser(t, directory, "user-1", "Ana", "ana@example.com", "secret123")
	seedUser(t, directory, "user-2", "Ben", "ben@example.com", "secret123")
	service := users.NewService(directory)

	_, err := service.UpdateProfile(context.Background(), "user-2", "Ben", "ana@example.com", "")
	assert.ErrorIs(t, err, users.ErrDuplicateEmail)
}

func TestDeleteAccount(t *testing.T) {
	directory := newFakeDirectory()
	seedUser(t, directory, "user-1", "Ana", "ana@example.com", "secret123")
	service := users.NewService(directory)
	ctx := context.Background()

	require.NoError(t, service.DeleteAccount(ctx, "user-1"))

	_, err := service.Get(ctx, "user-1")
	assert.ErrorIs(t, err, users.ErrNotFound)

	assert.ErrorIs(t, service.DeleteAccount(ctx, "user-1"), users.ErrNotFound)
}
