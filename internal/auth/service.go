package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/forkful-app/forkful/internal/domain"
	"github.com/forkful-app/forkful/internal/shared"
	"github.com/forkful-app/forkful/internal/users"
)

// ErrInvalidName indicates an empty or missing user name at registration.
var ErrInvalidName = errors.New("name must not be empty")

// dummyCredential is compared against on the unknown-email login path so
// the timing of a failed login does not reveal whether the account exists.
var dummyCredential = domain.PasswordFromHash("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// Service wraps the authentication use-cases.
type Service struct {
	logger    *slog.Logger
	directory users.Directory
	tokens    *TokenStore
	repo      Repository
}

// NewService constructs a new Service. The session audit repository may be
// nil, in which case login sessions are not recorded.
func NewService(logger *slog.Logger, directory users.Directory, tokens *TokenStore, repo Repository) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger, directory: directory, tokens: tokens, repo: repo}
}

// Register validates the submitted fields, creates the user with a fresh id
// and returns the credential-free projection.
func (s *Service) Register(ctx context.Context, name, email, password string) (users.PublicUser, error) {
	if name == "" {
		return users.PublicUser{}, ErrInvalidName
	}
	parsedEmail, err := domain.ParseEmail(email)
	if err != nil {
		return users.PublicUser{}, err
	}
	credential, err := domain.NewPassword(password)
	if err != nil {
		return users.PublicUser{}, err
	}

	user := &users.User{
		ID:         uuid.NewString(),
		Name:       name,
		Email:      parsedEmail,
		Credential: credential,
	}
	if err := s.directory.Create(ctx, user); err != nil {
		return users.PublicUser{}, err
	}
	return user.Public(), nil
}

// Login verifies the presented credentials and mints a bearer token. An
// unknown email and a wrong password yield the identical error.
func (s *Service) Login(ctx context.Context, email, password, ip, ua string) (string, error) {
	parsedEmail, err := domain.ParseEmail(email)
	if err != nil {
		dummyCredential.Verify(password)
		return "", shared.ErrInvalidCredentials
	}

	user, err := s.directory.FindByEmail(ctx, parsedEmail)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			dummyCredential.Verify(password)
			return "", shared.ErrInvalidCredentials
		}
		return "", err
	}
	if !user.Credential.Verify(password) {
		return "", shared.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		return "", err
	}

	if s.repo != nil {
		expiresAt := time.Now().UTC().Add(s.tokens.TTL())
		if err := s.repo.CreateSession(ctx, tokenDigest(token), user.ID, expiresAt, ip, ua); err != nil {
			s.logger.Warn("record session", slog.Any("error", err))
		}
	}
	return token, nil
}

// CurrentUser resolves an already verified user id to its public record.
// It fails with users.ErrNotFound when the account was deleted after the
// token was issued.
func (s *Service) CurrentUser(ctx context.Context, userID string) (users.PublicUser, error) {
	user, err := s.directory.FindByID(ctx, userID)
	if err != nil {
		return users.PublicUser{}, err
	}
	return user.Public(), nil
}

// Logout revokes the presented token. It always succeeds, including for
// tokens that are already revoked or expired.
func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.tokens.Revoke(ctx, token); err != nil {
		s.logger.Warn("revoke token", slog.Any("error", err))
	}
	if s.repo != nil {
		if err := s.repo.DeleteSession(ctx, tokenDigest(token)); err != nil {
			s.logger.Warn("delete session", slog.Any("error", err))
		}
	}
	return nil
}

func tokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
