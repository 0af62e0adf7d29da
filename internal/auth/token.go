package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrTokenInvalid indicates a malformed, unknown or tampered token.
	ErrTokenInvalid = errors.New("token invalid")
	// ErrTokenExpired indicates a structurally known token past its expiry.
	ErrTokenExpired = errors.New("token expired")
)

// tokenBytes of random material, rendered as 43 base64url characters.
const (
	tokenBytes  = 32
	tokenLength = 43
)

// revocationGrace keeps expired token records around long enough to tell an
// expired token apart from garbage. Both verify failures map to the same
// 401 externally.
const revocationGrace = 24 * time.Hour

// TokenStore issues and verifies opaque bearer tokens tracked in Redis.
// Because tokens are server-tracked rather than self-contained, revocation
// takes effect immediately; a revoked token stops verifying at once.
type TokenStore struct {
	client *redis.Client
	ttl    time.Duration
	secret []byte
}

type tokenPayload struct {
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewTokenStore constructs a TokenStore. The secret is process-wide startup
// state mixed into token generation; it is never rotated mid-process.
func NewTokenStore(client *redis.Client, secret string, ttl time.Duration) *TokenStore {
	return &TokenStore{client: client, ttl: ttl, secret: []byte(secret)}
}

// Issue mints a token bound to userID with an absolute expiry of now+TTL.
func (ts *TokenStore) Issue(ctx context.Context, userID string) (string, error) {
	token, err := ts.generateToken()
	if err != nil {
		return "", fmt.Errorf("auth: generate token: %w", err)
	}

	payload := tokenPayload{
		UserID:    userID,
		ExpiresAt: time.Now().UTC().Add(ts.ttl),
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("auth: marshal token payload: %w", err)
	}

	if err := ts.client.Set(ctx, ts.redisKey(token), data, ts.ttl+revocationGrace).Err(); err != nil {
		return "", fmt.Errorf("auth: store token: %w", err)
	}
	return token, nil
}

// Verify resolves a presented token to the bound user id. Structural checks
// run first: a token that is not a well-formed key never reaches Redis.
func (ts *TokenStore) Verify(ctx context.Context, token string) (string, error) {
	if len(token) != tokenLength {
		return "", ErrTokenInvalid
	}
	if _, err := base64.RawURLEncoding.DecodeString(token); err != nil {
		return "", ErrTokenInvalid
	}

	data, err := ts.client.Get(ctx, ts.redisKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrTokenInvalid
		}
		return "", fmt.Errorf("auth: load token: %w", err)
	}

	var payload tokenPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", ErrTokenInvalid
	}
	if time.Now().UTC().After(payload.ExpiresAt) {
		return "", ErrTokenExpired
	}
	return payload.UserID, nil
}

// Revoke invalidates a token. Revoking an unknown or malformed token is a
// no-op so logout stays idempotent.
func (ts *TokenStore) Revoke(ctx context.Context, token string) error {
	if len(token) != tokenLength {
		return nil
	}
	if err := ts.client.Del(ctx, ts.redisKey(token)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("auth: revoke token: %w", err)
	}
	return nil
}

// TTL exposes the configured token lifetime.
func (ts *TokenStore) TTL() time.Duration {
	return ts.ttl
}

func (ts *TokenStore) redisKey(token string) string {
	return "token:" + token
}

func (ts *TokenStore) generateToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	if len(ts.secret) > 0 {
		for i := range b {
			b[i] ^= ts.secret[i%len(ts.secret)]
		}
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
