package users

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/forkful-app/forkful/internal/domain"
)

// PGDirectory implements Directory using PostgreSQL. The users table stores
// exactly {id, name, email, password_hash, created_at, updated_at}.
type PGDirectory struct {
	pool *pgxpool.Pool
}

// NewDirectory constructs a PostgreSQL directory.
func NewDirectory(pool *pgxpool.Pool) *PGDirectory {
	return &PGDirectory{pool: pool}
}

const userColumns = `id, name, email, password_hash, created_at, updated_at`

// FindByEmail fetches a user by email.
func (d *PGDirectory) FindByEmail(ctx context.Context, email domain.Email) (*User, error) {
	row := d.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email.String())
	return scanUser(row)
}

// FindByID fetches a user by id.
func (d *PGDirectory) FindByID(ctx context.Context, id string) (*User, error) {
	row := d.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// Create persists a new user record.
func (d *PGDirectory) Create(ctx context.Context, user *User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	_, err := d.pool.Exec(ctx,
		`INSERT INTO users (id, name, email, password_hash, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Name, user.Email.String(), user.Credential.Hash(), user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// Update replaces name, email and credential, preserving the id.
func (d *PGDirectory) Update(ctx context.Context, user *User) error {
	user.UpdatedAt = time.Now().UTC()
	tag, err := d.pool.Exec(ctx,
		`UPDATE users SET name = $2, email = $3, password_hash = $4, updated_at = $5 WHERE id = $1`,
		user.ID, user.Name, user.Email.String(), user.Credential.Hash(), user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a user record.
func (d *PGDirectory) Delete(ctx context.Context, id string) error {
	tag, err := d.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*User, error) {
	var (
		user  User
		email string
		hash  string
	)
	if err := row.Scan(&user.ID, &user.Name, &email, &hash, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	parsed, err := domain.ParseEmail(email)
	if err != nil {
		return nil, err
	}
	user.Email = parsed
	user.Credential = domain.PasswordFromHash(hash)
	return &user, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ Directory = (*PGDirectory)(nil)
