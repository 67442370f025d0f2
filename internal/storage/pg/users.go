package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/taskboard-dev/taskboard/internal/domain"
	internal_errors "github.com/taskboard-dev/taskboard/internal/errors"
)

// =========================================================================
// Public Methods (satisfy the service CredentialStore interfaces)
// =========================================================================

// SaveUser inserts a new identity record. Identities normally arrive from
// the external identity source; this entry point serves the provisioning
// tool and tests.
func (s *Storage) SaveUser(user domain.User) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.saveUser(tx, user)
	})
}

// User fetches a user by email, read-only on the connection pool.
func (s *Storage) User(email string) (domain.User, error) {
	return s.user(s.db, email)
}

// UserById fetches a user by its opaque id.
func (s *Storage) UserById(id domain.UserId) (domain.User, error) {
	return s.userById(s.db, id)
}

// UpsertCachedUser writes the owner-shadow record for a user. Idempotent:
// at most one row per id, repeat calls are no-ops.
func (s *Storage) UpsertCachedUser(user domain.CachedUser) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.upsertCachedUser(tx, user)
	})
}

// CachedUser fetches an owner-shadow record by user id.
func (s *Storage) CachedUser(id domain.UserId) (domain.CachedUser, error) {
	var user domain.CachedUser
	err := s.db.QueryRow(
		"SELECT id, name, username, email, created_at FROM cached_users WHERE id = $1", id,
	).Scan(&user.Id, &user.Name, &user.Username, &user.Email, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.CachedUser{}, internal_errors.NotFound("Cached user not found")
		}
		return domain.CachedUser{}, fmt.Errorf("failed to query cached user: %w", err)
	}
	return user, nil
}

// =========================================================================
// Internal Methods (Core Database Logic)
// These methods accept a Querier and are transaction-agnostic.
// =========================================================================

func (s *Storage) saveUser(q Querier, user domain.User) error {
	_, err := q.Exec(
		"INSERT INTO users(id, name, username, email, password_hash, role) VALUES($1, $2, $3, $4, $5, $6)",
		user.Id, user.Name, user.Username, user.Email, user.PassHash, user.Role)
	if err != nil {
		if isUniqueViolation(err, "") {
			return internal_errors.Conflict("User already exists")
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *Storage) user(q Querier, email string) (domain.User, error) {
	var user domain.User
	err := q.QueryRow(
		"SELECT id, name, username, email, password_hash, role FROM users WHERE email = $1", email,
	).Scan(&user.Id, &user.Name, &user.Username, &user.Email, &user.PassHash, &user.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, internal_errors.NotFound("User not found")
		}
		return domain.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

func (s *Storage) userById(q Querier, id domain.UserId) (domain.User, error) {
	var user domain.User
	err := q.QueryRow(
		"SELECT id, name, username, email, password_hash, role FROM users WHERE id = $1", id,
	).Scan(&user.Id, &user.Name, &user.Username, &user.Email, &user.PassHash, &user.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, internal_errors.NotFound("User not found")
		}
		return domain.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

func (s *Storage) upsertCachedUser(q Querier, user domain.CachedUser) error {
	_, err := q.Exec(`
        INSERT INTO cached_users(id, name, username, email)
        VALUES($1, $2, $3, $4)
        ON CONFLICT (id) DO NOTHING`,
		user.Id, user.Name, user.Username, user.Email)
	if err != nil {
		return fmt.Errorf("failed to upsert cached user: %w", err)
	}
	return nil
}
