package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, username, email, full_name, phone, password_hash, is_active, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &u.Phone,
		&u.PasswordHash, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a user. Duplicate usernames or emails yield *UniqueViolationError.
func (db *DB) CreateUser(ctx context.Context, u *User) (*User, error) {
	created, err := scanUser(db.pool.QueryRow(ctx,
		`INSERT INTO users (username, email, full_name, phone, password_hash)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+userColumns,
		u.Username, u.Email, u.FullName, u.Phone, u.PasswordHash,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", uniqueViolation(err))
	}
	return created, nil
}

func (db *DB) getUserBy(ctx context.Context, column string, value any) (*User, error) {
	u, err := scanUser(db.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE `+column+` = $1`, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// GetUserByID returns the user with id, or nil if none exists.
func (db *DB) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return db.getUserBy(ctx, "id", id)
}

// GetUserByUsername returns the user with username, or nil if none exists.
func (db *DB) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	return db.getUserBy(ctx, "username", username)
}

// GetUserByEmail returns the user with email, or nil if none exists.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return db.getUserBy(ctx, "email", email)
}

// UpdateUser saves the editable profile fields of u.
func (db *DB) UpdateUser(ctx context.Context, u *User) (*User, error) {
	updated, err := scanUser(db.pool.QueryRow(ctx,
		`UPDATE users SET email = $2, full_name = $3, phone = $4, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+userColumns,
		u.ID, u.Email, u.FullName, u.Phone,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", uniqueViolation(err))
	}
	return updated, nil
}

// UpdatePassword replaces the stored password hash.
func (db *DB) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`,
		userID, passwordHash)
	return affected(tag, err, "update password")
}

// CreateSession records a login session.
func (db *DB) CreateSession(ctx context.Context, userID uuid.UUID, ttl time.Duration) (*Session, error) {
	s := Session{ID: uuid.New(), UserID: userID, IsActive: true, ExpiresAt: time.Now().Add(ttl)}
	err := db.pool.QueryRow(ctx,
		`INSERT INTO user_sessions (id, user_id, expires_at)
		 VALUES ($1, $2, $3)
		 RETURNING created_at`,
		s.ID, userID, s.ExpiresAt,
	).Scan(&s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return &s, nil
}

// GetActiveSession returns the session if it is active and unexpired, or nil otherwise.
func (db *DB) GetActiveSession(ctx context.Context, sessionID uuid.UUID) (*Session, error) {
	var s Session
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, expires_at, is_active, created_at
		 FROM user_sessions
		 WHERE id = $1 AND is_active AND expires_at > NOW()`,
		sessionID,
	).Scan(&s.ID, &s.UserID, &s.ExpiresAt, &s.IsActive, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &s, nil
}

// DeactivateSession ends a session owned by userID.
func (db *DB) DeactivateSession(ctx context.Context, sessionID, userID uuid.UUID) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE user_sessions SET is_active = FALSE WHERE id = $1 AND user_id = $2`,
		sessionID, userID)
	return affected(tag, err, "deactivate session")
}
