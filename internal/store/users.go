package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// User represents an account holder.
type User struct {
	ID        int64      `json:"id"`
	Email     string     `json:"email"`
	Username  string     `json:"username"`
	AvatarURL string     `json:"avatar_url,omitempty"`
	IsPremium bool       `json:"is_premium"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// CreateUser registers a new user with an already-hashed password.
func (s *Store) CreateUser(ctx context.Context, email, username, passwordHash string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)
	if email == "" || username == "" || passwordHash == "" {
		return User{}, fmt.Errorf("email, username and password are required")
	}

	var user User
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (email, username, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, email, username, is_premium, created_at
	`, email, username, passwordHash).Scan(&user.ID, &user.Email, &user.Username, &user.IsPremium, &user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, ErrUserExists
		}
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

// UserByEmail returns the user and stored password hash for a login attempt.
func (s *Store) UserByEmail(ctx context.Context, email string) (User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var (
		user      User
		hash      string
		avatarURL sql.NullString
		updatedAt sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, username, password_hash, avatar_url, is_premium, created_at, updated_at
		FROM users
		WHERE email = $1
	`, email).Scan(&user.ID, &user.Email, &user.Username, &hash, &avatarURL, &user.IsPremium, &user.CreatedAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, "", ErrUserNotFound
		}
		return User{}, "", fmt.Errorf("lookup user: %w", err)
	}
	user.AvatarURL = avatarURL.String
	if updatedAt.Valid {
		user.UpdatedAt = &updatedAt.Time
	}
	return user, hash, nil
}

// UserByID returns a single user by ID.
func (s *Store) UserByID(ctx context.Context, id int64) (User, error) {
	var (
		user      User
		avatarURL sql.NullString
		updatedAt sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, username, avatar_url, is_premium, created_at, updated_at
		FROM users
		WHERE id = $1
	`, id).Scan(&user.ID, &user.Email, &user.Username, &avatarURL, &user.IsPremium, &user.CreatedAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("get user: %w", err)
	}
	user.AvatarURL = avatarURL.String
	if updatedAt.Valid {
		user.UpdatedAt = &updatedAt.Time
	}
	return user, nil
}
