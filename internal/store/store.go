package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrUserExists signals the email or username is already taken.
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound indicates no user matched the lookup.
	ErrUserNotFound = errors.New("user not found")

	ErrArtistNotFound = errors.New("artist not found")
	ErrAlbumNotFound  = errors.New("album not found")
	ErrSongNotFound   = errors.New("song not found")

	ErrPlaylistNotFound = errors.New("playlist not found")
	// ErrNotPlaylistOwner indicates the caller does not own the playlist.
	ErrNotPlaylistOwner = errors.New("not authorized to modify this playlist")
	// ErrSongAlreadyInPlaylist signals a duplicate membership insert.
	ErrSongAlreadyInPlaylist = errors.New("song already in playlist")
	ErrSongNotInPlaylist     = errors.New("song not in playlist")

	ErrAlreadyLiked = errors.New("song already liked")
	ErrLikeNotFound = errors.New("song not in liked songs")
)

// Store provides persistence backed by Postgres.
type Store struct {
	db *sql.DB
}

// New sets up a Store using the provided database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type queryRower interface {
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
