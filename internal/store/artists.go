package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
)

// Artist represents a catalog artist.
type Artist struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Bio              string    `json:"bio,omitempty"`
	ImageURL         string    `json:"image_url,omitempty"`
	Genres           []string  `json:"genres,omitempty"`
	MonthlyListeners int64     `json:"monthly_listeners"`
	CreatedAt        time.Time `json:"created_at"`
}

// ArtistDetail is an artist with its albums and most-played songs attached.
type ArtistDetail struct {
	Artist
	Albums   []Album `json:"albums"`
	TopSongs []Song  `json:"top_songs"`
}

// ArtistFilter defines criteria for listing artists.
type ArtistFilter struct {
	Search string
	Skip   int
	Limit  int
}

const artistColumns = `id, name, COALESCE(bio, ''), COALESCE(image_url, ''), genres, monthly_listeners, created_at`

func scanArtist(row interface{ Scan(...any) error }) (Artist, error) {
	var artist Artist
	err := row.Scan(&artist.ID, &artist.Name, &artist.Bio, &artist.ImageURL,
		pq.Array(&artist.Genres), &artist.MonthlyListeners, &artist.CreatedAt)
	return artist, err
}

// ListArtists returns artists matching the filter in stable id order.
func (s *Store) ListArtists(ctx context.Context, filter ArtistFilter) ([]Artist, error) {
	query := `SELECT ` + artistColumns + ` FROM artists WHERE 1=1`
	args := []any{}
	argIdx := 1

	if filter.Search != "" {
		query += fmt.Sprintf(" AND name ILIKE $%d", argIdx)
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}

	query += fmt.Sprintf(" ORDER BY id ASC OFFSET $%d LIMIT $%d", argIdx, argIdx+1)
	args = append(args, filter.Skip, filter.Limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list artists: %w", err)
	}
	defer rows.Close()

	artists := make([]Artist, 0)
	for rows.Next() {
		artist, err := scanArtist(rows)
		if err != nil {
			return nil, fmt.Errorf("scan artist: %w", err)
		}
		artists = append(artists, artist)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate artists: %w", err)
	}
	return artists, nil
}

// FeaturedArtists returns the top artists by monthly listeners.
func (s *Store) FeaturedArtists(ctx context.Context, limit int) ([]Artist, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+artistColumns+`
		FROM artists
		ORDER BY monthly_listeners DESC, id ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("featured artists: %w", err)
	}
	defer rows.Close()

	artists := make([]Artist, 0)
	for rows.Next() {
		artist, err := scanArtist(rows)
		if err != nil {
			return nil, fmt.Errorf("scan artist: %w", err)
		}
		artists = append(artists, artist)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate artists: %w", err)
	}
	return artists, nil
}

// GetArtist returns an artist with its albums and top 10 songs by plays.
func (s *Store) GetArtist(ctx context.Context, id int64) (ArtistDetail, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+artistColumns+`
		FROM artists
		WHERE id = $1`, id)
	artist, err := scanArtist(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ArtistDetail{}, ErrArtistNotFound
	}
	if err != nil {
		return ArtistDetail{}, fmt.Errorf("get artist: %w", err)
	}

	albums, err := s.albumsByArtist(ctx, id)
	if err != nil {
		return ArtistDetail{}, err
	}

	topSongs, err := s.topSongsByArtist(ctx, id, 10)
	if err != nil {
		return ArtistDetail{}, err
	}

	return ArtistDetail{Artist: artist, Albums: albums, TopSongs: topSongs}, nil
}

// CreateArtist persists a new artist.
func (s *Store) CreateArtist(ctx context.Context, artist Artist) (Artist, error) {
	artist.Name = strings.TrimSpace(artist.Name)
	if artist.Name == "" {
		return Artist{}, fmt.Errorf("artist name is required")
	}
	if artist.Genres == nil {
		artist.Genres = []string{}
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO artists (name, bio, image_url, genres, monthly_listeners)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		artist.Name, nullIfEmpty(artist.Bio), nullIfEmpty(artist.ImageURL),
		pq.Array(artist.Genres), artist.MonthlyListeners,
	).Scan(&artist.ID, &artist.CreatedAt)
	if err != nil {
		return Artist{}, fmt.Errorf("insert artist: %w", err)
	}
	return artist, nil
}

func (s *Store) artistExists(ctx context.Context, q queryRower, id int64) error {
	var exists bool
	if err := q.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM artists WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check artist: %w", err)
	}
	if !exists {
		return ErrArtistNotFound
	}
	return nil
}
