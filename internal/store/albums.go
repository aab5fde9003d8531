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

// Album types accepted by the catalog.
const (
	AlbumTypeAlbum  = "album"
	AlbumTypeSingle = "single"
	AlbumTypeEP     = "ep"
)

// Album represents a catalog album, single or EP.
type Album struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	ArtistID    int64      `json:"artist_id"`
	CoverURL    string     `json:"cover_url,omitempty"`
	Genres      []string   `json:"genres,omitempty"`
	ReleaseDate *time.Time `json:"release_date,omitempty"`
	AlbumType   string     `json:"album_type"`
	CreatedAt   time.Time  `json:"created_at"`
	Artist      *Artist    `json:"artist,omitempty"`
}

// AlbumDetail is an album with its songs attached in track order.
type AlbumDetail struct {
	Album
	Songs []Song `json:"songs"`
}

// AlbumFilter defines criteria for listing albums.
type AlbumFilter struct {
	Search string
	Skip   int
	Limit  int
}

const albumColumns = `al.id, al.title, al.artist_id, COALESCE(al.cover_url, ''), al.genres,
		       al.release_date, al.album_type, al.created_at,
		       ar.id, ar.name, COALESCE(ar.image_url, '')`

func scanAlbum(row interface{ Scan(...any) error }) (Album, error) {
	var (
		album       Album
		artist      Artist
		releaseDate sql.NullTime
	)
	err := row.Scan(&album.ID, &album.Title, &album.ArtistID, &album.CoverURL, pq.Array(&album.Genres),
		&releaseDate, &album.AlbumType, &album.CreatedAt,
		&artist.ID, &artist.Name, &artist.ImageURL)
	if err != nil {
		return Album{}, err
	}
	if releaseDate.Valid {
		album.ReleaseDate = &releaseDate.Time
	}
	album.Artist = &artist
	return album, nil
}

// ListAlbums returns albums matching the filter in stable id order.
func (s *Store) ListAlbums(ctx context.Context, filter AlbumFilter) ([]Album, error) {
	query := `
		SELECT ` + albumColumns + `
		FROM albums al
		JOIN artists ar ON al.artist_id = ar.id
		WHERE 1=1`
	args := []any{}
	argIdx := 1

	if filter.Search != "" {
		query += fmt.Sprintf(" AND al.title ILIKE $%d", argIdx)
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}

	query += fmt.Sprintf(" ORDER BY al.id ASC OFFSET $%d LIMIT $%d", argIdx, argIdx+1)
	args = append(args, filter.Skip, filter.Limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list albums: %w", err)
	}
	defer rows.Close()

	albums := make([]Album, 0)
	for rows.Next() {
		album, err := scanAlbum(rows)
		if err != nil {
			return nil, fmt.Errorf("scan album: %w", err)
		}
		albums = append(albums, album)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate albums: %w", err)
	}
	return albums, nil
}

// FeaturedAlbums returns the most recently added albums.
func (s *Store) FeaturedAlbums(ctx context.Context, limit int) ([]Album, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+albumColumns+`
		FROM albums al
		JOIN artists ar ON al.artist_id = ar.id
		ORDER BY al.created_at DESC, al.id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("featured albums: %w", err)
	}
	defer rows.Close()

	albums := make([]Album, 0)
	for rows.Next() {
		album, err := scanAlbum(rows)
		if err != nil {
			return nil, fmt.Errorf("scan album: %w", err)
		}
		albums = append(albums, album)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate albums: %w", err)
	}
	return albums, nil
}

// GetAlbum returns an album with its artist and songs.
func (s *Store) GetAlbum(ctx context.Context, id int64) (AlbumDetail, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+albumColumns+`
		FROM albums al
		JOIN artists ar ON al.artist_id = ar.id
		WHERE al.id = $1`, id)
	album, err := scanAlbum(row)
	if errors.Is(err, sql.ErrNoRows) {
		return AlbumDetail{}, ErrAlbumNotFound
	}
	if err != nil {
		return AlbumDetail{}, fmt.Errorf("get album: %w", err)
	}

	songs, err := s.songsByAlbum(ctx, id)
	if err != nil {
		return AlbumDetail{}, err
	}

	return AlbumDetail{Album: album, Songs: songs}, nil
}

// CreateAlbum persists a new album after verifying the artist exists.
func (s *Store) CreateAlbum(ctx context.Context, album Album) (Album, error) {
	album.Title = strings.TrimSpace(album.Title)
	if album.Title == "" {
		return Album{}, fmt.Errorf("album title is required")
	}
	if album.AlbumType == "" {
		album.AlbumType = AlbumTypeAlbum
	}
	if album.Genres == nil {
		album.Genres = []string{}
	}

	if err := s.artistExists(ctx, s.db, album.ArtistID); err != nil {
		return Album{}, err
	}

	var releaseDate any
	if album.ReleaseDate != nil {
		releaseDate = *album.ReleaseDate
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO albums (title, artist_id, cover_url, genres, release_date, album_type)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		album.Title, album.ArtistID, nullIfEmpty(album.CoverURL),
		pq.Array(album.Genres), releaseDate, album.AlbumType,
	).Scan(&album.ID, &album.CreatedAt)
	if err != nil {
		return Album{}, fmt.Errorf("insert album: %w", err)
	}

	// Reload with the artist attached.
	detail, err := s.GetAlbum(ctx, album.ID)
	if err != nil {
		return Album{}, err
	}
	return detail.Album, nil
}

func (s *Store) albumsByArtist(ctx context.Context, artistID int64) ([]Album, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+albumColumns+`
		FROM albums al
		JOIN artists ar ON al.artist_id = ar.id
		WHERE al.artist_id = $1
		ORDER BY al.release_date DESC NULLS LAST, al.id ASC`, artistID)
	if err != nil {
		return nil, fmt.Errorf("albums by artist: %w", err)
	}
	defer rows.Close()

	albums := make([]Album, 0)
	for rows.Next() {
		album, err := scanAlbum(rows)
		if err != nil {
			return nil, fmt.Errorf("scan album: %w", err)
		}
		albums = append(albums, album)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate albums: %w", err)
	}
	return albums, nil
}

func (s *Store) albumExists(ctx context.Context, q queryRower, id int64) error {
	var exists bool
	if err := q.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM albums WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check album: %w", err)
	}
	if !exists {
		return ErrAlbumNotFound
	}
	return nil
}
