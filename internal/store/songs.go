package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Song represents a catalog track. The audio URL is an opaque reference
// to playable media; this service never touches the media itself.
type Song struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	ArtistID    int64     `json:"artist_id"`
	AlbumID     *int64    `json:"album_id,omitempty"`
	Duration    int       `json:"duration"`
	AudioURL    string    `json:"audio_url"`
	Plays       int64     `json:"plays"`
	TrackNumber *int      `json:"track_number,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	Artist      *Artist   `json:"artist,omitempty"`
	Album       *Album    `json:"album,omitempty"`
}

// SongFilter defines criteria for listing songs.
type SongFilter struct {
	Search string
	Skip   int
	Limit  int
}

const songColumns = `s.id, s.title, s.artist_id, s.album_id, s.duration, s.audio_url, s.plays, s.track_number, s.created_at,
		       ar.id, ar.name, COALESCE(ar.image_url, ''),
		       al.id, al.title, al.cover_url`

const songFrom = `
		FROM songs s
		JOIN artists ar ON s.artist_id = ar.id
		LEFT JOIN albums al ON s.album_id = al.id`

func scanSong(row interface{ Scan(...any) error }) (Song, error) {
	var (
		song        Song
		artist      Artist
		albumID     sql.NullInt64
		trackNumber sql.NullInt32
		alID        sql.NullInt64
		alTitle     sql.NullString
		alCoverURL  sql.NullString
	)
	err := row.Scan(&song.ID, &song.Title, &song.ArtistID, &albumID, &song.Duration, &song.AudioURL,
		&song.Plays, &trackNumber, &song.CreatedAt,
		&artist.ID, &artist.Name, &artist.ImageURL,
		&alID, &alTitle, &alCoverURL)
	if err != nil {
		return Song{}, err
	}
	song.Artist = &artist
	if albumID.Valid {
		song.AlbumID = &albumID.Int64
	}
	if trackNumber.Valid {
		n := int(trackNumber.Int32)
		song.TrackNumber = &n
	}
	if alID.Valid {
		song.Album = &Album{
			ID:       alID.Int64,
			Title:    alTitle.String,
			ArtistID: song.ArtistID,
			CoverURL: alCoverURL.String,
		}
	}
	return song, nil
}

func collectSongs(rows *sql.Rows) ([]Song, error) {
	songs := make([]Song, 0)
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, fmt.Errorf("scan song: %w", err)
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate songs: %w", err)
	}
	return songs, nil
}

// ListSongs returns songs matching the filter in stable id order.
func (s *Store) ListSongs(ctx context.Context, filter SongFilter) ([]Song, error) {
	query := `SELECT ` + songColumns + songFrom + ` WHERE 1=1`
	args := []any{}
	argIdx := 1

	if filter.Search != "" {
		query += fmt.Sprintf(" AND s.title ILIKE $%d", argIdx)
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}

	query += fmt.Sprintf(" ORDER BY s.id ASC OFFSET $%d LIMIT $%d", argIdx, argIdx+1)
	args = append(args, filter.Skip, filter.Limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list songs: %w", err)
	}
	defer rows.Close()

	return collectSongs(rows)
}

// FeaturedSongs returns the most played songs.
func (s *Store) FeaturedSongs(ctx context.Context, limit int) ([]Song, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+songColumns+songFrom+`
		ORDER BY s.plays DESC, s.id ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("featured songs: %w", err)
	}
	defer rows.Close()

	return collectSongs(rows)
}

// GetSong returns a single song by ID with artist and album attached.
func (s *Store) GetSong(ctx context.Context, id int64) (Song, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+songColumns+songFrom+`
		WHERE s.id = $1`, id)
	song, err := scanSong(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Song{}, ErrSongNotFound
	}
	if err != nil {
		return Song{}, fmt.Errorf("get song: %w", err)
	}
	return song, nil
}

// CreateSong persists a new song after verifying its artist and optional album exist.
func (s *Store) CreateSong(ctx context.Context, song Song) (Song, error) {
	song.Title = strings.TrimSpace(song.Title)
	if song.Title == "" {
		return Song{}, fmt.Errorf("song title is required")
	}
	if song.Duration <= 0 {
		return Song{}, fmt.Errorf("song duration must be positive")
	}
	if song.AudioURL == "" {
		return Song{}, fmt.Errorf("audio url is required")
	}

	if err := s.artistExists(ctx, s.db, song.ArtistID); err != nil {
		return Song{}, err
	}
	if song.AlbumID != nil {
		if err := s.albumExists(ctx, s.db, *song.AlbumID); err != nil {
			return Song{}, err
		}
	}

	var trackNumber any
	if song.TrackNumber != nil {
		trackNumber = *song.TrackNumber
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO songs (title, artist_id, album_id, duration, audio_url, track_number)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		song.Title, song.ArtistID, song.AlbumID, song.Duration, song.AudioURL, trackNumber,
	).Scan(&song.ID, &song.CreatedAt)
	if err != nil {
		return Song{}, fmt.Errorf("insert song: %w", err)
	}

	// Reload with relationships attached.
	return s.GetSong(ctx, song.ID)
}

func (s *Store) songsByAlbum(ctx context.Context, albumID int64) ([]Song, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+songColumns+songFrom+`
		WHERE s.album_id = $1
		ORDER BY s.track_number ASC NULLS LAST, s.id ASC`, albumID)
	if err != nil {
		return nil, fmt.Errorf("songs by album: %w", err)
	}
	defer rows.Close()

	return collectSongs(rows)
}

func (s *Store) topSongsByArtist(ctx context.Context, artistID int64, limit int) ([]Song, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+songColumns+songFrom+`
		WHERE s.artist_id = $1
		ORDER BY s.plays DESC, s.id ASC
		LIMIT $2`, artistID, limit)
	if err != nil {
		return nil, fmt.Errorf("top songs by artist: %w", err)
	}
	defer rows.Close()

	return collectSongs(rows)
}

func (s *Store) songExists(ctx context.Context, q queryRower, id int64) error {
	var exists bool
	if err := q.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM songs WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check song: %w", err)
	}
	if !exists {
		return ErrSongNotFound
	}
	return nil
}
