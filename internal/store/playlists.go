package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Playlist represents a user-owned, ordered collection of songs.
type Playlist struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	CoverURL    string     `json:"cover_url,omitempty"`
	UserID      int64      `json:"user_id"`
	IsPublic    bool       `json:"is_public"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
	Owner       *User      `json:"owner,omitempty"`
}

// PlaylistDetail is a playlist with its membership and read-time aggregates.
// SongCount and TotalDuration are always recomputed from current membership,
// never stored.
type PlaylistDetail struct {
	Playlist
	Songs         []Song `json:"songs"`
	SongCount     int    `json:"song_count"`
	TotalDuration int    `json:"total_duration"`
}

// PlaylistUpdate carries a partial update. Nil fields are left untouched.
type PlaylistUpdate struct {
	Name        *string
	Description *string
	CoverURL    *string
	IsPublic    *bool
}

const playlistColumns = `p.id, p.name, COALESCE(p.description, ''), COALESCE(p.cover_url, ''),
		       p.user_id, p.is_public, p.created_at, p.updated_at,
		       u.id, u.email, u.username, COALESCE(u.avatar_url, ''), u.is_premium, u.created_at`

const playlistFrom = `
		FROM playlists p
		JOIN users u ON p.user_id = u.id`

func scanPlaylist(row interface{ Scan(...any) error }) (Playlist, error) {
	var (
		playlist  Playlist
		owner     User
		updatedAt sql.NullTime
	)
	err := row.Scan(&playlist.ID, &playlist.Name, &playlist.Description, &playlist.CoverURL,
		&playlist.UserID, &playlist.IsPublic, &playlist.CreatedAt, &updatedAt,
		&owner.ID, &owner.Email, &owner.Username, &owner.AvatarURL, &owner.IsPremium, &owner.CreatedAt)
	if err != nil {
		return Playlist{}, err
	}
	if updatedAt.Valid {
		playlist.UpdatedAt = &updatedAt.Time
	}
	playlist.Owner = &owner
	return playlist, nil
}

// ListUserPlaylists returns all playlists owned by the user, newest first.
func (s *Store) ListUserPlaylists(ctx context.Context, userID int64) ([]Playlist, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+playlistColumns+playlistFrom+`
		WHERE p.user_id = $1
		ORDER BY p.created_at DESC, p.id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}
	defer rows.Close()

	return collectPlaylists(rows)
}

// ListPublicPlaylists returns public playlists with offset/limit pagination.
func (s *Store) ListPublicPlaylists(ctx context.Context, skip, limit int) ([]Playlist, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+playlistColumns+playlistFrom+`
		WHERE p.is_public = TRUE
		ORDER BY p.id ASC
		OFFSET $1 LIMIT $2`, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list public playlists: %w", err)
	}
	defer rows.Close()

	return collectPlaylists(rows)
}

func collectPlaylists(rows *sql.Rows) ([]Playlist, error) {
	playlists := make([]Playlist, 0)
	for rows.Next() {
		playlist, err := scanPlaylist(rows)
		if err != nil {
			return nil, fmt.Errorf("scan playlist: %w", err)
		}
		playlists = append(playlists, playlist)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate playlists: %w", err)
	}
	return playlists, nil
}

// GetPlaylist returns a playlist with membership and aggregates by ID.
// Visibility is not checked here: playlists are fetchable by id regardless
// of the public flag, which only filters the public listing.
func (s *Store) GetPlaylist(ctx context.Context, id int64) (PlaylistDetail, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+playlistColumns+playlistFrom+`
		WHERE p.id = $1`, id)
	playlist, err := scanPlaylist(row)
	if errors.Is(err, sql.ErrNoRows) {
		return PlaylistDetail{}, ErrPlaylistNotFound
	}
	if err != nil {
		return PlaylistDetail{}, fmt.Errorf("get playlist: %w", err)
	}

	songs, err := s.playlistSongs(ctx, id)
	if err != nil {
		return PlaylistDetail{}, err
	}

	detail := PlaylistDetail{Playlist: playlist, Songs: songs, SongCount: len(songs)}
	for _, song := range songs {
		detail.TotalDuration += song.Duration
	}
	return detail, nil
}

// CreatePlaylist persists a new playlist with empty membership.
func (s *Store) CreatePlaylist(ctx context.Context, userID int64, playlist Playlist) (Playlist, error) {
	playlist.Name = strings.TrimSpace(playlist.Name)
	if playlist.Name == "" {
		return Playlist{}, fmt.Errorf("playlist name is required")
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO playlists (name, description, cover_url, user_id, is_public)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		playlist.Name, nullIfEmpty(playlist.Description), nullIfEmpty(playlist.CoverURL),
		userID, playlist.IsPublic,
	).Scan(&playlist.ID, &playlist.CreatedAt)
	if err != nil {
		return Playlist{}, fmt.Errorf("insert playlist: %w", err)
	}
	playlist.UserID = userID
	return playlist, nil
}

// UpdatePlaylist applies a partial update to a playlist the caller owns.
func (s *Store) UpdatePlaylist(ctx context.Context, userID, id int64, update PlaylistUpdate) (Playlist, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Playlist{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.lockOwnedPlaylist(ctx, tx, id, userID); err != nil {
		return Playlist{}, err
	}

	sets := []string{}
	args := []any{}
	argIdx := 1
	addSet := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}
	if update.Name != nil {
		addSet("name", strings.TrimSpace(*update.Name))
	}
	if update.Description != nil {
		addSet("description", nullIfEmpty(*update.Description))
	}
	if update.CoverURL != nil {
		addSet("cover_url", nullIfEmpty(*update.CoverURL))
	}
	if update.IsPublic != nil {
		addSet("is_public", *update.IsPublic)
	}

	if len(sets) > 0 {
		addSet("updated_at", time.Now().UTC())
		query := fmt.Sprintf(`UPDATE playlists SET %s WHERE id = $%d`, strings.Join(sets, ", "), argIdx)
		args = append(args, id)
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return Playlist{}, fmt.Errorf("update playlist: %w", err)
		}
	}

	row := tx.QueryRowContext(ctx, `
		SELECT `+playlistColumns+playlistFrom+`
		WHERE p.id = $1`, id)
	updated, err := scanPlaylist(row)
	if err != nil {
		return Playlist{}, fmt.Errorf("reload playlist: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return Playlist{}, fmt.Errorf("commit playlist update: %w", err)
	}
	return updated, nil
}

// DeletePlaylist removes a playlist the caller owns. Membership rows
// cascade at the storage layer.
func (s *Store) DeletePlaylist(ctx context.Context, userID, id int64) error {
	if err := s.ownedPlaylist(ctx, s.db, id, userID); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM playlists WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}
	return nil
}

// AddSongToPlaylist appends a song to a playlist the caller owns and
// returns the refreshed playlist view. Positions come from a per-playlist
// counter bumped under the playlist row lock, so concurrent adds are
// serialized and position values are never reused even after removals.
func (s *Store) AddSongToPlaylist(ctx context.Context, userID, playlistID, songID int64) (PlaylistDetail, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PlaylistDetail{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.lockOwnedPlaylist(ctx, tx, playlistID, userID); err != nil {
		return PlaylistDetail{}, err
	}
	if err = s.songExists(ctx, tx, songID); err != nil {
		return PlaylistDetail{}, err
	}

	var member bool
	if err = tx.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM playlist_songs WHERE playlist_id = $1 AND song_id = $2)
	`, playlistID, songID).Scan(&member); err != nil {
		return PlaylistDetail{}, fmt.Errorf("check membership: %w", err)
	}
	if member {
		err = ErrSongAlreadyInPlaylist
		return PlaylistDetail{}, err
	}

	var position int
	if err = tx.QueryRowContext(ctx, `
		UPDATE playlists
		SET last_position = last_position + 1, updated_at = $2
		WHERE id = $1
		RETURNING last_position`, playlistID, time.Now().UTC()).Scan(&position); err != nil {
		return PlaylistDetail{}, fmt.Errorf("next position: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO playlist_songs (playlist_id, song_id, position)
		VALUES ($1, $2, $3)`, playlistID, songID, position); err != nil {
		if isUniqueViolation(err) {
			err = ErrSongAlreadyInPlaylist
			return PlaylistDetail{}, err
		}
		return PlaylistDetail{}, fmt.Errorf("insert playlist song: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return PlaylistDetail{}, fmt.Errorf("commit add song: %w", err)
	}

	return s.GetPlaylist(ctx, playlistID)
}

// RemoveSongFromPlaylist deletes a single membership row. Remaining
// positions are not renumbered.
func (s *Store) RemoveSongFromPlaylist(ctx context.Context, userID, playlistID, songID int64) error {
	if err := s.ownedPlaylist(ctx, s.db, playlistID, userID); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM playlist_songs
		WHERE playlist_id = $1 AND song_id = $2`, playlistID, songID)
	if err != nil {
		return fmt.Errorf("delete playlist song: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrSongNotInPlaylist
	}
	return nil
}

// ownedPlaylist loads a playlist's owner and authorizes the caller.
// Existence is checked before ownership so NotFound wins over Forbidden.
func (s *Store) ownedPlaylist(ctx context.Context, q queryRower, playlistID, userID int64) error {
	var ownerID int64
	err := q.QueryRowContext(ctx, `SELECT user_id FROM playlists WHERE id = $1`, playlistID).Scan(&ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrPlaylistNotFound
	}
	if err != nil {
		return fmt.Errorf("check playlist ownership: %w", err)
	}
	if ownerID != userID {
		return ErrNotPlaylistOwner
	}
	return nil
}

// lockOwnedPlaylist is ownedPlaylist with a row lock, serializing
// concurrent mutations of the same playlist for the transaction.
func (s *Store) lockOwnedPlaylist(ctx context.Context, tx *sql.Tx, playlistID, userID int64) error {
	var ownerID int64
	err := tx.QueryRowContext(ctx, `SELECT user_id FROM playlists WHERE id = $1 FOR UPDATE`, playlistID).Scan(&ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrPlaylistNotFound
	}
	if err != nil {
		return fmt.Errorf("check playlist ownership: %w", err)
	}
	if ownerID != userID {
		return ErrNotPlaylistOwner
	}
	return nil
}

func (s *Store) playlistSongs(ctx context.Context, playlistID int64) ([]Song, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+songColumns+`
		FROM playlist_songs ps
		JOIN songs s ON ps.song_id = s.id
		JOIN artists ar ON s.artist_id = ar.id
		LEFT JOIN albums al ON s.album_id = al.id
		WHERE ps.playlist_id = $1
		ORDER BY ps.position ASC, ps.id ASC`, playlistID)
	if err != nil {
		return nil, fmt.Errorf("list playlist songs: %w", err)
	}
	defer rows.Close()

	return collectSongs(rows)
}
