package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// LikeSong inserts a like row for the user. Liking twice is an error,
// backed by the (user_id, song_id) unique constraint against races.
func (s *Store) LikeSong(ctx context.Context, userID, songID int64) error {
	if err := s.songExists(ctx, s.db, songID); err != nil {
		return err
	}

	var liked bool
	if err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM liked_songs WHERE user_id = $1 AND song_id = $2)
	`, userID, songID).Scan(&liked); err != nil {
		return fmt.Errorf("check liked: %w", err)
	}
	if liked {
		return ErrAlreadyLiked
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO liked_songs (user_id, song_id)
		VALUES ($1, $2)`, userID, songID); err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyLiked
		}
		return fmt.Errorf("insert liked song: %w", err)
	}
	return nil
}

// UnlikeSong removes the user's like for a song.
func (s *Store) UnlikeSong(ctx context.Context, userID, songID int64) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM liked_songs
		WHERE user_id = $1 AND song_id = $2`, userID, songID)
	if err != nil {
		return fmt.Errorf("delete liked song: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrLikeNotFound
	}
	return nil
}

// IsLiked reports whether the user has liked the song.
func (s *Store) IsLiked(ctx context.Context, userID, songID int64) (bool, error) {
	var liked bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM liked_songs WHERE user_id = $1 AND song_id = $2)
	`, userID, songID).Scan(&liked)
	if err != nil {
		return false, fmt.Errorf("check liked: %w", err)
	}
	return liked, nil
}

// ListLikedSongs returns the user's liked songs, most recently liked first.
func (s *Store) ListLikedSongs(ctx context.Context, userID int64, skip, limit int) ([]Song, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+songColumns+`
		FROM liked_songs ls
		JOIN songs s ON ls.song_id = s.id
		JOIN artists ar ON s.artist_id = ar.id
		LEFT JOIN albums al ON s.album_id = al.id
		WHERE ls.user_id = $1
		ORDER BY ls.created_at DESC, ls.id DESC
		OFFSET $2 LIMIT $3`, userID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list liked songs: %w", err)
	}
	defer rows.Close()

	return collectSongs(rows)
}

// RecordPlay increments the song's play counter and appends a history
// row in a single transaction; neither effect happens without the other.
func (s *Store) RecordPlay(ctx context.Context, userID, songID int64) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var plays int64
	err = tx.QueryRowContext(ctx, `
		UPDATE songs
		SET plays = plays + 1
		WHERE id = $1
		RETURNING plays`, songID).Scan(&plays)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrSongNotFound
			return 0, err
		}
		return 0, fmt.Errorf("increment plays: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO recently_played (user_id, song_id)
		VALUES ($1, $2)`, userID, songID); err != nil {
		return 0, fmt.Errorf("insert recently played: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit play: %w", err)
	}
	return plays, nil
}

// ListRecentlyPlayed scans the newest limit raw history rows and then
// drops repeat songs, keeping each song's most recent play. The limit
// bounds the raw scan, not the deduplicated result, so fewer than limit
// songs may come back.
func (s *Store) ListRecentlyPlayed(ctx context.Context, userID int64, limit int) ([]Song, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+songColumns+`
		FROM recently_played rp
		JOIN songs s ON rp.song_id = s.id
		JOIN artists ar ON s.artist_id = ar.id
		LEFT JOIN albums al ON s.album_id = al.id
		WHERE rp.user_id = $1
		ORDER BY rp.played_at DESC, rp.id DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list recently played: %w", err)
	}
	defer rows.Close()

	played, err := collectSongs(rows)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]bool, len(played))
	unique := make([]Song, 0, len(played))
	for _, song := range played {
		if seen[song.ID] {
			continue
		}
		seen[song.ID] = true
		unique = append(unique, song)
	}
	return unique, nil
}
