package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestLikeSongAlreadyLiked(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM songs WHERE id = $1)`)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM liked_songs WHERE user_id = $1 AND song_id = $2)`)).
		WithArgs(int64(7), int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	err = s.LikeSong(context.Background(), 7, 5)
	if !errors.Is(err, ErrAlreadyLiked) {
		t.Fatalf("expected ErrAlreadyLiked, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLikeSongMissingSong(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM songs WHERE id = $1)`)).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	err = s.LikeSong(context.Background(), 7, 404)
	if !errors.Is(err, ErrSongNotFound) {
		t.Fatalf("expected ErrSongNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUnlikeSongNotLiked(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectExec(regexp.QuoteMeta(`
		DELETE FROM liked_songs
		WHERE user_id = $1 AND song_id = $2`)).
		WithArgs(int64(7), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = s.UnlikeSong(context.Background(), 7, 5)
	if !errors.Is(err, ErrLikeNotFound) {
		t.Fatalf("expected ErrLikeNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRecordPlayIncrementsAndAppendsHistory(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`
		UPDATE songs
		SET plays = plays + 1
		WHERE id = $1
		RETURNING plays`)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"plays"}).AddRow(int64(101)))
	mock.ExpectExec(regexp.QuoteMeta(`
		INSERT INTO recently_played (user_id, song_id)
		VALUES ($1, $2)`)).
		WithArgs(int64(7), int64(5)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	plays, err := s.RecordPlay(context.Background(), 7, 5)
	if err != nil {
		t.Fatalf("RecordPlay error: %v", err)
	}
	if plays != 101 {
		t.Fatalf("expected 101 plays, got %d", plays)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRecordPlayMissingSongRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE songs`)).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"plays"}))
	mock.ExpectRollback()

	_, err = s.RecordPlay(context.Background(), 7, 404)
	if !errors.Is(err, ErrSongNotFound) {
		t.Fatalf("expected ErrSongNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListRecentlyPlayedDeduplicatesAfterScan(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	// Raw history newest first: S1, S2, S1. The limit bounds the raw
	// scan, so the third song never makes it into the window and only
	// two distinct songs come back.
	rows := sqlmock.NewRows(songRowColumns())
	addSongRow(rows, 1, "Sunset", 245)
	addSongRow(rows, 2, "Gloria", 312)
	addSongRow(rows, 1, "Sunset", 245)
	mock.ExpectQuery(`FROM recently_played rp`).
		WithArgs(int64(7), 3).
		WillReturnRows(rows)

	songs, err := s.ListRecentlyPlayed(context.Background(), 7, 3)
	if err != nil {
		t.Fatalf("ListRecentlyPlayed error: %v", err)
	}

	if len(songs) != 2 {
		t.Fatalf("expected 2 distinct songs, got %d", len(songs))
	}
	if songs[0].ID != 1 || songs[1].ID != 2 {
		t.Fatalf("expected order [1, 2], got [%d, %d]", songs[0].ID, songs[1].ID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListLikedSongsPagination(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	rows := sqlmock.NewRows(songRowColumns())
	addSongRow(rows, 9, "Kerala", 289)
	mock.ExpectQuery(`FROM liked_songs ls`).
		WithArgs(int64(7), 10, 50).
		WillReturnRows(rows)

	songs, err := s.ListLikedSongs(context.Background(), 7, 10, 50)
	if err != nil {
		t.Fatalf("ListLikedSongs error: %v", err)
	}
	if len(songs) != 1 || songs[0].Title != "Kerala" {
		t.Fatalf("unexpected songs: %#v", songs)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
