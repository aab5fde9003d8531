package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"soundhaven/internal/auth"
	"soundhaven/internal/store"
)

// bootstrapSampleData seeds a demo user and a small catalog so a fresh
// deployment has something to browse. Skipped entirely when the catalog
// already holds artists.
func bootstrapSampleData(ctx context.Context, db *sql.DB, dataStore *store.Store) error {
	if err := ensureDemoUser(ctx, dataStore); err != nil {
		return err
	}
	return ensureSampleCatalog(ctx, db)
}

func ensureDemoUser(ctx context.Context, dataStore *store.Store) error {
	hash, err := auth.HashPassword("demo1234")
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}
	if _, err := dataStore.CreateUser(ctx, "demo@soundhaven.app", "demo", hash); err != nil && !errors.Is(err, store.ErrUserExists) {
		return fmt.Errorf("bootstrap demo user: %w", err)
	}
	return nil
}

func ensureSampleCatalog(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM artists`).Scan(&count); err != nil {
		return fmt.Errorf("count artists: %w", err)
	}
	if count > 0 {
		return nil
	}

	type seedArtist struct {
		Name             string
		Bio              string
		ImageURL         string
		Genres           []string
		MonthlyListeners int64
	}

	type seedAlbum struct {
		Title    string
		Artist   int
		CoverURL string
	}

	type seedSong struct {
		Title       string
		Album       int
		Artist      int
		Duration    int
		AudioURL    string
		TrackNumber int
		Plays       int64
	}

	artists := []seedArtist{
		{
			Name:             "The Midnight",
			Bio:              "The Midnight is an American electronic music duo from Los Angeles.",
			ImageURL:         "https://images.unsplash.com/photo-1493225457124-a3eb161ffa5f?w=400",
			Genres:           []string{"Synthwave", "Electronic"},
			MonthlyListeners: 1500000,
		},
		{
			Name:             "ODESZA",
			Bio:              "ODESZA is an American electronic music duo from Bellingham, Washington.",
			ImageURL:         "https://images.unsplash.com/photo-1514320291840-2e0a9bf2a9ae?w=400",
			Genres:           []string{"Electronic", "Indietronica"},
			MonthlyListeners: 8500000,
		},
		{
			Name:             "Tycho",
			Bio:              "Tycho is an American ambient music project led by Scott Hansen.",
			ImageURL:         "https://images.unsplash.com/photo-1511671782779-c97d3d27a1d4?w=400",
			Genres:           []string{"Ambient", "Chillwave"},
			MonthlyListeners: 3200000,
		},
		{
			Name:             "Bonobo",
			Bio:              "Bonobo is the stage name of British musician Simon Green.",
			ImageURL:         "https://images.unsplash.com/photo-1470225620780-dba8ba36b745?w=400",
			Genres:           []string{"Downtempo", "Electronic"},
			MonthlyListeners: 4100000,
		},
		{
			Name:             "Flume",
			Bio:              "Harley Edward Streten, known professionally as Flume, is an Australian musician.",
			ImageURL:         "https://images.unsplash.com/photo-1459749411175-04bf5292ceea?w=400",
			Genres:           []string{"Future Bass", "Electronic"},
			MonthlyListeners: 9800000,
		},
	}

	albums := []seedAlbum{
		{Title: "Endless Summer", Artist: 0, CoverURL: "https://images.unsplash.com/photo-1557682250-33bd709cbe85?w=400"},
		{Title: "A Moment Apart", Artist: 1, CoverURL: "https://images.unsplash.com/photo-1614149162883-504ce4d13909?w=400"},
		{Title: "Dive", Artist: 2, CoverURL: "https://images.unsplash.com/photo-1558618666-fcd25c85cd64?w=400"},
		{Title: "Migration", Artist: 3, CoverURL: "https://images.unsplash.com/photo-1571330735066-03aaa9429d89?w=400"},
		{Title: "Hi This Is Flume", Artist: 4, CoverURL: "https://images.unsplash.com/photo-1506157786151-b8491531f063?w=400"},
	}

	audioURLs := []string{
		"https://cdn.pixabay.com/download/audio/2022/05/27/audio_1808fbf07a.mp3",
		"https://cdn.pixabay.com/download/audio/2022/01/18/audio_d0a13f69d2.mp3",
		"https://cdn.pixabay.com/download/audio/2022/10/25/audio_946ba661c5.mp3",
		"https://cdn.pixabay.com/download/audio/2023/05/16/audio_166b9c7242.mp3",
		"https://cdn.pixabay.com/download/audio/2022/03/15/audio_8cb749d484.mp3",
	}

	songs := []seedSong{
		{Title: "Sunset", Album: 0, Artist: 0, Duration: 245, AudioURL: audioURLs[0], TrackNumber: 1, Plays: 1250000},
		{Title: "Gloria", Album: 0, Artist: 0, Duration: 312, AudioURL: audioURLs[1], TrackNumber: 2, Plays: 980000},
		{Title: "Days of Thunder", Album: 0, Artist: 0, Duration: 289, AudioURL: audioURLs[2], TrackNumber: 3, Plays: 750000},
		{Title: "A Moment Apart", Album: 1, Artist: 1, Duration: 268, AudioURL: audioURLs[3], TrackNumber: 1, Plays: 2100000},
		{Title: "Higher Ground", Album: 1, Artist: 1, Duration: 225, AudioURL: audioURLs[4], TrackNumber: 2, Plays: 1850000},
		{Title: "Line of Sight", Album: 1, Artist: 1, Duration: 241, AudioURL: audioURLs[0], TrackNumber: 3, Plays: 1650000},
		{Title: "Dive", Album: 2, Artist: 2, Duration: 356, AudioURL: audioURLs[1], TrackNumber: 1, Plays: 890000},
		{Title: "Coastal Brake", Album: 2, Artist: 2, Duration: 315, AudioURL: audioURLs[2], TrackNumber: 2, Plays: 720000},
		{Title: "A Walk", Album: 2, Artist: 2, Duration: 302, AudioURL: audioURLs[3], TrackNumber: 3, Plays: 650000},
		{Title: "Migration", Album: 3, Artist: 3, Duration: 248, AudioURL: audioURLs[4], TrackNumber: 1, Plays: 1100000},
		{Title: "Kerala", Album: 3, Artist: 3, Duration: 289, AudioURL: audioURLs[0], TrackNumber: 2, Plays: 1450000},
		{Title: "Break Apart", Album: 3, Artist: 3, Duration: 315, AudioURL: audioURLs[1], TrackNumber: 3, Plays: 980000},
		{Title: "Hi This Is Flume", Album: 4, Artist: 4, Duration: 532, AudioURL: audioURLs[2], TrackNumber: 1, Plays: 2500000},
		{Title: "Rushing Back", Album: 4, Artist: 4, Duration: 229, AudioURL: audioURLs[3], TrackNumber: 2, Plays: 3100000},
		{Title: "Never Be Like You", Album: 4, Artist: 4, Duration: 234, AudioURL: audioURLs[4], TrackNumber: 3, Plays: 4500000},
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	artistIDs := make([]int64, len(artists))
	for i, artist := range artists {
		if err := tx.QueryRowContext(ctx, `
			INSERT INTO artists (name, bio, image_url, genres, monthly_listeners)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, artist.Name, artist.Bio, artist.ImageURL, pq.Array(artist.Genres), artist.MonthlyListeners).Scan(&artistIDs[i]); err != nil {
			return fmt.Errorf("insert sample artist %q: %w", artist.Name, err)
		}
	}

	albumIDs := make([]int64, len(albums))
	for i, album := range albums {
		if err := tx.QueryRowContext(ctx, `
			INSERT INTO albums (title, artist_id, cover_url, album_type)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, album.Title, artistIDs[album.Artist], album.CoverURL, store.AlbumTypeAlbum).Scan(&albumIDs[i]); err != nil {
			return fmt.Errorf("insert sample album %q: %w", album.Title, err)
		}
	}

	for _, song := range songs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO songs (title, artist_id, album_id, duration, audio_url, track_number, plays)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, song.Title, artistIDs[song.Artist], albumIDs[song.Album], song.Duration, song.AudioURL, song.TrackNumber, song.Plays); err != nil {
			return fmt.Errorf("insert sample song %q: %w", song.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}
	tx = nil

	return nil
}
