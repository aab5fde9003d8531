package library

import (
	"context"

	"soundhaven/internal/store"
)

// Store captures the persistence needs for library workflows.
type Store interface {
	LikeSong(ctx context.Context, userID, songID int64) error
	UnlikeSong(ctx context.Context, userID, songID int64) error
	IsLiked(ctx context.Context, userID, songID int64) (bool, error)
	ListLikedSongs(ctx context.Context, userID int64, skip, limit int) ([]store.Song, error)
	RecordPlay(ctx context.Context, userID, songID int64) (int64, error)
	ListRecentlyPlayed(ctx context.Context, userID int64, limit int) ([]store.Song, error)
}

// Service coordinates per-user library state.
type Service interface {
	Like(ctx context.Context, userID, songID int64) error
	Unlike(ctx context.Context, userID, songID int64) error
	IsLiked(ctx context.Context, userID, songID int64) (bool, error)
	ListLiked(ctx context.Context, userID int64, skip, limit int) ([]store.Song, error)
	RecordPlay(ctx context.Context, userID, songID int64) (int64, error)
	ListRecentlyPlayed(ctx context.Context, userID int64, limit int) ([]store.Song, error)
}

type service struct {
	store Store
}

// New constructs a Service backed by the provided Store.
func New(st Store) Service {
	return &service{store: st}
}

func (s *service) Like(ctx context.Context, userID, songID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.LikeSong(ctx, userID, songID)
}

func (s *service) Unlike(ctx context.Context, userID, songID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.UnlikeSong(ctx, userID, songID)
}

func (s *service) IsLiked(ctx context.Context, userID, songID int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return s.store.IsLiked(ctx, userID, songID)
}

func (s *service) ListLiked(ctx context.Context, userID int64, skip, limit int) ([]store.Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListLikedSongs(ctx, userID, skip, limit)
}

func (s *service) RecordPlay(ctx context.Context, userID, songID int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return s.store.RecordPlay(ctx, userID, songID)
}

func (s *service) ListRecentlyPlayed(ctx context.Context, userID int64, limit int) ([]store.Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListRecentlyPlayed(ctx, userID, limit)
}
