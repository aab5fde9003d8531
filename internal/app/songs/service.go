package songs

import (
	"context"

	"soundhaven/internal/store"
)

// Store captures the persistence needs for song workflows.
type Store interface {
	ListSongs(ctx context.Context, filter store.SongFilter) ([]store.Song, error)
	FeaturedSongs(ctx context.Context, limit int) ([]store.Song, error)
	GetSong(ctx context.Context, id int64) (store.Song, error)
	CreateSong(ctx context.Context, song store.Song) (store.Song, error)
}

// Service coordinates track-level catalog operations.
type Service interface {
	List(ctx context.Context, filter store.SongFilter) ([]store.Song, error)
	Featured(ctx context.Context, limit int) ([]store.Song, error)
	Get(ctx context.Context, id int64) (store.Song, error)
	Create(ctx context.Context, song store.Song) (store.Song, error)
}

type service struct {
	store Store
}

// New constructs a Service backed by the provided Store.
func New(st Store) Service {
	return &service{store: st}
}

func (s *service) List(ctx context.Context, filter store.SongFilter) ([]store.Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListSongs(ctx, filter)
}

func (s *service) Featured(ctx context.Context, limit int) ([]store.Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.FeaturedSongs(ctx, limit)
}

func (s *service) Get(ctx context.Context, id int64) (store.Song, error) {
	if err := ctx.Err(); err != nil {
		return store.Song{}, err
	}
	return s.store.GetSong(ctx, id)
}

func (s *service) Create(ctx context.Context, song store.Song) (store.Song, error) {
	if err := ctx.Err(); err != nil {
		return store.Song{}, err
	}
	return s.store.CreateSong(ctx, song)
}
