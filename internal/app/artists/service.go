package artists

import (
	"context"

	"soundhaven/internal/store"
)

// Store captures the persistence needs for artist workflows.
type Store interface {
	ListArtists(ctx context.Context, filter store.ArtistFilter) ([]store.Artist, error)
	FeaturedArtists(ctx context.Context, limit int) ([]store.Artist, error)
	GetArtist(ctx context.Context, id int64) (store.ArtistDetail, error)
	CreateArtist(ctx context.Context, artist store.Artist) (store.Artist, error)
}

// Service exposes artist catalog workflows.
type Service interface {
	List(ctx context.Context, filter store.ArtistFilter) ([]store.Artist, error)
	Featured(ctx context.Context, limit int) ([]store.Artist, error)
	Get(ctx context.Context, id int64) (store.ArtistDetail, error)
	Create(ctx context.Context, artist store.Artist) (store.Artist, error)
}

type service struct {
	store Store
}

// New constructs a Service backed by the provided Store.
func New(st Store) Service {
	return &service{store: st}
}

func (s *service) List(ctx context.Context, filter store.ArtistFilter) ([]store.Artist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListArtists(ctx, filter)
}

func (s *service) Featured(ctx context.Context, limit int) ([]store.Artist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.FeaturedArtists(ctx, limit)
}

func (s *service) Get(ctx context.Context, id int64) (store.ArtistDetail, error) {
	if err := ctx.Err(); err != nil {
		return store.ArtistDetail{}, err
	}
	return s.store.GetArtist(ctx, id)
}

func (s *service) Create(ctx context.Context, artist store.Artist) (store.Artist, error) {
	if err := ctx.Err(); err != nil {
		return store.Artist{}, err
	}
	return s.store.CreateArtist(ctx, artist)
}
