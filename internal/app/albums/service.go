package albums

import (
	"context"

	"soundhaven/internal/store"
)

// Store captures the persistence needs for album workflows.
type Store interface {
	ListAlbums(ctx context.Context, filter store.AlbumFilter) ([]store.Album, error)
	FeaturedAlbums(ctx context.Context, limit int) ([]store.Album, error)
	GetAlbum(ctx context.Context, id int64) (store.AlbumDetail, error)
	CreateAlbum(ctx context.Context, album store.Album) (store.Album, error)
}

// Service exposes album catalog workflows.
type Service interface {
	List(ctx context.Context, filter store.AlbumFilter) ([]store.Album, error)
	Featured(ctx context.Context, limit int) ([]store.Album, error)
	Get(ctx context.Context, id int64) (store.AlbumDetail, error)
	Create(ctx context.Context, album store.Album) (store.Album, error)
}

type service struct {
	store Store
}

// New constructs a Service backed by the provided Store.
func New(st Store) Service {
	return &service{store: st}
}

func (s *service) List(ctx context.Context, filter store.AlbumFilter) ([]store.Album, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListAlbums(ctx, filter)
}

func (s *service) Featured(ctx context.Context, limit int) ([]store.Album, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.FeaturedAlbums(ctx, limit)
}

func (s *service) Get(ctx context.Context, id int64) (store.AlbumDetail, error) {
	if err := ctx.Err(); err != nil {
		return store.AlbumDetail{}, err
	}
	return s.store.GetAlbum(ctx, id)
}

func (s *service) Create(ctx context.Context, album store.Album) (store.Album, error) {
	if err := ctx.Err(); err != nil {
		return store.Album{}, err
	}
	return s.store.CreateAlbum(ctx, album)
}
