package playlists

import (
	"context"

	"soundhaven/internal/store"
)

// Store captures the persistence needs for playlist workflows.
type Store interface {
	ListUserPlaylists(ctx context.Context, userID int64) ([]store.Playlist, error)
	ListPublicPlaylists(ctx context.Context, skip, limit int) ([]store.Playlist, error)
	GetPlaylist(ctx context.Context, id int64) (store.PlaylistDetail, error)
	CreatePlaylist(ctx context.Context, userID int64, playlist store.Playlist) (store.Playlist, error)
	UpdatePlaylist(ctx context.Context, userID, id int64, update store.PlaylistUpdate) (store.Playlist, error)
	DeletePlaylist(ctx context.Context, userID, id int64) error
	AddSongToPlaylist(ctx context.Context, userID, playlistID, songID int64) (store.PlaylistDetail, error)
	RemoveSongFromPlaylist(ctx context.Context, userID, playlistID, songID int64) error
}

// Service coordinates playlist-related operations.
type Service interface {
	ListOwn(ctx context.Context, userID int64) ([]store.Playlist, error)
	ListPublic(ctx context.Context, skip, limit int) ([]store.Playlist, error)
	Get(ctx context.Context, id int64) (store.PlaylistDetail, error)
	Create(ctx context.Context, userID int64, playlist store.Playlist) (store.Playlist, error)
	Update(ctx context.Context, userID, id int64, update store.PlaylistUpdate) (store.Playlist, error)
	Delete(ctx context.Context, userID, id int64) error
	AddSong(ctx context.Context, userID, playlistID, songID int64) (store.PlaylistDetail, error)
	RemoveSong(ctx context.Context, userID, playlistID, songID int64) error
}

type service struct {
	store Store
}

// New constructs a Service backed by the provided Store.
func New(st Store) Service {
	return &service{store: st}
}

func (s *service) ListOwn(ctx context.Context, userID int64) ([]store.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListUserPlaylists(ctx, userID)
}

func (s *service) ListPublic(ctx context.Context, skip, limit int) ([]store.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListPublicPlaylists(ctx, skip, limit)
}

func (s *service) Get(ctx context.Context, id int64) (store.PlaylistDetail, error) {
	if err := ctx.Err(); err != nil {
		return store.PlaylistDetail{}, err
	}
	return s.store.GetPlaylist(ctx, id)
}

func (s *service) Create(ctx context.Context, userID int64, playlist store.Playlist) (store.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return store.Playlist{}, err
	}
	return s.store.CreatePlaylist(ctx, userID, playlist)
}

func (s *service) Update(ctx context.Context, userID, id int64, update store.PlaylistUpdate) (store.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return store.Playlist{}, err
	}
	return s.store.UpdatePlaylist(ctx, userID, id, update)
}

func (s *service) Delete(ctx context.Context, userID, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.DeletePlaylist(ctx, userID, id)
}

func (s *service) AddSong(ctx context.Context, userID, playlistID, songID int64) (store.PlaylistDetail, error) {
	if err := ctx.Err(); err != nil {
		return store.PlaylistDetail{}, err
	}
	return s.store.AddSongToPlaylist(ctx, userID, playlistID, songID)
}

func (s *service) RemoveSong(ctx context.Context, userID, playlistID, songID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.RemoveSongFromPlaylist(ctx, userID, playlistID, songID)
}
