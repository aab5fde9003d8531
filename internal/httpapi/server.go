package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"soundhaven/internal/app/users"
	"soundhaven/internal/store"
)

// UserService exposes the account operations needed by the HTTP handlers.
type UserService interface {
	Signup(ctx context.Context, email, username, password string) (store.User, string, error)
	Login(ctx context.Context, email, password string) (store.User, string, error)
	Get(ctx context.Context, id int64) (store.User, error)
}

// ArtistService describes artist catalog workflows.
type ArtistService interface {
	List(ctx context.Context, filter store.ArtistFilter) ([]store.Artist, error)
	Featured(ctx context.Context, limit int) ([]store.Artist, error)
	Get(ctx context.Context, id int64) (store.ArtistDetail, error)
	Create(ctx context.Context, artist store.Artist) (store.Artist, error)
}

// AlbumService describes album catalog workflows.
type AlbumService interface {
	List(ctx context.Context, filter store.AlbumFilter) ([]store.Album, error)
	Featured(ctx context.Context, limit int) ([]store.Album, error)
	Get(ctx context.Context, id int64) (store.AlbumDetail, error)
	Create(ctx context.Context, album store.Album) (store.Album, error)
}

// SongService coordinates track-level operations.
type SongService interface {
	List(ctx context.Context, filter store.SongFilter) ([]store.Song, error)
	Featured(ctx context.Context, limit int) ([]store.Song, error)
	Get(ctx context.Context, id int64) (store.Song, error)
	Create(ctx context.Context, song store.Song) (store.Song, error)
}

// PlaylistService coordinates playlist-related operations.
type PlaylistService interface {
	ListOwn(ctx context.Context, userID int64) ([]store.Playlist, error)
	ListPublic(ctx context.Context, skip, limit int) ([]store.Playlist, error)
	Get(ctx context.Context, id int64) (store.PlaylistDetail, error)
	Create(ctx context.Context, userID int64, playlist store.Playlist) (store.Playlist, error)
	Update(ctx context.Context, userID, id int64, update store.PlaylistUpdate) (store.Playlist, error)
	Delete(ctx context.Context, userID, id int64) error
	AddSong(ctx context.Context, userID, playlistID, songID int64) (store.PlaylistDetail, error)
	RemoveSong(ctx context.Context, userID, playlistID, songID int64) error
}

// LibraryService coordinates per-user library state.
type LibraryService interface {
	Like(ctx context.Context, userID, songID int64) error
	Unlike(ctx context.Context, userID, songID int64) error
	IsLiked(ctx context.Context, userID, songID int64) (bool, error)
	ListLiked(ctx context.Context, userID int64, skip, limit int) ([]store.Song, error)
	RecordPlay(ctx context.Context, userID, songID int64) (int64, error)
	ListRecentlyPlayed(ctx context.Context, userID int64, limit int) ([]store.Song, error)
}

// TokenVerifier resolves a bearer token to a user id.
type TokenVerifier interface {
	Verify(token string) (int64, error)
}

var errMissingToken = errors.New("missing bearer token")

// Server wires HTTP handlers to the underlying services.
type Server struct {
	users     UserService
	artists   ArtistService
	albums    AlbumService
	songs     SongService
	playlists PlaylistService
	library   LibraryService
	tokens    TokenVerifier
}

// New configures a Server with the given services.
func New(
	users UserService,
	artists ArtistService,
	albums AlbumService,
	songs SongService,
	playlists PlaylistService,
	library LibraryService,
	tokens TokenVerifier,
) *Server {
	return &Server{
		users:     users,
		artists:   artists,
		albums:    albums,
		songs:     songs,
		playlists: playlists,
		library:   library,
		tokens:    tokens,
	}
}

// Routes exposes the HTTP handlers for the catalog, playlist and library APIs.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	// Auth routes
	mux.HandleFunc("POST /api/auth/signup", s.handleSignup)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("GET /api/auth/me", s.handleMe)

	// Artist routes
	mux.HandleFunc("GET /api/artists", s.handleListArtists)
	mux.HandleFunc("POST /api/artists", s.handleCreateArtist)
	mux.HandleFunc("GET /api/artists/featured", s.handleFeaturedArtists)
	mux.HandleFunc("GET /api/artists/{id}", s.handleGetArtist)

	// Album routes
	mux.HandleFunc("GET /api/albums", s.handleListAlbums)
	mux.HandleFunc("POST /api/albums", s.handleCreateAlbum)
	mux.HandleFunc("GET /api/albums/featured", s.handleFeaturedAlbums)
	mux.HandleFunc("GET /api/albums/{id}", s.handleGetAlbum)

	// Song routes
	mux.HandleFunc("GET /api/songs", s.handleListSongs)
	mux.HandleFunc("POST /api/songs", s.handleCreateSong)
	mux.HandleFunc("GET /api/songs/featured", s.handleFeaturedSongs)
	mux.HandleFunc("GET /api/songs/{id}", s.handleGetSong)
	mux.HandleFunc("POST /api/songs/{id}/play", s.handleRecordPlay)

	// Playlist routes
	mux.HandleFunc("GET /api/playlists", s.handleListOwnPlaylists)
	mux.HandleFunc("POST /api/playlists", s.handleCreatePlaylist)
	mux.HandleFunc("GET /api/playlists/public", s.handleListPublicPlaylists)
	mux.HandleFunc("GET /api/playlists/{id}", s.handleGetPlaylist)
	mux.HandleFunc("PUT /api/playlists/{id}", s.handleUpdatePlaylist)
	mux.HandleFunc("DELETE /api/playlists/{id}", s.handleDeletePlaylist)
	mux.HandleFunc("POST /api/playlists/{id}/songs", s.handleAddSongToPlaylist)
	mux.HandleFunc("DELETE /api/playlists/{id}/songs/{songID}", s.handleRemoveSongFromPlaylist)

	// Library routes
	mux.HandleFunc("GET /api/library/liked", s.handleListLiked)
	mux.HandleFunc("POST /api/library/liked/{songID}", s.handleLikeSong)
	mux.HandleFunc("DELETE /api/library/liked/{songID}", s.handleUnlikeSong)
	mux.HandleFunc("GET /api/library/liked/{songID}/check", s.handleCheckLiked)
	mux.HandleFunc("GET /api/library/recently-played", s.handleRecentlyPlayed)

	return mux
}

type errorResponse struct {
	Error string `json:"error"`
}

// currentUserID resolves the caller from the Authorization header.
func (s *Server) currentUserID(r *http.Request) (int64, error) {
	token := parseBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		return 0, errMissingToken
	}
	return s.tokens.Verify(token)
}

// writeServiceError maps service errors to their fixed status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, store.ErrArtistNotFound),
		errors.Is(err, store.ErrAlbumNotFound),
		errors.Is(err, store.ErrSongNotFound),
		errors.Is(err, store.ErrPlaylistNotFound),
		errors.Is(err, store.ErrSongNotInPlaylist),
		errors.Is(err, store.ErrLikeNotFound),
		errors.Is(err, store.ErrUserNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, store.ErrNotPlaylistOwner):
		status = http.StatusForbidden
		message = err.Error()
	case errors.Is(err, store.ErrSongAlreadyInPlaylist),
		errors.Is(err, store.ErrAlreadyLiked),
		errors.Is(err, store.ErrUserExists):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, users.ErrInvalidCredentials):
		status = http.StatusUnauthorized
		message = err.Error()
	}

	writeJSON(w, status, errorResponse{Error: message})
}

func writeUnauthorized(w http.ResponseWriter, err error) {
	message := "invalid or expired token"
	if errors.Is(err, errMissingToken) {
		message = "missing bearer token"
	}
	writeJSON(w, http.StatusUnauthorized, errorResponse{Error: message})
}

func parseBearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// parsePage validates skip/limit query parameters against per-entity bounds.
func parsePage(query url.Values, defaultLimit, maxLimit int) (skip, limit int, err error) {
	limit = defaultLimit

	if raw := query.Get("skip"); raw != "" {
		skip, err = strconv.Atoi(raw)
		if err != nil || skip < 0 {
			return 0, 0, errors.New("skip must be a non-negative integer")
		}
	}
	if raw := query.Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > maxLimit {
			return 0, 0, errors.New("limit must be between 1 and " + strconv.Itoa(maxLimit))
		}
	}
	return skip, limit, nil
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.PathValue(name), 10, 64)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}
