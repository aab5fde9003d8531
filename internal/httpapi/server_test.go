package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"soundhaven/internal/app/users"
	"soundhaven/internal/store"
)

type stubUserService struct {
	user      store.User
	token     string
	signupErr error
	loginErr  error
	getErr    error
}

func (s *stubUserService) Signup(context.Context, string, string, string) (store.User, string, error) {
	if s.signupErr != nil {
		return store.User{}, "", s.signupErr
	}
	return s.user, s.token, nil
}

func (s *stubUserService) Login(context.Context, string, string) (store.User, string, error) {
	if s.loginErr != nil {
		return store.User{}, "", s.loginErr
	}
	return s.user, s.token, nil
}

func (s *stubUserService) Get(context.Context, int64) (store.User, error) {
	if s.getErr != nil {
		return store.User{}, s.getErr
	}
	return s.user, nil
}

type stubArtistService struct {
	artists []store.Artist
	detail  store.ArtistDetail
	err     error
}

func (s *stubArtistService) List(context.Context, store.ArtistFilter) ([]store.Artist, error) {
	return s.artists, s.err
}

func (s *stubArtistService) Featured(context.Context, int) ([]store.Artist, error) {
	return s.artists, s.err
}

func (s *stubArtistService) Get(context.Context, int64) (store.ArtistDetail, error) {
	if s.err != nil {
		return store.ArtistDetail{}, s.err
	}
	return s.detail, nil
}

func (s *stubArtistService) Create(_ context.Context, artist store.Artist) (store.Artist, error) {
	if s.err != nil {
		return store.Artist{}, s.err
	}
	return artist, nil
}

type stubAlbumService struct {
	albums []store.Album
	detail store.AlbumDetail
	err    error
}

func (s *stubAlbumService) List(context.Context, store.AlbumFilter) ([]store.Album, error) {
	return s.albums, s.err
}

func (s *stubAlbumService) Featured(context.Context, int) ([]store.Album, error) {
	return s.albums, s.err
}

func (s *stubAlbumService) Get(context.Context, int64) (store.AlbumDetail, error) {
	if s.err != nil {
		return store.AlbumDetail{}, s.err
	}
	return s.detail, nil
}

func (s *stubAlbumService) Create(_ context.Context, album store.Album) (store.Album, error) {
	if s.err != nil {
		return store.Album{}, s.err
	}
	return album, nil
}

type stubSongService struct {
	songs []store.Song
	song  store.Song
	err   error
}

func (s *stubSongService) List(context.Context, store.SongFilter) ([]store.Song, error) {
	return s.songs, s.err
}

func (s *stubSongService) Featured(context.Context, int) ([]store.Song, error) {
	return s.songs, s.err
}

func (s *stubSongService) Get(context.Context, int64) (store.Song, error) {
	if s.err != nil {
		return store.Song{}, s.err
	}
	return s.song, nil
}

func (s *stubSongService) Create(_ context.Context, song store.Song) (store.Song, error) {
	if s.err != nil {
		return store.Song{}, s.err
	}
	return song, nil
}

type stubPlaylistService struct {
	playlists []store.Playlist
	detail    store.PlaylistDetail
	playlist  store.Playlist
	err       error

	lastUserID   int64
	lastSongID   int64
	lastUpdate   store.PlaylistUpdate
	updateCalled bool
}

func (s *stubPlaylistService) ListOwn(_ context.Context, userID int64) ([]store.Playlist, error) {
	s.lastUserID = userID
	return s.playlists, s.err
}

func (s *stubPlaylistService) ListPublic(context.Context, int, int) ([]store.Playlist, error) {
	return s.playlists, s.err
}

func (s *stubPlaylistService) Get(context.Context, int64) (store.PlaylistDetail, error) {
	if s.err != nil {
		return store.PlaylistDetail{}, s.err
	}
	return s.detail, nil
}

func (s *stubPlaylistService) Create(_ context.Context, userID int64, playlist store.Playlist) (store.Playlist, error) {
	s.lastUserID = userID
	if s.err != nil {
		return store.Playlist{}, s.err
	}
	playlist.UserID = userID
	return playlist, nil
}

func (s *stubPlaylistService) Update(_ context.Context, userID, _ int64, update store.PlaylistUpdate) (store.Playlist, error) {
	s.lastUserID = userID
	s.lastUpdate = update
	s.updateCalled = true
	if s.err != nil {
		return store.Playlist{}, s.err
	}
	return s.playlist, nil
}

func (s *stubPlaylistService) Delete(_ context.Context, userID, _ int64) error {
	s.lastUserID = userID
	return s.err
}

func (s *stubPlaylistService) AddSong(_ context.Context, userID, _, songID int64) (store.PlaylistDetail, error) {
	s.lastUserID = userID
	s.lastSongID = songID
	if s.err != nil {
		return store.PlaylistDetail{}, s.err
	}
	return s.detail, nil
}

func (s *stubPlaylistService) RemoveSong(_ context.Context, userID, _, songID int64) error {
	s.lastUserID = userID
	s.lastSongID = songID
	return s.err
}

type stubLibraryService struct {
	songs    []store.Song
	liked    bool
	plays    int64
	err      error
	lastSkip int
	lastLim  int
}

func (s *stubLibraryService) Like(context.Context, int64, int64) error {
	return s.err
}

func (s *stubLibraryService) Unlike(context.Context, int64, int64) error {
	return s.err
}

func (s *stubLibraryService) IsLiked(context.Context, int64, int64) (bool, error) {
	return s.liked, s.err
}

func (s *stubLibraryService) ListLiked(_ context.Context, _ int64, skip, limit int) ([]store.Song, error) {
	s.lastSkip = skip
	s.lastLim = limit
	return s.songs, s.err
}

func (s *stubLibraryService) RecordPlay(context.Context, int64, int64) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.plays, nil
}

func (s *stubLibraryService) ListRecentlyPlayed(_ context.Context, _ int64, limit int) ([]store.Song, error) {
	s.lastLim = limit
	return s.songs, s.err
}

type stubTokens struct {
	userID int64
	err    error
}

func (s stubTokens) Verify(string) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.userID, nil
}

type testServer struct {
	users     *stubUserService
	artists   *stubArtistService
	albums    *stubAlbumService
	songs     *stubSongService
	playlists *stubPlaylistService
	library   *stubLibraryService
	handler   http.Handler
}

func newTestServer() *testServer {
	ts := &testServer{
		users:     &stubUserService{},
		artists:   &stubArtistService{},
		albums:    &stubAlbumService{},
		songs:     &stubSongService{},
		playlists: &stubPlaylistService{},
		library:   &stubLibraryService{},
	}
	ts.handler = New(ts.users, ts.artists, ts.albums, ts.songs, ts.playlists, ts.library, stubTokens{userID: 7}).Routes()
	return ts
}

func doRequest(t *testing.T, handler http.Handler, method, target string, body any, authed bool) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, target, &buf)
	if authed {
		req.Header.Set("Authorization", "Bearer token")
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	ts := newTestServer()

	rec := doRequest(t, ts.handler, http.MethodGet, "/api/health", nil, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestPlaylistMutationsRequireAuth(t *testing.T) {
	ts := newTestServer()

	targets := []struct {
		method string
		target string
	}{
		{http.MethodGet, "/api/playlists"},
		{http.MethodPost, "/api/playlists"},
		{http.MethodPut, "/api/playlists/1"},
		{http.MethodDelete, "/api/playlists/1"},
		{http.MethodPost, "/api/playlists/1/songs"},
		{http.MethodDelete, "/api/playlists/1/songs/2"},
		{http.MethodGet, "/api/library/liked"},
		{http.MethodPost, "/api/library/liked/2"},
		{http.MethodPost, "/api/songs/2/play"},
		{http.MethodGet, "/api/auth/me"},
	}

	for _, tc := range targets {
		rec := doRequest(t, ts.handler, tc.method, tc.target, nil, false)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", tc.method, tc.target, rec.Code)
		}
	}
}

func TestGetPlaylistPublicReadNeedsNoAuth(t *testing.T) {
	ts := newTestServer()
	ts.playlists.detail = store.PlaylistDetail{Playlist: store.Playlist{ID: 1, Name: "Focus"}}

	rec := doRequest(t, ts.handler, http.MethodGet, "/api/playlists/1", nil, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAddSongStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{name: "success", wantStatus: http.StatusOK},
		{name: "playlist missing", serviceErr: store.ErrPlaylistNotFound, wantStatus: http.StatusNotFound},
		{name: "song missing", serviceErr: store.ErrSongNotFound, wantStatus: http.StatusNotFound},
		{name: "not owner", serviceErr: store.ErrNotPlaylistOwner, wantStatus: http.StatusForbidden},
		{name: "duplicate", serviceErr: store.ErrSongAlreadyInPlaylist, wantStatus: http.StatusBadRequest},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer()
			ts.playlists.err = tc.serviceErr

			rec := doRequest(t, ts.handler, http.MethodPost, "/api/playlists/1/songs",
				map[string]int64{"song_id": 5}, true)
			if rec.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tc.wantStatus, rec.Code, rec.Body.String())
			}
			if tc.serviceErr == nil && ts.playlists.lastSongID != 5 {
				t.Fatalf("expected song id 5, got %d", ts.playlists.lastSongID)
			}
		})
	}
}

func TestUpdatePlaylistOnlySendsProvidedFields(t *testing.T) {
	ts := newTestServer()

	rec := doRequest(t, ts.handler, http.MethodPut, "/api/playlists/1",
		map[string]any{"is_public": false}, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if !ts.playlists.updateCalled {
		t.Fatalf("expected update to be called")
	}
	update := ts.playlists.lastUpdate
	if update.Name != nil || update.Description != nil || update.CoverURL != nil {
		t.Fatalf("expected only is_public to be set: %#v", update)
	}
	if update.IsPublic == nil || *update.IsPublic {
		t.Fatalf("expected is_public=false, got %#v", update.IsPublic)
	}
}

func TestDeletePlaylistNoContent(t *testing.T) {
	ts := newTestServer()

	rec := doRequest(t, ts.handler, http.MethodDelete, "/api/playlists/1", nil, true)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if ts.playlists.lastUserID != 7 {
		t.Fatalf("expected caller 7, got %d", ts.playlists.lastUserID)
	}
}

func TestCreatePlaylistDefaultsToPublic(t *testing.T) {
	ts := newTestServer()

	rec := doRequest(t, ts.handler, http.MethodPost, "/api/playlists",
		map[string]string{"name": "Focus"}, true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var created store.Playlist
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !created.IsPublic {
		t.Fatalf("expected playlist to default to public")
	}
}

func TestListLikedLimitValidation(t *testing.T) {
	ts := newTestServer()

	for _, target := range []string{
		"/api/library/liked?limit=0",
		"/api/library/liked?limit=101",
		"/api/library/liked?skip=-1",
		"/api/library/liked?limit=abc",
	} {
		rec := doRequest(t, ts.handler, http.MethodGet, target, nil, true)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", target, rec.Code)
		}
	}

	rec := doRequest(t, ts.handler, http.MethodGet, "/api/library/liked", nil, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ts.library.lastLim != 50 {
		t.Fatalf("expected default limit 50, got %d", ts.library.lastLim)
	}
}

func TestLikeSongStatuses(t *testing.T) {
	ts := newTestServer()

	rec := doRequest(t, ts.handler, http.MethodPost, "/api/library/liked/5", nil, true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	ts.library.err = store.ErrAlreadyLiked
	rec = doRequest(t, ts.handler, http.MethodPost, "/api/library/liked/5", nil, true)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate like, got %d", rec.Code)
	}

	ts.library.err = store.ErrLikeNotFound
	rec = doRequest(t, ts.handler, http.MethodDelete, "/api/library/liked/5", nil, true)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing like, got %d", rec.Code)
	}
}

func TestRecordPlayResponse(t *testing.T) {
	ts := newTestServer()
	ts.library.plays = 101

	rec := doRequest(t, ts.handler, http.MethodPost, "/api/songs/5/play", nil, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Message string `json:"message"`
		Plays   int64  `json:"plays"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Plays != 101 {
		t.Fatalf("expected 101 plays, got %d", resp.Plays)
	}
}

func TestRecentlyPlayedDefaultLimit(t *testing.T) {
	ts := newTestServer()

	rec := doRequest(t, ts.handler, http.MethodGet, "/api/library/recently-played", nil, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ts.library.lastLim != 20 {
		t.Fatalf("expected default limit 20, got %d", ts.library.lastLim)
	}
}

func TestSignupValidation(t *testing.T) {
	ts := newTestServer()

	rec := doRequest(t, ts.handler, http.MethodPost, "/api/auth/signup",
		map[string]string{"email": "not-an-email", "username": "demo", "password": "pw"}, false)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	ts.users.signupErr = store.ErrUserExists
	rec = doRequest(t, ts.handler, http.MethodPost, "/api/auth/signup",
		map[string]string{"email": "demo@example.com", "username": "demo", "password": "pw"}, false)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate signup, got %d", rec.Code)
	}
}

func TestSignupIssuesToken(t *testing.T) {
	ts := newTestServer()
	ts.users.user = store.User{ID: 1, Email: "demo@example.com", Username: "demo"}
	ts.users.token = "issued-token"

	rec := doRequest(t, ts.handler, http.MethodPost, "/api/auth/signup",
		map[string]string{"email": "demo@example.com", "username": "demo", "password": "pw"}, false)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp tokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.AccessToken != "issued-token" || resp.TokenType != "bearer" {
		t.Fatalf("unexpected token response: %#v", resp)
	}
	if resp.User.Username != "demo" {
		t.Fatalf("expected user payload, got %#v", resp.User)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	ts := newTestServer()
	ts.users.loginErr = users.ErrInvalidCredentials

	rec := doRequest(t, ts.handler, http.MethodPost, "/api/auth/login",
		map[string]string{"email": "demo@example.com", "password": "bad"}, false)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestGetArtistNotFound(t *testing.T) {
	ts := newTestServer()
	ts.artists.err = store.ErrArtistNotFound

	rec := doRequest(t, ts.handler, http.MethodGet, "/api/artists/999", nil, false)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCreateAlbumRejectsBadReleaseDate(t *testing.T) {
	ts := newTestServer()

	rec := doRequest(t, ts.handler, http.MethodPost, "/api/albums",
		map[string]any{"title": "Dive", "artist_id": 1, "release_date": "06/01/2019"}, true)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCreateSongMissingArtistMapsTo404(t *testing.T) {
	ts := newTestServer()
	ts.songs.err = store.ErrArtistNotFound

	rec := doRequest(t, ts.handler, http.MethodPost, "/api/songs",
		map[string]any{"title": "Orphan", "artist_id": 404, "duration": 180, "audio_url": "https://x/a.mp3"}, true)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}
