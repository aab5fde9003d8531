package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"soundhaven/internal/store"
)

type albumRequest struct {
	Title       string   `json:"title"`
	ArtistID    int64    `json:"artist_id"`
	CoverURL    string   `json:"cover_url"`
	Genres      []string `json:"genres"`
	ReleaseDate string   `json:"release_date"`
	AlbumType   string   `json:"album_type"`
}

func (s *Server) handleListAlbums(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := parsePage(r.URL.Query(), 20, 100)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	filter := store.AlbumFilter{
		Search: r.URL.Query().Get("search"),
		Skip:   skip,
		Limit:  limit,
	}

	albums, err := s.albums.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Albums []store.Album `json:"albums"`
	}{Albums: albums})
}

func (s *Server) handleFeaturedAlbums(w http.ResponseWriter, r *http.Request) {
	_, limit, err := parsePage(r.URL.Query(), 10, 50)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	albums, err := s.albums.Featured(r.Context(), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Albums []store.Album `json:"albums"`
	}{Albums: albums})
}

func (s *Server) handleGetAlbum(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid album id"})
		return
	}

	album, err := s.albums.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, album)
}

func (s *Server) handleCreateAlbum(w http.ResponseWriter, r *http.Request) {
	var req albumRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}
	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "album title is required"})
		return
	}

	album := store.Album{
		Title:     req.Title,
		ArtistID:  req.ArtistID,
		CoverURL:  req.CoverURL,
		Genres:    req.Genres,
		AlbumType: req.AlbumType,
	}
	if req.ReleaseDate != "" {
		released, err := time.Parse("2006-01-02", req.ReleaseDate)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "release_date must be YYYY-MM-DD"})
			return
		}
		album.ReleaseDate = &released
	}

	created, err := s.albums.Create(r.Context(), album)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}
