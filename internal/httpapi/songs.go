package httpapi

import (
	"encoding/json"
	"net/http"

	"soundhaven/internal/store"
)

type songRequest struct {
	Title       string `json:"title"`
	ArtistID    int64  `json:"artist_id"`
	AlbumID     *int64 `json:"album_id"`
	Duration    int    `json:"duration"`
	AudioURL    string `json:"audio_url"`
	TrackNumber *int   `json:"track_number"`
}

func (s *Server) handleListSongs(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := parsePage(r.URL.Query(), 20, 100)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	filter := store.SongFilter{
		Search: r.URL.Query().Get("search"),
		Skip:   skip,
		Limit:  limit,
	}

	songs, err := s.songs.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Songs []store.Song `json:"songs"`
	}{Songs: songs})
}

func (s *Server) handleFeaturedSongs(w http.ResponseWriter, r *http.Request) {
	_, limit, err := parsePage(r.URL.Query(), 10, 50)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	songs, err := s.songs.Featured(r.Context(), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Songs []store.Song `json:"songs"`
	}{Songs: songs})
}

func (s *Server) handleGetSong(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid song id"})
		return
	}

	song, err := s.songs.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, song)
}

func (s *Server) handleCreateSong(w http.ResponseWriter, r *http.Request) {
	var req songRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}
	if req.Title == "" || req.AudioURL == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "title and audio_url are required"})
		return
	}
	if req.Duration <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "duration must be positive"})
		return
	}

	created, err := s.songs.Create(r.Context(), store.Song{
		Title:       req.Title,
		ArtistID:    req.ArtistID,
		AlbumID:     req.AlbumID,
		Duration:    req.Duration,
		AudioURL:    req.AudioURL,
		TrackNumber: req.TrackNumber,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleRecordPlay(w http.ResponseWriter, r *http.Request) {
	userID, err := s.currentUserID(r)
	if err != nil {
		writeUnauthorized(w, err)
		return
	}

	songID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid song id"})
		return
	}

	plays, err := s.library.RecordPlay(r.Context(), userID, songID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Message string `json:"message"`
		Plays   int64  `json:"plays"`
	}{Message: "Play recorded", Plays: plays})
}
