package httpapi

import (
	"net/http"

	"soundhaven/internal/store"
)

func (s *Server) handleListLiked(w http.ResponseWriter, r *http.Request) {
	userID, err := s.currentUserID(r)
	if err != nil {
		writeUnauthorized(w, err)
		return
	}

	skip, limit, err := parsePage(r.URL.Query(), 50, 100)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	songs, err := s.library.ListLiked(r.Context(), userID, skip, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Songs []store.Song `json:"songs"`
	}{Songs: songs})
}

func (s *Server) handleLikeSong(w http.ResponseWriter, r *http.Request) {
	userID, err := s.currentUserID(r)
	if err != nil {
		writeUnauthorized(w, err)
		return
	}

	songID, err := pathID(r, "songID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid song id"})
		return
	}

	if err := s.library.Like(r.Context(), userID, songID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, struct {
		Message string `json:"message"`
		SongID  int64  `json:"song_id"`
	}{Message: "Song liked", SongID: songID})
}

func (s *Server) handleUnlikeSong(w http.ResponseWriter, r *http.Request) {
	userID, err := s.currentUserID(r)
	if err != nil {
		writeUnauthorized(w, err)
		return
	}

	songID, err := pathID(r, "songID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid song id"})
		return
	}

	if err := s.library.Unlike(r.Context(), userID, songID); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCheckLiked(w http.ResponseWriter, r *http.Request) {
	userID, err := s.currentUserID(r)
	if err != nil {
		writeUnauthorized(w, err)
		return
	}

	songID, err := pathID(r, "songID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid song id"})
		return
	}

	liked, err := s.library.IsLiked(r.Context(), userID, songID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		SongID  int64 `json:"song_id"`
		IsLiked bool  `json:"is_liked"`
	}{SongID: songID, IsLiked: liked})
}

func (s *Server) handleRecentlyPlayed(w http.ResponseWriter, r *http.Request) {
	userID, err := s.currentUserID(r)
	if err != nil {
		writeUnauthorized(w, err)
		return
	}

	_, limit, err := parsePage(r.URL.Query(), 20, 50)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	songs, err := s.library.ListRecentlyPlayed(r.Context(), userID, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Songs []store.Song `json:"songs"`
	}{Songs: songs})
}
