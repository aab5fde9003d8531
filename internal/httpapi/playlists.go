package httpapi

import (
	"encoding/json"
	"net/http"

	"soundhaven/internal/store"
)

type playlistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	CoverURL    string `json:"cover_url"`
	IsPublic    *bool  `json:"is_public"`
}

// playlistUpdateRequest carries patch semantics: absent fields stay nil
// and are left untouched by the update.
type playlistUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	CoverURL    *string `json:"cover_url"`
	IsPublic    *bool   `json:"is_public"`
}

type addSongRequest struct {
	SongID int64 `json:"song_id"`
}

func (s *Server) handleListOwnPlaylists(w http.ResponseWriter, r *http.Request) {
	userID, err := s.currentUserID(r)
	if err != nil {
		writeUnauthorized(w, err)
		return
	}

	playlists, err := s.playlists.ListOwn(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Playlists []store.Playlist `json:"playlists"`
	}{Playlists: playlists})
}

func (s *Server) handleListPublicPlaylists(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := parsePage(r.URL.Query(), 20, 100)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	playlists, err := s.playlists.ListPublic(r.Context(), skip, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Playlists []store.Playlist `json:"playlists"`
	}{Playlists: playlists})
}

func (s *Server) handleGetPlaylist(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid playlist id"})
		return
	}

	playlist, err := s.playlists.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, playlist)
}

func (s *Server) handleCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	userID, err := s.currentUserID(r)
	if err != nil {
		writeUnauthorized(w, err)
		return
	}

	var req playlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "playlist name is required"})
		return
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	created, err := s.playlists.Create(r.Context(), userID, store.Playlist{
		Name:        req.Name,
		Description: req.Description,
		CoverURL:    req.CoverURL,
		IsPublic:    isPublic,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdatePlaylist(w http.ResponseWriter, r *http.Request) {
	userID, err := s.currentUserID(r)
	if err != nil {
		writeUnauthorized(w, err)
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid playlist id"})
		return
	}

	var req playlistUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	updated, err := s.playlists.Update(r.Context(), userID, id, store.PlaylistUpdate{
		Name:        req.Name,
		Description: req.Description,
		CoverURL:    req.CoverURL,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeletePlaylist(w http.ResponseWriter, r *http.Request) {
	userID, err := s.currentUserID(r)
	if err != nil {
		writeUnauthorized(w, err)
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid playlist id"})
		return
	}

	if err := s.playlists.Delete(r.Context(), userID, id); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddSongToPlaylist(w http.ResponseWriter, r *http.Request) {
	userID, err := s.currentUserID(r)
	if err != nil {
		writeUnauthorized(w, err)
		return
	}

	playlistID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid playlist id"})
		return
	}

	var req addSongRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	playlist, err := s.playlists.AddSong(r.Context(), userID, playlistID, req.SongID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, playlist)
}

func (s *Server) handleRemoveSongFromPlaylist(w http.ResponseWriter, r *http.Request) {
	userID, err := s.currentUserID(r)
	if err != nil {
		writeUnauthorized(w, err)
		return
	}

	playlistID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid playlist id"})
		return
	}
	songID, err := pathID(r, "songID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid song id"})
		return
	}

	if err := s.playlists.RemoveSong(r.Context(), userID, playlistID, songID); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
