package httpapi

import (
	"encoding/json"
	"net/http"

	"soundhaven/internal/store"
)

type artistRequest struct {
	Name             string   `json:"name"`
	Bio              string   `json:"bio"`
	ImageURL         string   `json:"image_url"`
	Genres           []string `json:"genres"`
	MonthlyListeners int64    `json:"monthly_listeners"`
}

func (s *Server) handleListArtists(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := parsePage(r.URL.Query(), 20, 100)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	filter := store.ArtistFilter{
		Search: r.URL.Query().Get("search"),
		Skip:   skip,
		Limit:  limit,
	}

	artists, err := s.artists.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Artists []store.Artist `json:"artists"`
	}{Artists: artists})
}

func (s *Server) handleFeaturedArtists(w http.ResponseWriter, r *http.Request) {
	_, limit, err := parsePage(r.URL.Query(), 10, 50)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	artists, err := s.artists.Featured(r.Context(), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Artists []store.Artist `json:"artists"`
	}{Artists: artists})
}

func (s *Server) handleGetArtist(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid artist id"})
		return
	}

	artist, err := s.artists.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, artist)
}

func (s *Server) handleCreateArtist(w http.ResponseWriter, r *http.Request) {
	var req artistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "artist name is required"})
		return
	}

	created, err := s.artists.Create(r.Context(), store.Artist{
		Name:             req.Name,
		Bio:              req.Bio,
		ImageURL:         req.ImageURL,
		Genres:           req.Genres,
		MonthlyListeners: req.MonthlyListeners,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}
