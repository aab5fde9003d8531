package main

import (
	"database/sql"
	"net/http"

	"soundhaven/internal/app/albums"
	"soundhaven/internal/app/artists"
	"soundhaven/internal/app/library"
	"soundhaven/internal/app/playlists"
	"soundhaven/internal/app/songs"
	"soundhaven/internal/app/users"
	"soundhaven/internal/auth"
	"soundhaven/internal/httpapi"
	"soundhaven/internal/middleware"
	"soundhaven/internal/store"
)

// buildHandler wires the storage layer, services and HTTP surface into a
// single handler with the middleware chain applied.
func buildHandler(db *sql.DB, cfg Config) http.Handler {
	st := store.New(db)
	tokens := auth.NewTokenManager(cfg.JWTSecret)

	server := httpapi.New(
		users.New(st, tokens),
		artists.New(st),
		albums.New(st),
		songs.New(st),
		playlists.New(st),
		library.New(st),
		tokens,
	)

	handler := server.Routes()
	handler = middleware.CORS(cfg.AllowedOrigins)(handler)
	handler = middleware.RequestLogging()(handler)
	handler = middleware.Recovery()(handler)
	return handler
}
