package main

import (
	"context"
	"net/http"
	"os"

	"github.com/rs/zerolog/log"

	"soundhaven/internal/logging"
	"soundhaven/internal/store"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		logging.Setup(logging.Config{Level: "info", Format: "json", Output: os.Stderr})
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	logging.Setup(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: os.Stderr})

	ctx := context.Background()

	db, err := openDatabase(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database unavailable")
	}
	defer db.Close()

	if cfg.SeedSampleData {
		if err := bootstrapSampleData(ctx, db, store.New(db)); err != nil {
			log.Fatal().Err(err).Msg("seed sample data")
		}
	}

	handler := buildHandler(db, cfg)

	log.Info().Str("addr", cfg.Addr).Msg("starting server")
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
