package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog/log"
)

const (
	dbConnectAttempts = 10
	dbConnectBackoff  = 2 * time.Second
)

// openDatabase connects to Postgres and verifies the connection with a
// bounded retry loop so the server survives a database that is still
// starting up.
func openDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	var pingErr error
	for attempt := 1; attempt <= dbConnectAttempts; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		pingErr = db.PingContext(pingCtx)
		cancel()
		if pingErr == nil {
			return db, nil
		}

		log.Warn().
			Err(pingErr).
			Int("attempt", attempt).
			Int("max_attempts", dbConnectAttempts).
			Msg("database not ready, retrying")

		select {
		case <-ctx.Done():
			_ = db.Close()
			return nil, ctx.Err()
		case <-time.After(dbConnectBackoff):
		}
	}

	_ = db.Close()
	return nil, fmt.Errorf("ping database: %w", pingErr)
}
