package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"go.uber.org/zap"
)

// RetryDelay is the pause between ping attempts.
var RetryDelay = 3 * time.Second

// Connect opens the Postgres pool at dbURL and waits until it answers a ping,
// trying up to attempts times.
func Connect(ctx context.Context, dbURL string, attempts int, log *zap.Logger) (*sql.DB, error) {
	if dbURL == "" {
		return nil, fmt.Errorf("database url is not set")
	}
	if attempts < 1 {
		attempts = 1
	}

	// sql.Open only prepares the pool; the ping below makes the first connection.
	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection (driver error): %w", err)
	}

	var pingErr error
	for i := 1; i <= attempts; i++ {
		pingErr = db.PingContext(ctx)
		if pingErr == nil {
			return db, nil
		}
		log.Warn("database not ready",
			zap.Int("attempt", i),
			zap.Int("attempts", attempts),
			zap.Error(pingErr))
		if i == attempts {
			break
		}
		select {
		case <-ctx.Done():
			db.Close()
			return nil, ctx.Err()
		case <-time.After(RetryDelay):
		}
	}

	db.Close()
	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", attempts, pingErr)
}

// EnsureSchema creates the tables the course service needs.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            SERIAL PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS courses (
		id   SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		code TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS courses_code_key ON courses (lower(code))`,
	`CREATE TABLE IF NOT EXISTS lessons (
		id           SERIAL PRIMARY KEY,
		course_id    INT NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
		lesson_order INT NOT NULL DEFAULT 0,
		title        TEXT NOT NULL,
		UNIQUE (course_id, title)
	)`,
	`CREATE TABLE IF NOT EXISTS exercises (
		id        SERIAL PRIMARY KEY,
		lesson_id INT NOT NULL REFERENCES lessons(id) ON DELETE CASCADE,
		position  INT NOT NULL,
		kind      TEXT NOT NULL CHECK (kind IN ('multiple_choice', 'free_text')),
		prompt    TEXT NOT NULL,
		options   JSONB,
		answer    TEXT NOT NULL,
		UNIQUE (lesson_id, position)
	)`,
}
