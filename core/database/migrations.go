package database

import (
	"context"
	"fmt"

	"pairtime-api/core/logger"
)

// schema is portable between postgres and sqlite: ids are TEXT, dates and
// wall-clock times are stored as their ISO strings.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS pairs (
		user_id    TEXT PRIMARY KEY,
		partner_id TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS time_slots (
		id         TEXT PRIMARY KEY,
		owner_id   TEXT NOT NULL,
		slot_date  TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time   TEXT NOT NULL,
		kind       TEXT NOT NULL,
		title      TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_time_slots_owner_date ON time_slots (owner_id, slot_date)`,
	`CREATE TABLE IF NOT EXISTS energy_phases (
		id          TEXT PRIMARY KEY,
		user_id     TEXT NOT NULL,
		phase       TEXT NOT NULL,
		recorded_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_energy_phases_user ON energy_phases (user_id, recorded_at)`,
	`CREATE TABLE IF NOT EXISTS calendar_connections (
		id               TEXT PRIMARY KEY,
		user_id          TEXT NOT NULL,
		provider         TEXT NOT NULL,
		access_token     TEXT NOT NULL DEFAULT '',
		refresh_token    TEXT NOT NULL DEFAULT '',
		token_expires_at TIMESTAMP,
		feed_url         TEXT NOT NULL DEFAULT '',
		label            TEXT NOT NULL DEFAULT '',
		is_active        BOOLEAN NOT NULL DEFAULT TRUE,
		created_at       TIMESTAMP NOT NULL,
		updated_at       TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS oauth_states (
		state      TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL,
		expires_at TIMESTAMP NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL,
		title      TEXT NOT NULL,
		message    TEXT NOT NULL,
		type       TEXT NOT NULL,
		data       TEXT NOT NULL DEFAULT '{}',
		is_read    BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP NOT NULL
	)`,
}

func Migrate(ctx context.Context, db IDatabase) error {
	for i, stmt := range schema {
		if err := db.ExecContext(ctx, stmt); err != nil {
			logger.Error("Database:Migrate:Error", "step", i, "error", err)
			return fmt.Errorf("migration step %d: %w", i, err)
		}
	}
	logger.Info("Database schema up to date", "steps", len(schema))
	return nil
}
