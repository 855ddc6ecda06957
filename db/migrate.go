package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Migrate bootstraps the schema. Statements are idempotent so the function
// is safe to run on every startup.
//
// game_results carries the two invariants the rest of the system leans on:
// UNIQUE (game_id, player_id) and cascading deletes from both parents.
func Migrate(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS players (
			id         SERIAL PRIMARY KEY,
			name       TEXT NOT NULL UNIQUE,
			email      TEXT,
			avatar_url TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS games (
			id         SERIAL PRIMARY KEY,
			date       DATE NOT NULL DEFAULT CURRENT_DATE,
			location   TEXT,
			game_type  TEXT NOT NULL DEFAULT '3 Patti',
			notes      TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS game_results (
			id        SERIAL PRIMARY KEY,
			game_id   INTEGER NOT NULL REFERENCES games (id) ON DELETE CASCADE,
			player_id INTEGER NOT NULL REFERENCES players (id) ON DELETE CASCADE,
			position  INTEGER NOT NULL CHECK (position >= 1),
			CONSTRAINT game_results_game_player_key UNIQUE (game_id, player_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_game_results_player_id ON game_results (player_id)`,
		`CREATE INDEX IF NOT EXISTS idx_games_date ON games (date)`,
		`CREATE TABLE IF NOT EXISTS delete_credentials (
			id               SERIAL PRIMARY KEY,
			password_hash    TEXT NOT NULL,
			reset_token      TEXT,
			reset_expires_at TIMESTAMPTZ,
			updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		// Convenience view for ad-hoc SQL; the API recomputes aggregates in
		// the ranking package, this view is not on the serving path.
		`CREATE OR REPLACE VIEW player_stats AS
			SELECT
				p.id AS player_id,
				p.name,
				COUNT(r.id) AS total_games,
				COUNT(r.id) FILTER (WHERE r.position = 1) AS games_won,
				MIN(r.position) AS best_position,
				MAX(r.position) AS worst_position,
				MAX(g.date) AS last_game_date
			FROM players p
			LEFT JOIN game_results r ON r.player_id = p.id
			LEFT JOIN games g ON g.id = r.game_id
			GROUP BY p.id, p.name`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
