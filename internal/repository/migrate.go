package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// migrations is the schema, applied in order on startup. The partial index
// on rounds keeps at most one open round per game; the unique constraints
// back the one-vote, one-membership, one-mark and one-summary rules.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS games (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		status TEXT NOT NULL,
		current_phase TEXT NOT NULL,
		current_round_id UUID,
		current_action_id UUID,
		resolution_strategy TEXT NOT NULL,
		max_arguments INT NOT NULL DEFAULT 0,
		timeout_hours INT NOT NULL DEFAULT 48,
		momentum INT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS players (
		id UUID PRIMARY KEY,
		game_id UUID NOT NULL REFERENCES games(id) ON DELETE CASCADE,
		user_id TEXT NOT NULL,
		display_name TEXT NOT NULL,
		role TEXT NOT NULL,
		character_id TEXT,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL,
		CONSTRAINT players_game_user_key UNIQUE (game_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS rounds (
		id UUID PRIMARY KEY,
		game_id UUID NOT NULL REFERENCES games(id) ON DELETE CASCADE,
		number INT NOT NULL,
		status TEXT NOT NULL,
		actions_completed INT NOT NULL DEFAULT 0,
		total_actions_required INT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		CONSTRAINT rounds_game_number_key UNIQUE (game_id, number)
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS rounds_one_open_per_game
		ON rounds (game_id) WHERE status = 'IN_PROGRESS'`,
	`CREATE TABLE IF NOT EXISTS actions (
		id UUID PRIMARY KEY,
		round_id UUID NOT NULL REFERENCES rounds(id) ON DELETE CASCADE,
		game_id UUID NOT NULL REFERENCES games(id) ON DELETE CASCADE,
		initiator_id UUID NOT NULL REFERENCES players(id),
		description TEXT NOT NULL,
		desired_outcome TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		seq INT NOT NULL,
		resolution_method TEXT NOT NULL DEFAULT '',
		result_type TEXT,
		result_value INT,
		result_payload JSONB,
		argumentation_skipped BOOLEAN NOT NULL DEFAULT FALSE,
		voting_skipped BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL,
		resolved_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS actions_round_idx ON actions (round_id)`,
	`CREATE INDEX IF NOT EXISTS actions_status_created_idx
		ON actions (status, created_at)`,
	`CREATE TABLE IF NOT EXISTS arguments (
		id UUID PRIMARY KEY,
		action_id UUID NOT NULL REFERENCES actions(id) ON DELETE CASCADE,
		author_id UUID NOT NULL REFERENCES players(id),
		type TEXT NOT NULL,
		content TEXT NOT NULL,
		is_strong BOOLEAN NOT NULL DEFAULT FALSE,
		seq INT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS votes (
		id UUID PRIMARY KEY,
		action_id UUID NOT NULL REFERENCES actions(id) ON DELETE CASCADE,
		voter_id UUID NOT NULL REFERENCES players(id),
		vote_type TEXT NOT NULL,
		was_skipped BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL,
		CONSTRAINT votes_action_voter_key UNIQUE (action_id, voter_id)
	)`,
	`CREATE TABLE IF NOT EXISTS argumentation_marks (
		action_id UUID NOT NULL REFERENCES actions(id) ON DELETE CASCADE,
		player_id UUID NOT NULL REFERENCES players(id),
		created_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (action_id, player_id)
	)`,
	`CREATE TABLE IF NOT EXISTS round_summaries (
		id UUID PRIMARY KEY,
		round_id UUID NOT NULL REFERENCES rounds(id) ON DELETE CASCADE,
		author_id UUID NOT NULL REFERENCES players(id),
		content TEXT NOT NULL,
		stats JSONB NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL,
		CONSTRAINT round_summaries_round_key UNIQUE (round_id)
	)`,
	`CREATE TABLE IF NOT EXISTS game_events (
		id BIGSERIAL PRIMARY KEY,
		game_id UUID NOT NULL REFERENCES games(id) ON DELETE CASCADE,
		actor_id TEXT,
		type TEXT NOT NULL,
		payload JSONB NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS game_events_game_idx ON game_events (game_id, id)`,
}

// Migrate applies the schema.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range migrations {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}
	return nil
}
