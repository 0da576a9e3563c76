package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"storyforge/internal/apperr"
	"storyforge/internal/model"
)

const gameColumns = `id, name, status, current_phase, current_round_id, current_action_id,
	resolution_strategy, max_arguments, timeout_hours, momentum, created_at, updated_at`

func scanGame(row pgx.Row) (*model.Game, error) {
	var game model.Game
	err := row.Scan(
		&game.ID,
		&game.Name,
		&game.Status,
		&game.CurrentPhase,
		&game.CurrentRoundID,
		&game.CurrentActionID,
		&game.Settings.ResolutionStrategy,
		&game.Settings.MaxArguments,
		&game.Settings.TimeoutHours,
		&game.Momentum,
		&game.CreatedAt,
		&game.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &game, nil
}

// CreateGame inserts a new game.
func (s *Store) CreateGame(ctx context.Context, game *model.Game) error {
	const query = `
		INSERT INTO games (id, name, status, current_phase, current_round_id, current_action_id,
			resolution_strategy, max_arguments, timeout_hours, momentum, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := s.q.Exec(ctx, query,
		game.ID, game.Name, game.Status, game.CurrentPhase,
		game.CurrentRoundID, game.CurrentActionID,
		game.Settings.ResolutionStrategy, game.Settings.MaxArguments, game.Settings.TimeoutHours,
		game.Momentum, game.CreatedAt, game.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}
	return nil
}

// GetGame retrieves a game by id.
func (s *Store) GetGame(ctx context.Context, id string) (*model.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = $1`

	game, err := scanGame(s.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(apperr.CodeGameNotFound, "game not found")
		}
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	return game, nil
}

// UpdateGameStatus moves game status only when it currently equals from.
func (s *Store) UpdateGameStatus(ctx context.Context, id string, from, to model.GameStatus) error {
	const query = `
		UPDATE games SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`
	tag, err := s.q.Exec(ctx, query, id, from, to)
	return guarded(tag, err, "game status")
}

// UpdateGamePhase moves the game phase only when it currently equals from,
// swapping the current round/action references in the same write.
func (s *Store) UpdateGamePhase(ctx context.Context, id string, from, to model.GamePhase, roundID, actionID *string) error {
	const query = `
		UPDATE games
		SET current_phase = $3, current_round_id = $4, current_action_id = $5, updated_at = NOW()
		WHERE id = $1 AND current_phase = $2
	`
	tag, err := s.q.Exec(ctx, query, id, from, to, roundID, actionID)
	return guarded(tag, err, "game phase")
}

// AddMomentum shifts the game's momentum by delta.
func (s *Store) AddMomentum(ctx context.Context, id string, delta int) error {
	const query = `
		UPDATE games SET momentum = momentum + $2, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := s.q.Exec(ctx, query, id, delta)
	if err != nil {
		return fmt.Errorf("failed to update momentum: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(apperr.CodeGameNotFound, "game not found")
	}
	return nil
}

const playerColumns = `id, game_id, user_id, display_name, role, character_id, active, created_at`

func scanPlayer(row pgx.Row) (*model.Player, error) {
	var player model.Player
	err := row.Scan(
		&player.ID,
		&player.GameID,
		&player.UserID,
		&player.DisplayName,
		&player.Role,
		&player.CharacterID,
		&player.Active,
		&player.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &player, nil
}

// AddPlayer inserts a player; a duplicate membership fails with
// ALREADY_SUBMITTED.
func (s *Store) AddPlayer(ctx context.Context, player *model.Player) error {
	const query = `
		INSERT INTO players (id, game_id, user_id, display_name, role, character_id, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.q.Exec(ctx, query,
		player.ID, player.GameID, player.UserID, player.DisplayName,
		player.Role, player.CharacterID, player.Active, player.CreatedAt,
	)
	if err != nil {
		if mapped := mapConstraintErr(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to add player: %w", err)
	}
	return nil
}

// GetPlayerByUser retrieves a game's player record for a user.
func (s *Store) GetPlayerByUser(ctx context.Context, gameID, userID string) (*model.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE game_id = $1 AND user_id = $2`

	player, err := scanPlayer(s.q.QueryRow(ctx, query, gameID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.Forbidden(apperr.CodeNotParticipant, "user is not a participant")
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return player, nil
}

// ListPlayers returns a game's full roster in join order.
func (s *Store) ListPlayers(ctx context.Context, gameID string) ([]*model.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE game_id = $1 ORDER BY created_at, id`

	rows, err := s.q.Query(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	var players []*model.Player
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, player)
	}
	return players, rows.Err()
}
