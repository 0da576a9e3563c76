package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"storyforge/internal/apperr"
	"storyforge/internal/model"
)

const roundColumns = `id, game_id, number, status, actions_completed, total_actions_required,
	created_at, updated_at`

func scanRound(row pgx.Row) (*model.Round, error) {
	var round model.Round
	err := row.Scan(
		&round.ID,
		&round.GameID,
		&round.Number,
		&round.Status,
		&round.ActionsCompleted,
		&round.TotalActionsRequired,
		&round.CreatedAt,
		&round.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &round, nil
}

// CreateRound inserts a new round.
func (s *Store) CreateRound(ctx context.Context, round *model.Round) error {
	const query = `
		INSERT INTO rounds (id, game_id, number, status, actions_completed, total_actions_required,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.q.Exec(ctx, query,
		round.ID, round.GameID, round.Number, round.Status,
		round.ActionsCompleted, round.TotalActionsRequired,
		round.CreatedAt, round.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create round: %w", err)
	}
	return nil
}

// GetRound retrieves a round by id.
func (s *Store) GetRound(ctx context.Context, id string) (*model.Round, error) {
	query := `SELECT ` + roundColumns + ` FROM rounds WHERE id = $1`

	round, err := scanRound(s.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(apperr.CodeRoundNotFound, "round not found")
		}
		return nil, fmt.Errorf("failed to get round: %w", err)
	}
	return round, nil
}

// IncrementActionsCompleted bumps the counter and returns the updated round.
func (s *Store) IncrementActionsCompleted(ctx context.Context, id string) (*model.Round, error) {
	query := `
		UPDATE rounds SET actions_completed = actions_completed + 1, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + roundColumns

	round, err := scanRound(s.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(apperr.CodeRoundNotFound, "round not found")
		}
		return nil, fmt.Errorf("failed to increment completed actions: %w", err)
	}
	return round, nil
}

// CompleteRound moves the round to COMPLETED only while IN_PROGRESS.
func (s *Store) CompleteRound(ctx context.Context, id string) error {
	const query = `
		UPDATE rounds SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`
	tag, err := s.q.Exec(ctx, query, id, model.RoundInProgress, model.RoundCompleted)
	return guarded(tag, err, "round status")
}

// CreateSummary inserts a round's summary; a second one for the same round
// fails with SUMMARY_EXISTS.
func (s *Store) CreateSummary(ctx context.Context, summary *model.RoundSummary) error {
	const query = `
		INSERT INTO round_summaries (id, round_id, author_id, content, stats, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.q.Exec(ctx, query,
		summary.ID, summary.RoundID, summary.AuthorID, summary.Content,
		summary.Stats, summary.CreatedAt,
	)
	if err != nil {
		if mapped := mapConstraintErr(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to create round summary: %w", err)
	}
	return nil
}
