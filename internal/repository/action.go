package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"storyforge/internal/apperr"
	"storyforge/internal/model"
)

const actionColumns = `id, round_id, game_id, initiator_id, description, desired_outcome,
	status, seq, resolution_method, result_type, result_value,
	COALESCE(result_payload, '{}'::jsonb), argumentation_skipped, voting_skipped,
	created_at, resolved_at`

func scanAction(row pgx.Row) (*model.Action, error) {
	var (
		action      model.Action
		resultType  *model.ResultType
		resultValue *int
		payload     map[string]any
	)
	err := row.Scan(
		&action.ID,
		&action.RoundID,
		&action.GameID,
		&action.InitiatorID,
		&action.Description,
		&action.DesiredOutcome,
		&action.Status,
		&action.Seq,
		&action.ResolutionMethod,
		&resultType,
		&resultValue,
		&payload,
		&action.ArgumentationSkipped,
		&action.VotingSkipped,
		&action.CreatedAt,
		&action.ResolvedAt,
	)
	if err != nil {
		return nil, err
	}
	if resultType != nil && resultValue != nil {
		action.Result = &model.ResolutionResult{
			Type:    *resultType,
			Value:   *resultValue,
			Payload: payload,
		}
	}
	return &action, nil
}

// CreateAction inserts a new action.
func (s *Store) CreateAction(ctx context.Context, action *model.Action) error {
	const query = `
		INSERT INTO actions (id, round_id, game_id, initiator_id, description, desired_outcome,
			status, seq, resolution_method, argumentation_skipped, voting_skipped, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := s.q.Exec(ctx, query,
		action.ID, action.RoundID, action.GameID, action.InitiatorID,
		action.Description, action.DesiredOutcome, action.Status, action.Seq,
		action.ResolutionMethod, action.ArgumentationSkipped, action.VotingSkipped,
		action.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create action: %w", err)
	}
	return nil
}

// GetAction retrieves an action by id.
func (s *Store) GetAction(ctx context.Context, id string) (*model.Action, error) {
	query := `SELECT ` + actionColumns + ` FROM actions WHERE id = $1`

	action, err := scanAction(s.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(apperr.CodeActionNotFound, "action not found")
		}
		return nil, fmt.Errorf("failed to get action: %w", err)
	}
	return action, nil
}

// ListActions returns a round's actions in proposal order.
func (s *Store) ListActions(ctx context.Context, roundID string) ([]*model.Action, error) {
	query := `SELECT ` + actionColumns + ` FROM actions WHERE round_id = $1 ORDER BY seq`

	rows, err := s.q.Query(ctx, query, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to list actions: %w", err)
	}
	defer rows.Close()

	var actions []*model.Action
	for rows.Next() {
		action, err := scanAction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan action: %w", err)
		}
		actions = append(actions, action)
	}
	return actions, rows.Err()
}

// UpdateActionStatus moves action status only when it currently equals from.
func (s *Store) UpdateActionStatus(ctx context.Context, id string, from, to model.ActionStatus) error {
	const query = `
		UPDATE actions SET status = $3 WHERE id = $1 AND status = $2
	`
	tag, err := s.q.Exec(ctx, query, id, from, to)
	return guarded(tag, err, "action status")
}

// SetArgumentationSkipped flags the action's argumentation as skipped.
func (s *Store) SetArgumentationSkipped(ctx context.Context, id string) error {
	const query = `UPDATE actions SET argumentation_skipped = TRUE WHERE id = $1`
	if _, err := s.q.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to flag skipped argumentation: %w", err)
	}
	return nil
}

// SetVotingSkipped flags the action's voting as skipped.
func (s *Store) SetVotingSkipped(ctx context.Context, id string) error {
	const query = `UPDATE actions SET voting_skipped = TRUE WHERE id = $1`
	if _, err := s.q.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to flag skipped voting: %w", err)
	}
	return nil
}

// ResolveAction writes the result, the frozen method and RESOLVED status in
// one guarded update. A second attempt finds the status gone and fails.
func (s *Store) ResolveAction(ctx context.Context, id string, from model.ActionStatus, method string, result *model.ResolutionResult, at time.Time) error {
	const query = `
		UPDATE actions
		SET status = $3, resolution_method = $4, result_type = $5, result_value = $6,
			result_payload = $7, resolved_at = $8
		WHERE id = $1 AND status = $2
	`
	tag, err := s.q.Exec(ctx, query, id, from, model.ActionResolved,
		method, result.Type, result.Value, result.Payload, at)
	return guarded(tag, err, "action resolution")
}

// ListExpiredActions returns unresolved actions whose game timeout has
// elapsed at the given instant.
func (s *Store) ListExpiredActions(ctx context.Context, now time.Time) ([]*model.Action, error) {
	const query = `
		SELECT a.id, a.round_id, a.game_id, a.initiator_id, a.description, a.desired_outcome,
			a.status, a.seq, a.resolution_method, a.result_type, a.result_value,
			COALESCE(a.result_payload, '{}'::jsonb), a.argumentation_skipped, a.voting_skipped,
			a.created_at, a.resolved_at
		FROM actions a
		JOIN games g ON g.id = a.game_id
		WHERE a.status IN ($1, $2)
		  AND g.timeout_hours > 0
		  AND a.created_at + make_interval(hours => g.timeout_hours) <= $3
		ORDER BY a.created_at
	`
	rows, err := s.q.Query(ctx, query, model.ActionArguing, model.ActionVoting, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list expired actions: %w", err)
	}
	defer rows.Close()

	var actions []*model.Action
	for rows.Next() {
		action, err := scanAction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expired action: %w", err)
		}
		actions = append(actions, action)
	}
	return actions, rows.Err()
}

const argumentColumns = `id, action_id, author_id, type, content, is_strong, seq, created_at`

func scanArgument(row pgx.Row) (*model.Argument, error) {
	var argument model.Argument
	err := row.Scan(
		&argument.ID,
		&argument.ActionID,
		&argument.AuthorID,
		&argument.Type,
		&argument.Content,
		&argument.IsStrong,
		&argument.Seq,
		&argument.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &argument, nil
}

// AddArgument inserts an argument.
func (s *Store) AddArgument(ctx context.Context, argument *model.Argument) error {
	const query = `
		INSERT INTO arguments (id, action_id, author_id, type, content, is_strong, seq, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.q.Exec(ctx, query,
		argument.ID, argument.ActionID, argument.AuthorID, argument.Type,
		argument.Content, argument.IsStrong, argument.Seq, argument.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to add argument: %w", err)
	}
	return nil
}

// GetArgument retrieves an argument by id.
func (s *Store) GetArgument(ctx context.Context, id string) (*model.Argument, error) {
	query := `SELECT ` + argumentColumns + ` FROM arguments WHERE id = $1`

	argument, err := scanArgument(s.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(apperr.CodeArgumentNotFound, "argument not found")
		}
		return nil, fmt.Errorf("failed to get argument: %w", err)
	}
	return argument, nil
}

// ListArguments returns an action's arguments in thread order.
func (s *Store) ListArguments(ctx context.Context, actionID string) ([]*model.Argument, error) {
	query := `SELECT ` + argumentColumns + ` FROM arguments WHERE action_id = $1 ORDER BY seq`

	rows, err := s.q.Query(ctx, query, actionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list arguments: %w", err)
	}
	defer rows.Close()

	var args []*model.Argument
	for rows.Next() {
		argument, err := scanArgument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan argument: %w", err)
		}
		args = append(args, argument)
	}
	return args, rows.Err()
}

// SetArgumentStrong toggles an argument's strength flag.
func (s *Store) SetArgumentStrong(ctx context.Context, id string, strong bool) error {
	const query = `UPDATE arguments SET is_strong = $2 WHERE id = $1`

	tag, err := s.q.Exec(ctx, query, id, strong)
	if err != nil {
		return fmt.Errorf("failed to mark argument: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(apperr.CodeArgumentNotFound, "argument not found")
	}
	return nil
}

// AddVote inserts a vote; a second vote by the same player on the same
// action fails with ALREADY_VOTED.
func (s *Store) AddVote(ctx context.Context, vote *model.Vote) error {
	const query = `
		INSERT INTO votes (id, action_id, voter_id, vote_type, was_skipped, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.q.Exec(ctx, query,
		vote.ID, vote.ActionID, vote.VoterID, vote.Type, vote.WasSkipped, vote.CreatedAt,
	)
	if err != nil {
		if mapped := mapConstraintErr(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to add vote: %w", err)
	}
	return nil
}

// ListVotes returns an action's votes in cast order.
func (s *Store) ListVotes(ctx context.Context, actionID string) ([]*model.Vote, error) {
	const query = `
		SELECT id, action_id, voter_id, vote_type, was_skipped, created_at
		FROM votes WHERE action_id = $1 ORDER BY created_at, id
	`
	rows, err := s.q.Query(ctx, query, actionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}
	defer rows.Close()

	var votes []*model.Vote
	for rows.Next() {
		var vote model.Vote
		if err := rows.Scan(&vote.ID, &vote.ActionID, &vote.VoterID,
			&vote.Type, &vote.WasSkipped, &vote.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, &vote)
	}
	return votes, rows.Err()
}

// AddCompletionMark records a player's "done arguing" mark; duplicates fail
// with ALREADY_SUBMITTED.
func (s *Store) AddCompletionMark(ctx context.Context, actionID, playerID string) error {
	const query = `
		INSERT INTO argumentation_marks (action_id, player_id, created_at)
		VALUES ($1, $2, NOW())
	`
	if _, err := s.q.Exec(ctx, query, actionID, playerID); err != nil {
		if mapped := mapConstraintErr(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to add completion mark: %w", err)
	}
	return nil
}

// ListCompletionMarks returns the ids of players who marked an action done.
func (s *Store) ListCompletionMarks(ctx context.Context, actionID string) ([]string, error) {
	const query = `SELECT player_id FROM argumentation_marks WHERE action_id = $1`

	rows, err := s.q.Query(ctx, query, actionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list completion marks: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan completion mark: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
