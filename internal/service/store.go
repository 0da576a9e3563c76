// Package service provides the action/round orchestration: it enforces
// role and phase preconditions, invokes resolution strategies, and drives
// the phase state machine.
package service

import (
	"context"
	"time"

	"storyforge/internal/model"
)

// Store is the persistence contract the orchestration consumes. The pgx
// repositories implement it for production; tests use an in-memory fake.
//
// Conditional updates (the "only if current status equals X" methods) are
// the race-safety mechanism: a lost race surfaces as a wrong-phase error,
// never as a double-applied transition. Uniqueness (one vote per player per
// action, one summary per round, one membership per user per game) is
// enforced by the store, not by in-process locking.
type Store interface {
	// RunInTx executes fn atomically. The Store passed to fn performs all
	// operations inside the same transaction.
	RunInTx(ctx context.Context, fn func(Store) error) error

	CreateGame(ctx context.Context, game *model.Game) error
	GetGame(ctx context.Context, id string) (*model.Game, error)
	// UpdateGameStatus moves game status only when it currently equals from.
	UpdateGameStatus(ctx context.Context, id string, from, to model.GameStatus) error
	// UpdateGamePhase moves the game phase only when it currently equals
	// from, updating the current round/action references in the same write.
	UpdateGamePhase(ctx context.Context, id string, from, to model.GamePhase, roundID, actionID *string) error
	AddMomentum(ctx context.Context, id string, delta int) error

	// AddPlayer fails with ALREADY_SUBMITTED when the user already joined.
	AddPlayer(ctx context.Context, player *model.Player) error
	GetPlayerByUser(ctx context.Context, gameID, userID string) (*model.Player, error)
	ListPlayers(ctx context.Context, gameID string) ([]*model.Player, error)

	CreateRound(ctx context.Context, round *model.Round) error
	GetRound(ctx context.Context, id string) (*model.Round, error)
	// IncrementActionsCompleted bumps the counter and returns the updated
	// round.
	IncrementActionsCompleted(ctx context.Context, id string) (*model.Round, error)
	// CompleteRound moves the round to COMPLETED only when IN_PROGRESS.
	CompleteRound(ctx context.Context, id string) error
	// CreateSummary fails with SUMMARY_EXISTS when the round already has one.
	CreateSummary(ctx context.Context, summary *model.RoundSummary) error

	CreateAction(ctx context.Context, action *model.Action) error
	GetAction(ctx context.Context, id string) (*model.Action, error)
	ListActions(ctx context.Context, roundID string) ([]*model.Action, error)
	// UpdateActionStatus moves action status only when it currently equals
	// from; a lost race fails with WRONG_PHASE.
	UpdateActionStatus(ctx context.Context, id string, from, to model.ActionStatus) error
	SetArgumentationSkipped(ctx context.Context, id string) error
	SetVotingSkipped(ctx context.Context, id string) error
	// ResolveAction writes the result, the frozen resolution method and the
	// RESOLVED status in one conditional update; the second attempt fails
	// with WRONG_PHASE and leaves the first result untouched.
	ResolveAction(ctx context.Context, id string, from model.ActionStatus, method string, result *model.ResolutionResult, at time.Time) error
	// ListExpiredActions returns unresolved actions whose game timeout has
	// elapsed, for the sweep.
	ListExpiredActions(ctx context.Context, now time.Time) ([]*model.Action, error)

	AddArgument(ctx context.Context, argument *model.Argument) error
	GetArgument(ctx context.Context, id string) (*model.Argument, error)
	ListArguments(ctx context.Context, actionID string) ([]*model.Argument, error)
	SetArgumentStrong(ctx context.Context, id string, strong bool) error

	// AddVote fails with ALREADY_VOTED when the player already voted.
	AddVote(ctx context.Context, vote *model.Vote) error
	ListVotes(ctx context.Context, actionID string) ([]*model.Vote, error)

	// AddCompletionMark records a player's "done arguing" mark; a duplicate
	// fails with ALREADY_SUBMITTED.
	AddCompletionMark(ctx context.Context, actionID, playerID string) error
	ListCompletionMarks(ctx context.Context, actionID string) ([]string, error)

	AppendEvent(ctx context.Context, gameID string, actorID *string, eventType model.EventType, payload map[string]any) error
}

// unitKey identifies a player's acting unit: the shared character when one
// is set, otherwise the player themselves.
func unitKey(p *model.Player) string {
	if p.CharacterID != nil && *p.CharacterID != "" {
		return "character:" + *p.CharacterID
	}
	return "player:" + p.ID
}

// activePlayers filters the active members of a roster.
func activePlayers(players []*model.Player) []*model.Player {
	active := make([]*model.Player, 0, len(players))
	for _, p := range players {
		if p.Active {
			active = append(active, p)
		}
	}
	return active
}

// recipientIDs collects user ids for notification fan-out.
func recipientIDs(players []*model.Player) []string {
	ids := make([]string, 0, len(players))
	for _, p := range players {
		if p.Active {
			ids = append(ids, p.UserID)
		}
	}
	return ids
}
