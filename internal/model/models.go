// Package model defines the data models for the storytelling game platform.
package model

import (
	"time"
)

// GameStatus represents the lifecycle state of a game.
type GameStatus string

const (
	GameStatusSetup     GameStatus = "SETUP"
	GameStatusActive    GameStatus = "ACTIVE"
	GameStatusCompleted GameStatus = "COMPLETED"
)

// GamePhase is a named stage in the per-action/per-round progression.
// During ACTIVE status the game phase mirrors the current action's status,
// plus the two aggregate phases PROPOSAL and ROUND_SUMMARY.
type GamePhase string

const (
	PhaseProposal      GamePhase = "PROPOSAL"
	PhaseProposed      GamePhase = "PROPOSED"
	PhaseArguing       GamePhase = "ARGUING"
	PhaseVoting        GamePhase = "VOTING"
	PhaseArbiterReview GamePhase = "ARBITER_REVIEW"
	PhaseResolved      GamePhase = "RESOLVED"
	PhaseRoundSummary  GamePhase = "ROUND_SUMMARY"
)

// RoundStatus represents the state of a round.
type RoundStatus string

const (
	RoundInProgress RoundStatus = "IN_PROGRESS"
	RoundCompleted  RoundStatus = "COMPLETED"
)

// ActionStatus represents the state of an action. Transitions are monotonic:
// PROPOSED -> ARGUING -> {VOTING | ARBITER_REVIEW} -> RESOLVED.
type ActionStatus string

const (
	ActionProposed      ActionStatus = "PROPOSED"
	ActionArguing       ActionStatus = "ARGUING"
	ActionVoting        ActionStatus = "VOTING"
	ActionArbiterReview ActionStatus = "ARBITER_REVIEW"
	ActionResolved      ActionStatus = "RESOLVED"
)

// Role identifies what a player may do in a game.
type Role string

const (
	RoleHost    Role = "HOST"
	RolePlayer  Role = "PLAYER"
	RoleArbiter Role = "ARBITER"
)

// ArgumentType classifies an argument in an action's thread.
type ArgumentType string

const (
	ArgumentFor          ArgumentType = "FOR"
	ArgumentAgainst      ArgumentType = "AGAINST"
	ArgumentClarify      ArgumentType = "CLARIFICATION"
	ArgumentInitiatorFor ArgumentType = "INITIATOR_FOR"
)

// IsPro reports whether the argument type argues in favor of the action.
func (t ArgumentType) IsPro() bool {
	return t == ArgumentFor || t == ArgumentInitiatorFor
}

// IsAnti reports whether the argument type argues against the action.
func (t ArgumentType) IsAnti() bool {
	return t == ArgumentAgainst
}

// VoteType is a player's assessment of an action's chances.
type VoteType string

const (
	VoteLikelySuccess VoteType = "LIKELY_SUCCESS"
	VoteLikelyFailure VoteType = "LIKELY_FAILURE"
	VoteUncertain     VoteType = "UNCERTAIN"
)

// TokenContribution returns the success/failure tokens this vote adds to a
// token-draw pool.
func (v VoteType) TokenContribution() (success, failure int) {
	switch v {
	case VoteLikelySuccess:
		return 2, 0
	case VoteLikelyFailure:
		return 0, 2
	default: // UNCERTAIN
		return 1, 1
	}
}

// ResultType is the outcome taxonomy shared by all resolution strategies.
type ResultType string

const (
	ResultTriumph    ResultType = "TRIUMPH"
	ResultSuccessBut ResultType = "SUCCESS_BUT"
	ResultFailureBut ResultType = "FAILURE_BUT"
	ResultDisaster   ResultType = "DISASTER"
)

// Game is the aggregate root. Exactly one active round/action at a time
// while the game is ACTIVE; CurrentPhase stays consistent with the current
// action and round statuses.
type Game struct {
	ID              string     `db:"id"`
	Name            string     `db:"name"`
	Status          GameStatus `db:"status"`
	CurrentPhase    GamePhase  `db:"current_phase"`
	CurrentRoundID  *string    `db:"current_round_id"`
	CurrentActionID *string    `db:"current_action_id"`
	Settings        GameSettings
	Momentum        int       `db:"momentum"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// GameSettings holds per-game configuration chosen by the host.
type GameSettings struct {
	ResolutionStrategy string `db:"resolution_strategy"`
	MaxArguments       int    `db:"max_arguments"` // 0 = use strategy default
	TimeoutHours       int    `db:"timeout_hours"`
}

// Player is a participant in a game. Players that share a CharacterID act
// jointly and count as a single acting unit for round sizing.
type Player struct {
	ID          string    `db:"id"`
	GameID      string    `db:"game_id"`
	UserID      string    `db:"user_id"`
	DisplayName string    `db:"display_name"`
	Role        Role      `db:"role"`
	CharacterID *string   `db:"character_id"`
	Active      bool      `db:"active"`
	CreatedAt   time.Time `db:"created_at"`
}

// Round belongs to a game. ActionsCompleted never exceeds
// TotalActionsRequired; the round completes only when they are equal and a
// summary has been submitted.
type Round struct {
	ID                   string      `db:"id"`
	GameID               string      `db:"game_id"`
	Number               int         `db:"number"`
	Status               RoundStatus `db:"status"`
	ActionsCompleted     int         `db:"actions_completed"`
	TotalActionsRequired int         `db:"total_actions_required"`
	CreatedAt            time.Time   `db:"created_at"`
	UpdatedAt            time.Time   `db:"updated_at"`
}

// Action belongs to a round. The resolution method is frozen from game
// settings when the action completes; the embedded result is immutable once
// written.
type Action struct {
	ID                   string       `db:"id"`
	RoundID              string       `db:"round_id"`
	GameID               string       `db:"game_id"`
	InitiatorID          string       `db:"initiator_id"`
	Description          string       `db:"description"`
	DesiredOutcome       string       `db:"desired_outcome"`
	Status               ActionStatus `db:"status"`
	Seq                  int          `db:"seq"`
	ResolutionMethod     string       `db:"resolution_method"`
	Result               *ResolutionResult
	ArgumentationSkipped bool       `db:"argumentation_skipped"`
	VotingSkipped        bool       `db:"voting_skipped"`
	CreatedAt            time.Time  `db:"created_at"`
	ResolvedAt           *time.Time `db:"resolved_at"`
}

// ResolutionResult is the outcome of a resolved action. Created once,
// immutable thereafter. Payload carries strategy-specific audit data (dice
// values, token pool composition, drawn sequence, seed).
type ResolutionResult struct {
	Type    ResultType     `db:"result_type"`
	Value   int            `db:"result_value"`
	Payload map[string]any `db:"result_payload"`
}

// Argument belongs to an action. IsStrong is arbiter-only and mutable only
// while the action is in ARBITER_REVIEW; it never applies to CLARIFICATION.
type Argument struct {
	ID        string       `db:"id"`
	ActionID  string       `db:"action_id"`
	AuthorID  string       `db:"author_id"`
	Type      ArgumentType `db:"type"`
	Content   string       `db:"content"`
	IsStrong  bool         `db:"is_strong"`
	Seq       int          `db:"seq"`
	CreatedAt time.Time    `db:"created_at"`
}

// Vote belongs to an action; at most one per player per action. WasSkipped
// marks votes synthesized by a host skip rather than cast by the player.
type Vote struct {
	ID         string    `db:"id"`
	ActionID   string    `db:"action_id"`
	VoterID    string    `db:"voter_id"`
	Type       VoteType  `db:"vote_type"`
	WasSkipped bool      `db:"was_skipped"`
	CreatedAt  time.Time `db:"created_at"`
}

// RoundSummary is the narrative closing a round, created exactly once.
type RoundSummary struct {
	ID        string    `db:"id"`
	RoundID   string    `db:"round_id"`
	AuthorID  string    `db:"author_id"`
	Content   string    `db:"content"`
	Stats     RoundStats
	CreatedAt time.Time `db:"created_at"`
}

// RoundStats aggregates the outcomes of a round for the summary.
type RoundStats struct {
	ResultCounts map[ResultType]int `json:"result_counts"`
	NetMomentum  int                `json:"net_momentum"`
	KeyEvents    []string           `json:"key_events"`
}

// GameEvent is an append-only audit log entry. ActorID is nil for
// system-triggered events such as timeout skips.
type GameEvent struct {
	ID        int64          `db:"id"`
	GameID    string         `db:"game_id"`
	ActorID   *string        `db:"actor_id"`
	Type      EventType      `db:"type"`
	Payload   map[string]any `db:"payload"`
	CreatedAt time.Time      `db:"created_at"`
}

// EventType categorizes audit log entries.
type EventType string

const (
	EventGameCreated       EventType = "game_created"
	EventPlayerJoined      EventType = "player_joined"
	EventGameStarted       EventType = "game_started"
	EventActionProposed    EventType = "action_proposed"
	EventArgumentAdded     EventType = "argument_added"
	EventArgumentationDone EventType = "argumentation_done"
	EventArgumentsSkipped  EventType = "argumentation_skipped"
	EventVoteSubmitted     EventType = "vote_submitted"
	EventVotingSkipped     EventType = "voting_skipped"
	EventArgumentStrong    EventType = "argument_strong_marked"
	EventActionResolved    EventType = "action_resolved"
	EventSummarySubmitted  EventType = "round_summary_submitted"
	EventRoundStarted      EventType = "round_started"
)

// ActingUnits counts the distinct acting units among active players.
// Players sharing a character act jointly and count once; players without a
// shared character count individually.
func ActingUnits(players []*Player) int {
	units := 0
	seen := make(map[string]bool)
	for _, p := range players {
		if !p.Active {
			continue
		}
		if p.CharacterID == nil || *p.CharacterID == "" {
			units++
			continue
		}
		if !seen[*p.CharacterID] {
			seen[*p.CharacterID] = true
			units++
		}
	}
	return units
}
