// Package phase implements the state machine governing game and action
// progression. Transitions are irreversible and idempotent-guarded: an
// attempt whose precondition already held fails with a wrong-phase error
// instead of double-applying.
package phase

import (
	"storyforge/internal/apperr"
	"storyforge/internal/model"
	"storyforge/internal/strategy"
)

// transitions is the legal game-phase transition table. The destination of
// ARGUING is data-driven via the configured strategy's
// PhaseAfterArgumentation, which is why ARGUING lists both candidates here.
var transitions = map[model.GamePhase][]model.GamePhase{
	model.PhaseProposal:      {model.PhaseArguing},
	model.PhaseProposed:      {model.PhaseArguing},
	model.PhaseArguing:       {model.PhaseVoting, model.PhaseArbiterReview},
	model.PhaseVoting:        {model.PhaseResolved},
	model.PhaseArbiterReview: {model.PhaseResolved},
	model.PhaseResolved:      {model.PhaseProposal, model.PhaseRoundSummary},
	model.PhaseRoundSummary:  {model.PhaseProposal},
}

// actionPhases maps action statuses to the game phase that mirrors them.
var actionPhases = map[model.ActionStatus]model.GamePhase{
	model.ActionProposed:      model.PhaseProposed,
	model.ActionArguing:       model.PhaseArguing,
	model.ActionVoting:        model.PhaseVoting,
	model.ActionArbiterReview: model.PhaseArbiterReview,
	model.ActionResolved:      model.PhaseResolved,
}

// CanTransition reports whether the game may move from one phase to another.
func CanTransition(from, to model.GamePhase) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition validates a phase change and returns the caller-facing error
// for illegal moves, including repeated application of a completed one.
func Transition(from, to model.GamePhase) error {
	if !CanTransition(from, to) {
		return apperr.Newf(apperr.KindBadRequest, apperr.CodeWrongPhase,
			"cannot move from %s to %s", from, to)
	}
	return nil
}

// ForActionStatus returns the game phase mirroring an action status.
func ForActionStatus(status model.ActionStatus) model.GamePhase {
	return actionPhases[status]
}

// ActionStatusForPhase returns the action status corresponding to a
// mirrored game phase, and false for the aggregate phases.
func ActionStatusForPhase(phase model.GamePhase) (model.ActionStatus, bool) {
	for status, p := range actionPhases {
		if p == phase {
			return status, true
		}
	}
	return "", false
}

// AfterArgumentation decides where an action goes when argumentation
// completes (explicitly or by host skip) under the given strategy. For
// arbiter-kind strategies the caller must have an arbiter among the active
// players; its absence is a recoverable, user-facing error, never a silent
// bypass.
func AfterArgumentation(s strategy.Strategy, hasArbiter bool) (model.GamePhase, error) {
	next := s.PhaseAfterArgumentation()
	if s.Kind() == strategy.KindArbiter && !hasArbiter {
		return "", apperr.New(apperr.KindBadRequest, apperr.CodeNoArbiter,
			"no arbiter assigned: an active player must hold the arbiter role")
	}
	if err := Transition(model.PhaseArguing, next); err != nil {
		return "", err
	}
	return next, nil
}

// RequireActionStatus guards an operation on its expected action status.
func RequireActionStatus(action *model.Action, want model.ActionStatus) error {
	if action.Status != want {
		return apperr.Newf(apperr.KindBadRequest, apperr.CodeWrongPhase,
			"action is %s, operation requires %s", action.Status, want)
	}
	return nil
}

// RequireGamePhase guards an operation on its expected game phase.
func RequireGamePhase(game *model.Game, want model.GamePhase) error {
	if game.CurrentPhase != want {
		return apperr.Newf(apperr.KindBadRequest, apperr.CodeWrongPhase,
			"game is in %s, operation requires %s", game.CurrentPhase, want)
	}
	return nil
}
