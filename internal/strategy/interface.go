// Package strategy defines the resolution strategy contract and registry.
// A strategy converts player input (votes or arbiter judgment) into a game
// outcome via controlled randomness; new strategies plug in by implementing
// the Strategy interface and registering at startup.
package strategy

import (
	"storyforge/internal/model"
)

// Kind discriminates how a strategy gathers its input.
type Kind string

const (
	// KindVoting strategies resolve from player votes after argumentation.
	KindVoting Kind = "voting"

	// KindArbiter strategies resolve from a single arbiter's judgment of
	// argument quality.
	KindArbiter Kind = "arbiter"
)

// Input carries everything a strategy may consult. Voting strategies read
// Votes; arbiter strategies read the strong-argument counts. Preconditions
// are enforced by the orchestration before Resolve is called, so strategies
// stay pure apart from consuming randomness.
type Input struct {
	Votes      []model.VoteType
	StrongPro  int
	StrongAnti int
}

// Outcome is the result of a resolution plus audit data for display.
type Outcome struct {
	Type        model.ResultType
	Value       int
	Description string
	Payload     map[string]any
}

// Result converts the outcome into the immutable value object embedded in
// an action.
func (o *Outcome) Result() *model.ResolutionResult {
	return &model.ResolutionResult{
		Type:    o.Type,
		Value:   o.Value,
		Payload: o.Payload,
	}
}

// Strategy is the contract all resolution strategies implement.
type Strategy interface {
	// ID returns the stable identifier stored in game settings.
	ID() string

	// Name returns the strategy's display name.
	Name() string

	// Description returns a brief description for host-facing listings.
	Description() string

	// Kind reports whether the strategy is voting- or arbiter-driven.
	Kind() Kind

	// PhaseAfterArgumentation is the phase the state machine routes the
	// action into when argumentation completes under this strategy. This
	// indirection keeps the state machine free of per-strategy branching.
	PhaseAfterArgumentation() model.GamePhase

	// MaxArgumentsPerSide returns the per-side argument cap during the
	// ARGUING phase. Zero means uncapped.
	MaxArgumentsPerSide() int

	// Resolve computes the outcome for the gathered input.
	Resolve(input Input) (*Outcome, error)
}
