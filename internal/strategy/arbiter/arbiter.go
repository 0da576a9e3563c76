// Package arbiter implements the arbiter resolution strategy: a single
// arbiter's narrative judgment weighted by argument quality instead of a
// vote pool.
package arbiter

import (
	"fmt"

	"storyforge/internal/model"
	"storyforge/internal/pkg/random"
	"storyforge/internal/strategy"
)

const (
	// StrategyID is the identifier stored in game settings.
	StrategyID = "arbiter"

	// SuccessThreshold: a modified roll strictly above this value succeeds.
	// Exactly 7 is a failure.
	SuccessThreshold = 7

	// MaxArgumentsPerSide caps each side's arguments so spam cannot dilute
	// the arbiter's judgment.
	MaxArgumentsPerSide = 3
)

// Arbiter implements strategy.Strategy.
type Arbiter struct {
	src random.Source
}

// New creates the arbiter strategy backed by the given randomness source.
func New(src random.Source) *Arbiter {
	return &Arbiter{src: src}
}

// ID returns the strategy identifier.
func (a *Arbiter) ID() string {
	return StrategyID
}

// Name returns the display name.
func (a *Arbiter) Name() string {
	return "Arbiter Judgment"
}

// Description returns a brief description for host-facing listings.
func (a *Arbiter) Description() string {
	return "An arbiter weighs strong arguments on each side against a two-dice roll."
}

// Kind reports that this strategy resolves from arbiter judgment.
func (a *Arbiter) Kind() strategy.Kind {
	return strategy.KindArbiter
}

// PhaseAfterArgumentation routes the action into ARBITER_REVIEW once
// argumentation completes.
func (a *Arbiter) PhaseAfterArgumentation() model.GamePhase {
	return model.PhaseArbiterReview
}

// MaxArgumentsPerSide returns the per-side cap of 3.
func (a *Arbiter) MaxArgumentsPerSide() int {
	return MaxArgumentsPerSide
}

// Resolve rolls two dice and shifts the sum by the strong-argument counts:
// modified = die1 + die2 + strongPro - strongAnti. Strictly above 7 is
// SUCCESS_BUT (+1), otherwise FAILURE_BUT (-1). Judgment-driven resolution
// never produces TRIUMPH or DISASTER.
func (a *Arbiter) Resolve(input strategy.Input) (*strategy.Outcome, error) {
	die1, err := random.D6(a.src)
	if err != nil {
		return nil, fmt.Errorf("failed to roll first die: %w", err)
	}
	die2, err := random.D6(a.src)
	if err != nil {
		return nil, fmt.Errorf("failed to roll second die: %w", err)
	}

	base := die1 + die2
	modified := base + input.StrongPro - input.StrongAnti

	resultType := model.ResultFailureBut
	value := -1
	if modified > SuccessThreshold {
		resultType = model.ResultSuccessBut
		value = 1
	}

	return &strategy.Outcome{
		Type:        resultType,
		Value:       value,
		Description: describe(resultType, die1, die2, modified),
		Payload: map[string]any{
			"die1":        die1,
			"die2":        die2,
			"base":        base,
			"modified":    modified,
			"strong_pro":  input.StrongPro,
			"strong_anti": input.StrongAnti,
		},
	}, nil
}

func describe(resultType model.ResultType, die1, die2, modified int) string {
	roll := fmt.Sprintf("rolled %d + %d, modified to %d", die1, die2, modified)
	if resultType == model.ResultSuccessBut {
		return fmt.Sprintf("Success, but at a cost (%s).", roll)
	}
	return fmt.Sprintf("Failure, with a silver lining (%s).", roll)
}
