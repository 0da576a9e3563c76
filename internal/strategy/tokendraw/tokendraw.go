// Package tokendraw implements the token-draw resolution strategy: a
// weighted draw from a pool of success/failure tokens shaped by player
// votes.
package tokendraw

import (
	"fmt"

	"storyforge/internal/model"
	"storyforge/internal/pkg/random"
	"storyforge/internal/strategy"
)

const (
	// StrategyID is the identifier stored in game settings.
	StrategyID = "token_draw"

	// BaseTokensPerSide seeds the pool with one success and one failure
	// token so the draw is non-degenerate even with zero votes.
	BaseTokensPerSide = 1

	// DrawCount is the number of tokens drawn from the shuffled pool.
	DrawCount = 3
)

// Token markers in the draw sequence.
const (
	tokenSuccess = "success"
	tokenFailure = "failure"
)

// TokenDraw implements strategy.Strategy.
type TokenDraw struct {
	src random.Source
}

// New creates the token-draw strategy backed by the given randomness source.
func New(src random.Source) *TokenDraw {
	return &TokenDraw{src: src}
}

// ID returns the strategy identifier.
func (t *TokenDraw) ID() string {
	return StrategyID
}

// Name returns the display name.
func (t *TokenDraw) Name() string {
	return "Token Draw"
}

// Description returns a brief description for host-facing listings.
func (t *TokenDraw) Description() string {
	return "Votes weight a pool of success and failure tokens; three are drawn to decide the outcome."
}

// Kind reports that this strategy resolves from votes.
func (t *TokenDraw) Kind() strategy.Kind {
	return strategy.KindVoting
}

// PhaseAfterArgumentation routes the action into VOTING once argumentation
// completes.
func (t *TokenDraw) PhaseAfterArgumentation() model.GamePhase {
	return model.PhaseVoting
}

// MaxArgumentsPerSide returns 0: token draw does not cap arguments.
func (t *TokenDraw) MaxArgumentsPerSide() int {
	return 0
}

// Pool returns the success/failure token totals for a vote set: the base
// tokens plus each vote's contribution.
func Pool(votes []model.VoteType) (success, failure int) {
	success, failure = BaseTokensPerSide, BaseTokensPerSide
	for _, v := range votes {
		s, f := v.TokenContribution()
		success += s
		failure += f
	}
	return success, failure
}

// Resolve builds the token pool from the votes, shuffles it and draws
// DrawCount tokens. Drawn-success count maps to the result:
// 3 TRIUMPH, 2 SUCCESS_BUT, 1 FAILURE_BUT, 0 DISASTER; the value is
// drawnSuccess*2-3 so it is always odd and never zero.
func (t *TokenDraw) Resolve(input strategy.Input) (*strategy.Outcome, error) {
	totalSuccess, totalFailure := Pool(input.Votes)

	pool := make([]string, 0, totalSuccess+totalFailure)
	for i := 0; i < totalSuccess; i++ {
		pool = append(pool, tokenSuccess)
	}
	for i := 0; i < totalFailure; i++ {
		pool = append(pool, tokenFailure)
	}

	if len(pool) < DrawCount {
		return nil, fmt.Errorf("token pool has %d tokens, need at least %d", len(pool), DrawCount)
	}

	if err := random.Shuffle(t.src, len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	}); err != nil {
		return nil, fmt.Errorf("failed to shuffle token pool: %w", err)
	}

	drawn := pool[:DrawCount]
	drawnSuccess := 0
	for _, token := range drawn {
		if token == tokenSuccess {
			drawnSuccess++
		}
	}

	resultType, value := mapDraw(drawnSuccess)

	// Audit marker only; the draw above never consumes it.
	seed, err := random.Seed()
	if err != nil {
		return nil, fmt.Errorf("failed to generate audit seed: %w", err)
	}

	sequence := make([]map[string]any, 0, DrawCount)
	for i, token := range drawn {
		sequence = append(sequence, map[string]any{"order": i + 1, "token": token})
	}

	return &strategy.Outcome{
		Type:        resultType,
		Value:       value,
		Description: describe(resultType, drawnSuccess),
		Payload: map[string]any{
			"seed":           seed,
			"total_success":  totalSuccess,
			"total_failure":  totalFailure,
			"drawn_sequence": sequence,
			"drawn_success":  drawnSuccess,
			"drawn_failure":  DrawCount - drawnSuccess,
		},
	}, nil
}

// mapDraw maps the drawn-success count to a result type and signed value.
func mapDraw(drawnSuccess int) (model.ResultType, int) {
	value := drawnSuccess*2 - DrawCount
	switch drawnSuccess {
	case 3:
		return model.ResultTriumph, value
	case 2:
		return model.ResultSuccessBut, value
	case 1:
		return model.ResultFailureBut, value
	default:
		return model.ResultDisaster, value
	}
}

func describe(resultType model.ResultType, drawnSuccess int) string {
	switch resultType {
	case model.ResultTriumph:
		return "Triumph! All three tokens came up success."
	case model.ResultSuccessBut:
		return fmt.Sprintf("Success, but at a cost (%d of 3 tokens were successes).", drawnSuccess)
	case model.ResultFailureBut:
		return fmt.Sprintf("Failure, with a silver lining (%d of 3 tokens were successes).", drawnSuccess)
	default:
		return "Disaster! Not a single success token was drawn."
	}
}
