package tokendraw

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"storyforge/internal/model"
	"storyforge/internal/pkg/random"
	"storyforge/internal/strategy"
)

func TestTokenDraw_Metadata(t *testing.T) {
	td := New(random.NewCryptoSource())

	assert.Equal(t, "token_draw", td.ID())
	assert.Equal(t, strategy.KindVoting, td.Kind())
	assert.Equal(t, model.PhaseVoting, td.PhaseAfterArgumentation())
	assert.Equal(t, 0, td.MaxArgumentsPerSide())
	assert.NotEmpty(t, td.Name())
	assert.NotEmpty(t, td.Description())
}

// TestPool verifies pool accounting: base 1/1 plus each vote's contribution.
func TestPool(t *testing.T) {
	tests := []struct {
		name        string
		votes       []model.VoteType
		wantSuccess int
		wantFailure int
	}{
		{"no votes", nil, 1, 1},
		{"single success vote", []model.VoteType{model.VoteLikelySuccess}, 3, 1},
		{"single failure vote", []model.VoteType{model.VoteLikelyFailure}, 1, 3},
		{"single uncertain vote", []model.VoteType{model.VoteUncertain}, 2, 2},
		{
			"mixed votes",
			[]model.VoteType{model.VoteLikelySuccess, model.VoteLikelyFailure, model.VoteUncertain},
			4, 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			success, failure := Pool(tt.votes)
			assert.Equal(t, tt.wantSuccess, success)
			assert.Equal(t, tt.wantFailure, failure)
		})
	}
}

// scriptedSource returns predetermined values for deterministic draws.
type scriptedSource struct {
	values []int
	pos    int
}

func (s *scriptedSource) Int(min, max int) (int, error) {
	if s.pos >= len(s.values) {
		return min, nil
	}
	v := s.values[s.pos]
	s.pos++
	if v < min {
		v = min
	}
	if v > max {
		v = max
	}
	return v, nil
}

// TestResolve_Conservation checks that every draw accounts for exactly
// three tokens and that type, value and drawn-success count stay in step.
func TestResolve_Conservation(t *testing.T) {
	td := New(random.NewCryptoSource())

	// A voteless pool holds only the two base tokens, fewer than a draw
	// needs.
	_, err := td.Resolve(strategy.Input{})
	require.Error(t, err)

	rapid.Check(t, func(t *rapid.T) {
		voteCount := rapid.IntRange(1, 12).Draw(t, "voteCount")
		votes := make([]model.VoteType, voteCount)
		choices := []model.VoteType{model.VoteLikelySuccess, model.VoteLikelyFailure, model.VoteUncertain}
		for i := range votes {
			votes[i] = choices[rapid.IntRange(0, 2).Draw(t, "vote")]
		}

		outcome, err := td.Resolve(strategy.Input{Votes: votes})
		if err != nil {
			t.Fatalf("resolve failed: %v", err)
		}

		drawnSuccess := outcome.Payload["drawn_success"].(int)
		drawnFailure := outcome.Payload["drawn_failure"].(int)

		if drawnSuccess+drawnFailure != 3 {
			t.Fatalf("draw must account for exactly 3 tokens, got %d+%d", drawnSuccess, drawnFailure)
		}
		if outcome.Value != drawnSuccess*2-3 {
			t.Fatalf("value %d does not match drawnSuccess %d", outcome.Value, drawnSuccess)
		}

		wantType := map[int]model.ResultType{
			3: model.ResultTriumph,
			2: model.ResultSuccessBut,
			1: model.ResultFailureBut,
			0: model.ResultDisaster,
		}[drawnSuccess]
		if outcome.Type != wantType {
			t.Fatalf("drawnSuccess %d should map to %s, got %s", drawnSuccess, wantType, outcome.Type)
		}

		// Value is always odd and never zero by construction.
		if outcome.Value%2 == 0 {
			t.Fatalf("value must be odd, got %d", outcome.Value)
		}
	})
}

func TestResolve_DeterministicDraws(t *testing.T) {
	// With no votes the pool is [success, failure]. A scripted shuffle that
	// performs no swaps leaves the success token first.
	tests := []struct {
		name        string
		script      []int
		wantType    model.ResultType
		wantValue   int
		wantSuccess int
	}{
		// Pool of 2 tokens padded by base only covers draws when votes
		// exist; use one UNCERTAIN vote for a 4-token pool.
		{
			name: "identity shuffle draws success-success-failure",
			// Fisher-Yates over 4 elements: j values equal to i keep order.
			script:      []int{3, 2, 1},
			wantType:    model.ResultSuccessBut,
			wantValue:   1,
			wantSuccess: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			td := New(&scriptedSource{values: tt.script})
			outcome, err := td.Resolve(strategy.Input{Votes: []model.VoteType{model.VoteUncertain}})
			require.NoError(t, err)

			assert.Equal(t, tt.wantType, outcome.Type)
			assert.Equal(t, tt.wantValue, outcome.Value)
			assert.Equal(t, tt.wantSuccess, outcome.Payload["drawn_success"])
		})
	}
}

func TestResolve_PayloadAudit(t *testing.T) {
	td := New(random.NewCryptoSource())

	outcome, err := td.Resolve(strategy.Input{Votes: []model.VoteType{
		model.VoteLikelySuccess, model.VoteLikelyFailure, model.VoteUncertain,
	}})
	require.NoError(t, err)

	assert.Equal(t, 4, outcome.Payload["total_success"])
	assert.Equal(t, 4, outcome.Payload["total_failure"])
	assert.NotEmpty(t, outcome.Payload["seed"])

	sequence := outcome.Payload["drawn_sequence"].([]map[string]any)
	require.Len(t, sequence, 3)
	for i, entry := range sequence {
		assert.Equal(t, i+1, entry["order"])
		assert.Contains(t, []any{"success", "failure"}, entry["token"])
	}
}
