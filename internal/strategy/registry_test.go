package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storyforge/internal/apperr"
	"storyforge/internal/model"
)

// stubStrategy is a minimal Strategy for registry tests.
type stubStrategy struct {
	id string
}

func (s *stubStrategy) ID() string                                { return s.id }
func (s *stubStrategy) Name() string                              { return "Stub" }
func (s *stubStrategy) Description() string                       { return "stub strategy" }
func (s *stubStrategy) Kind() Kind                                { return KindVoting }
func (s *stubStrategy) PhaseAfterArgumentation() model.GamePhase  { return model.PhaseVoting }
func (s *stubStrategy) MaxArgumentsPerSide() int                  { return 0 }
func (s *stubStrategy) Resolve(input Input) (*Outcome, error)     { return &Outcome{}, nil }

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(&stubStrategy{id: "a"}))
	require.NoError(t, r.Register(&stubStrategy{id: "b"}))
	assert.Equal(t, 2, r.Count())
}

func TestRegistry_RegisterDuplicateFails(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(&stubStrategy{id: "a"}))
	err := r.Register(&stubStrategy{id: "a"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
	assert.Equal(t, 1, r.Count())
}

func TestRegistry_RegisterInvalid(t *testing.T) {
	r := NewRegistry()

	assert.Error(t, r.Register(nil))
	assert.Error(t, r.Register(&stubStrategy{id: ""}))
}

func TestRegistry_Get(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&stubStrategy{id: "a"}))

	s, err := r.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "a", s.ID())
}

func TestRegistry_GetUnknown(t *testing.T) {
	r := NewRegistry()

	_, err := r.Get("nope")
	require.Error(t, err)
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
	assert.Equal(t, apperr.CodeUnknownStrategy, apperr.CodeOf(err))
}

func TestRegistry_ListSorted(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&stubStrategy{id: "zeta"}))
	require.NoError(t, r.Register(&stubStrategy{id: "alpha"}))
	require.NoError(t, r.Register(&stubStrategy{id: "mid"}))

	list := r.List()
	require.Len(t, list, 3)
	assert.Equal(t, "alpha", list[0].ID())
	assert.Equal(t, "mid", list[1].ID())
	assert.Equal(t, "zeta", list[2].ID())
}
