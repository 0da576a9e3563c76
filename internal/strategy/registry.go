package strategy

import (
	"fmt"
	"sort"
	"sync"

	"storyforge/internal/apperr"
)

// Registry manages strategy registration and lookup. It is constructed once
// at process startup and injected into the orchestration; there is no
// package-level default instance, so initialization order stays explicit.
type Registry struct {
	strategies map[string]Strategy
	mu         sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		strategies: make(map[string]Strategy),
	}
}

// Register adds a strategy to the registry. Registering the same id twice is
// a startup-time invariant violation and returns an error the caller treats
// as fatal.
func (r *Registry) Register(s Strategy) error {
	if s == nil {
		return fmt.Errorf("cannot register nil strategy")
	}
	if s.ID() == "" {
		return fmt.Errorf("strategy id cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.strategies[s.ID()]; exists {
		return fmt.Errorf("strategy %q already registered", s.ID())
	}
	r.strategies[s.ID()] = s
	return nil
}

// Get retrieves a strategy by id. Unknown ids surface as a caller-facing
// bad request.
func (r *Registry) Get(id string) (Strategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.strategies[id]
	if !ok {
		return nil, apperr.Newf(apperr.KindBadRequest, apperr.CodeUnknownStrategy,
			"unknown resolution strategy %q", id)
	}
	return s, nil
}

// List returns all registered strategies sorted by id, for presenting
// available resolution methods.
func (r *Registry) List() []Strategy {
	r.mu.RLock()
	defer r.mu.RUnlock()

	strategies := make([]Strategy, 0, len(r.strategies))
	for _, s := range r.strategies {
		strategies = append(strategies, s)
	}
	sort.Slice(strategies, func(i, j int) bool {
		return strategies[i].ID() < strategies[j].ID()
	})
	return strategies
}

// Count returns the number of registered strategies.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.strategies)
}
