package service

import (
	"context"
	"sync"
	"time"

	"storyforge/internal/apperr"
	"storyforge/internal/model"
)

// memStore is an in-memory Store used by the service tests. Conditional
// updates behave like their SQL counterparts: a stale precondition fails
// with a wrong-phase error rather than overwriting.
type memStore struct {
	mu        sync.Mutex
	games     map[string]*model.Game
	players   map[string]*model.Player
	rounds    map[string]*model.Round
	actions   map[string]*model.Action
	arguments map[string]*model.Argument
	votes     map[string][]*model.Vote
	marks     map[string]map[string]bool
	summaries map[string]*model.RoundSummary
	events    []*model.GameEvent
}

func newMemStore() *memStore {
	return &memStore{
		games:     make(map[string]*model.Game),
		players:   make(map[string]*model.Player),
		rounds:    make(map[string]*model.Round),
		actions:   make(map[string]*model.Action),
		arguments: make(map[string]*model.Argument),
		votes:     make(map[string][]*model.Vote),
		marks:     make(map[string]map[string]bool),
		summaries: make(map[string]*model.RoundSummary),
	}
}

func (m *memStore) RunInTx(ctx context.Context, fn func(Store) error) error {
	return fn(m)
}

func (m *memStore) CreateGame(ctx context.Context, game *model.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *game
	m.games[game.ID] = &copied
	return nil
}

func (m *memStore) GetGame(ctx context.Context, id string) (*model.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	game, ok := m.games[id]
	if !ok {
		return nil, apperr.NotFound(apperr.CodeGameNotFound, "game not found")
	}
	copied := *game
	return &copied, nil
}

func (m *memStore) UpdateGameStatus(ctx context.Context, id string, from, to model.GameStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	game, ok := m.games[id]
	if !ok {
		return apperr.NotFound(apperr.CodeGameNotFound, "game not found")
	}
	if game.Status != from {
		return apperr.Newf(apperr.KindBadRequest, apperr.CodeWrongPhase,
			"game is %s, expected %s", game.Status, from)
	}
	game.Status = to
	game.UpdatedAt = time.Now()
	return nil
}

func (m *memStore) UpdateGamePhase(ctx context.Context, id string, from, to model.GamePhase, roundID, actionID *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	game, ok := m.games[id]
	if !ok {
		return apperr.NotFound(apperr.CodeGameNotFound, "game not found")
	}
	if game.CurrentPhase != from {
		return apperr.Newf(apperr.KindBadRequest, apperr.CodeWrongPhase,
			"game phase is %s, expected %s", game.CurrentPhase, from)
	}
	game.CurrentPhase = to
	game.CurrentRoundID = roundID
	game.CurrentActionID = actionID
	game.UpdatedAt = time.Now()
	return nil
}

func (m *memStore) AddMomentum(ctx context.Context, id string, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	game, ok := m.games[id]
	if !ok {
		return apperr.NotFound(apperr.CodeGameNotFound, "game not found")
	}
	game.Momentum += delta
	return nil
}

func (m *memStore) AddPlayer(ctx context.Context, player *model.Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.players {
		if p.GameID == player.GameID && p.UserID == player.UserID {
			return apperr.New(apperr.KindBadRequest, apperr.CodeAlreadySubmitted,
				"user already joined this game")
		}
	}
	copied := *player
	m.players[player.ID] = &copied
	return nil
}

func (m *memStore) GetPlayerByUser(ctx context.Context, gameID, userID string) (*model.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.players {
		if p.GameID == gameID && p.UserID == userID {
			copied := *p
			return &copied, nil
		}
	}
	return nil, apperr.Forbidden(apperr.CodeNotParticipant, "user is not a participant")
}

func (m *memStore) ListPlayers(ctx context.Context, gameID string) ([]*model.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var players []*model.Player
	for _, p := range m.players {
		if p.GameID == gameID {
			copied := *p
			players = append(players, &copied)
		}
	}
	return players, nil
}

func (m *memStore) CreateRound(ctx context.Context, round *model.Round) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *round
	m.rounds[round.ID] = &copied
	return nil
}

func (m *memStore) GetRound(ctx context.Context, id string) (*model.Round, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	round, ok := m.rounds[id]
	if !ok {
		return nil, apperr.NotFound(apperr.CodeRoundNotFound, "round not found")
	}
	copied := *round
	return &copied, nil
}

func (m *memStore) IncrementActionsCompleted(ctx context.Context, id string) (*model.Round, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	round, ok := m.rounds[id]
	if !ok {
		return nil, apperr.NotFound(apperr.CodeRoundNotFound, "round not found")
	}
	round.ActionsCompleted++
	round.UpdatedAt = time.Now()
	copied := *round
	return &copied, nil
}

func (m *memStore) CompleteRound(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	round, ok := m.rounds[id]
	if !ok {
		return apperr.NotFound(apperr.CodeRoundNotFound, "round not found")
	}
	if round.Status != model.RoundInProgress {
		return apperr.Newf(apperr.KindBadRequest, apperr.CodeWrongPhase,
			"round is %s", round.Status)
	}
	round.Status = model.RoundCompleted
	return nil
}

func (m *memStore) CreateSummary(ctx context.Context, summary *model.RoundSummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.summaries[summary.RoundID]; exists {
		return apperr.New(apperr.KindBadRequest, apperr.CodeSummaryExists,
			"round already has a summary")
	}
	copied := *summary
	m.summaries[summary.RoundID] = &copied
	return nil
}

func (m *memStore) CreateAction(ctx context.Context, action *model.Action) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *action
	m.actions[action.ID] = &copied
	return nil
}

func (m *memStore) GetAction(ctx context.Context, id string) (*model.Action, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	action, ok := m.actions[id]
	if !ok {
		return nil, apperr.NotFound(apperr.CodeActionNotFound, "action not found")
	}
	copied := *action
	return &copied, nil
}

func (m *memStore) ListActions(ctx context.Context, roundID string) ([]*model.Action, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var actions []*model.Action
	for _, a := range m.actions {
		if a.RoundID == roundID {
			copied := *a
			actions = append(actions, &copied)
		}
	}
	return actions, nil
}

func (m *memStore) UpdateActionStatus(ctx context.Context, id string, from, to model.ActionStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	action, ok := m.actions[id]
	if !ok {
		return apperr.NotFound(apperr.CodeActionNotFound, "action not found")
	}
	if action.Status != from {
		return apperr.Newf(apperr.KindBadRequest, apperr.CodeWrongPhase,
			"action is %s, expected %s", action.Status, from)
	}
	action.Status = to
	return nil
}

func (m *memStore) SetArgumentationSkipped(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	action, ok := m.actions[id]
	if !ok {
		return apperr.NotFound(apperr.CodeActionNotFound, "action not found")
	}
	action.ArgumentationSkipped = true
	return nil
}

func (m *memStore) SetVotingSkipped(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	action, ok := m.actions[id]
	if !ok {
		return apperr.NotFound(apperr.CodeActionNotFound, "action not found")
	}
	action.VotingSkipped = true
	return nil
}

func (m *memStore) ResolveAction(ctx context.Context, id string, from model.ActionStatus, method string, result *model.ResolutionResult, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	action, ok := m.actions[id]
	if !ok {
		return apperr.NotFound(apperr.CodeActionNotFound, "action not found")
	}
	if action.Status != from {
		return apperr.Newf(apperr.KindBadRequest, apperr.CodeWrongPhase,
			"action is %s, expected %s", action.Status, from)
	}
	action.Status = model.ActionResolved
	action.ResolutionMethod = method
	action.Result = result
	action.ResolvedAt = &at
	return nil
}

func (m *memStore) ListExpiredActions(ctx context.Context, now time.Time) ([]*model.Action, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var expired []*model.Action
	for _, a := range m.actions {
		if a.Status != model.ActionArguing && a.Status != model.ActionVoting {
			continue
		}
		game, ok := m.games[a.GameID]
		if !ok || game.Settings.TimeoutHours <= 0 {
			continue
		}
		deadline := a.CreatedAt.Add(time.Duration(game.Settings.TimeoutHours) * time.Hour)
		if !now.Before(deadline) {
			copied := *a
			expired = append(expired, &copied)
		}
	}
	return expired, nil
}

func (m *memStore) AddArgument(ctx context.Context, argument *model.Argument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *argument
	m.arguments[argument.ID] = &copied
	return nil
}

func (m *memStore) GetArgument(ctx context.Context, id string) (*model.Argument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	argument, ok := m.arguments[id]
	if !ok {
		return nil, apperr.NotFound(apperr.CodeArgumentNotFound, "argument not found")
	}
	copied := *argument
	return &copied, nil
}

func (m *memStore) ListArguments(ctx context.Context, actionID string) ([]*model.Argument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var args []*model.Argument
	for _, a := range m.arguments {
		if a.ActionID == actionID {
			copied := *a
			args = append(args, &copied)
		}
	}
	return args, nil
}

func (m *memStore) SetArgumentStrong(ctx context.Context, id string, strong bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	argument, ok := m.arguments[id]
	if !ok {
		return apperr.NotFound(apperr.CodeArgumentNotFound, "argument not found")
	}
	argument.IsStrong = strong
	return nil
}

func (m *memStore) AddVote(ctx context.Context, vote *model.Vote) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.votes[vote.ActionID] {
		if v.VoterID == vote.VoterID {
			return apperr.New(apperr.KindBadRequest, apperr.CodeAlreadyVoted,
				"player already voted on this action")
		}
	}
	copied := *vote
	m.votes[vote.ActionID] = append(m.votes[vote.ActionID], &copied)
	return nil
}

func (m *memStore) ListVotes(ctx context.Context, actionID string) ([]*model.Vote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	votes := make([]*model.Vote, 0, len(m.votes[actionID]))
	for _, v := range m.votes[actionID] {
		copied := *v
		votes = append(votes, &copied)
	}
	return votes, nil
}

func (m *memStore) AddCompletionMark(ctx context.Context, actionID, playerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.marks[actionID] == nil {
		m.marks[actionID] = make(map[string]bool)
	}
	if m.marks[actionID][playerID] {
		return apperr.New(apperr.KindBadRequest, apperr.CodeAlreadySubmitted,
			"player already marked argumentation complete")
	}
	m.marks[actionID][playerID] = true
	return nil
}

func (m *memStore) ListCompletionMarks(ctx context.Context, actionID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for playerID := range m.marks[actionID] {
		ids = append(ids, playerID)
	}
	return ids, nil
}

func (m *memStore) AppendEvent(ctx context.Context, gameID string, actorID *string, eventType model.EventType, payload map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, &model.GameEvent{
		ID:        int64(len(m.events) + 1),
		GameID:    gameID,
		ActorID:   actorID,
		Type:      eventType,
		Payload:   payload,
		CreatedAt: time.Now(),
	})
	return nil
}

// eventCount tallies audit entries of one type for assertions.
func (m *memStore) eventCount(eventType model.EventType) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, e := range m.events {
		if e.Type == eventType {
			count++
		}
	}
	return count
}
