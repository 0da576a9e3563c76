package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"storyforge/internal/apperr"
	"storyforge/internal/model"
	"storyforge/internal/notify"
	"storyforge/internal/phase"
	"storyforge/internal/pkg/lock"
	"storyforge/internal/strategy"
)

// ActionService orchestrates the life of an action: proposal, argumentation,
// voting or arbiter review, and resolution.
type ActionService struct {
	store    Store
	registry *strategy.Registry
	notifier *notify.Dispatcher
	locks    *lock.KeyedLock
}

// NewActionService creates a new ActionService instance.
func NewActionService(store Store, registry *strategy.Registry, notifier *notify.Dispatcher) *ActionService {
	return &ActionService{
		store:    store,
		registry: registry,
		notifier: notifier,
		locks:    lock.New(),
	}
}

// ProposeAction creates a new action during PROPOSAL. The action enters
// ARGUING immediately; the initiator's opening argument seeds the thread.
func (s *ActionService) ProposeAction(ctx context.Context, userID, gameID, description, desiredOutcome, openingArgument string) (*model.Action, error) {
	if description == "" {
		return nil, apperr.BadRequest(apperr.CodeInvalidArgument, "action description cannot be empty")
	}

	game, player, err := s.activeParticipant(ctx, gameID, userID)
	if err != nil {
		return nil, err
	}
	if err := phase.RequireGamePhase(game, model.PhaseProposal); err != nil {
		return nil, err
	}
	if game.CurrentRoundID == nil {
		return nil, apperr.NotFound(apperr.CodeRoundNotFound, "game has no open round")
	}

	existing, err := s.store.ListActions(ctx, *game.CurrentRoundID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	action := &model.Action{
		ID:             uuid.NewString(),
		RoundID:        *game.CurrentRoundID,
		GameID:         gameID,
		InitiatorID:    player.ID,
		Description:    description,
		DesiredOutcome: desiredOutcome,
		Status:         model.ActionArguing,
		Seq:            len(existing) + 1,
		CreatedAt:      now,
	}

	err = s.store.RunInTx(ctx, func(tx Store) error {
		if err := tx.CreateAction(ctx, action); err != nil {
			return err
		}
		if openingArgument != "" {
			arg := &model.Argument{
				ID:        uuid.NewString(),
				ActionID:  action.ID,
				AuthorID:  player.ID,
				Type:      model.ArgumentInitiatorFor,
				Content:   openingArgument,
				Seq:       1,
				CreatedAt: now,
			}
			if err := tx.AddArgument(ctx, arg); err != nil {
				return err
			}
		}
		if err := tx.UpdateGamePhase(ctx, gameID, model.PhaseProposal, model.PhaseArguing, game.CurrentRoundID, &action.ID); err != nil {
			return err
		}
		return tx.AppendEvent(ctx, gameID, &userID, model.EventActionProposed, map[string]any{
			"action_id": action.ID,
			"seq":       action.Seq,
		})
	})
	if err != nil {
		return nil, err
	}

	s.notifyGame(ctx, game, model.EventActionProposed, map[string]any{"action_id": action.ID})
	return action, nil
}

// AddArgument appends an argument to an action's thread during ARGUING,
// subject to the active strategy's per-side cap.
func (s *ActionService) AddArgument(ctx context.Context, userID, actionID string, argType model.ArgumentType, content string) (*model.Argument, error) {
	if content == "" {
		return nil, apperr.BadRequest(apperr.CodeInvalidArgument, "argument content cannot be empty")
	}
	switch argType {
	case model.ArgumentFor, model.ArgumentAgainst, model.ArgumentClarify, model.ArgumentInitiatorFor:
	default:
		return nil, apperr.Newf(apperr.KindBadRequest, apperr.CodeInvalidArgument,
			"unknown argument type %q", argType)
	}

	action, err := s.store.GetAction(ctx, actionID)
	if err != nil {
		return nil, err
	}
	game, player, err := s.activeParticipant(ctx, action.GameID, userID)
	if err != nil {
		return nil, err
	}
	if err := phase.RequireActionStatus(action, model.ActionArguing); err != nil {
		return nil, err
	}
	if argType == model.ArgumentInitiatorFor && player.ID != action.InitiatorID {
		return nil, apperr.Forbidden(apperr.CodeNotParticipant, "only the initiator may post an initiator argument")
	}

	strat, err := s.registry.Get(game.Settings.ResolutionStrategy)
	if err != nil {
		return nil, err
	}

	args, err := s.store.ListArguments(ctx, actionID)
	if err != nil {
		return nil, err
	}
	// Hosts may tighten or loosen the strategy's own per-side cap.
	limit := strat.MaxArgumentsPerSide()
	if game.Settings.MaxArguments > 0 {
		limit = game.Settings.MaxArguments
	}
	if limit > 0 && argType != model.ArgumentClarify {
		if sideCount(args, argType.IsPro()) >= limit {
			return nil, apperr.Newf(apperr.KindBadRequest, apperr.CodeArgumentLimit,
				"side already has the maximum of %d arguments", limit)
		}
	}

	argument := &model.Argument{
		ID:        uuid.NewString(),
		ActionID:  actionID,
		AuthorID:  player.ID,
		Type:      argType,
		Content:   content,
		Seq:       len(args) + 1,
		CreatedAt: time.Now(),
	}

	err = s.store.RunInTx(ctx, func(tx Store) error {
		if err := tx.AddArgument(ctx, argument); err != nil {
			return err
		}
		return tx.AppendEvent(ctx, action.GameID, &userID, model.EventArgumentAdded, map[string]any{
			"action_id":   actionID,
			"argument_id": argument.ID,
			"type":        string(argType),
		})
	})
	if err != nil {
		return nil, err
	}

	return argument, nil
}

// MarkArgumentationComplete records the caller's "done arguing" mark. When
// every acting unit has marked, the action advances to the phase the active
// strategy declares.
func (s *ActionService) MarkArgumentationComplete(ctx context.Context, userID, actionID string) (*model.Action, error) {
	action, err := s.store.GetAction(ctx, actionID)
	if err != nil {
		return nil, err
	}
	game, player, err := s.activeParticipant(ctx, action.GameID, userID)
	if err != nil {
		return nil, err
	}
	if err := phase.RequireActionStatus(action, model.ActionArguing); err != nil {
		return nil, err
	}

	if err := s.store.AddCompletionMark(ctx, actionID, player.ID); err != nil {
		return nil, err
	}
	if err := s.store.AppendEvent(ctx, game.ID, &userID, model.EventArgumentationDone, map[string]any{
		"action_id": actionID,
	}); err != nil {
		return nil, err
	}

	done, err := s.allUnitsMarked(ctx, game.ID, actionID)
	if err != nil {
		return nil, err
	}
	if !done {
		return s.store.GetAction(ctx, actionID)
	}

	return s.advanceFromArguing(ctx, game, action, &userID, false)
}

// SkipArgumentation short-circuits argumentation. Host only; the timeout
// sweep calls the same path with a nil actor.
func (s *ActionService) SkipArgumentation(ctx context.Context, userID, actionID string) (*model.Action, error) {
	action, err := s.store.GetAction(ctx, actionID)
	if err != nil {
		return nil, err
	}
	game, err := s.store.GetGame(ctx, action.GameID)
	if err != nil {
		return nil, err
	}
	if err := s.requireHost(ctx, game.ID, userID); err != nil {
		return nil, err
	}
	if err := phase.RequireActionStatus(action, model.ActionArguing); err != nil {
		return nil, err
	}

	return s.advanceFromArguing(ctx, game, action, &userID, true)
}

// advanceFromArguing routes ARGUING into the strategy's declared next phase.
// The conditional status update is the atomic guard: two concurrent
// completions produce exactly one transition and one wrong-phase error.
func (s *ActionService) advanceFromArguing(ctx context.Context, game *model.Game, action *model.Action, actorID *string, skipped bool) (*model.Action, error) {
	strat, err := s.registry.Get(game.Settings.ResolutionStrategy)
	if err != nil {
		return nil, err
	}

	players, err := s.store.ListPlayers(ctx, game.ID)
	if err != nil {
		return nil, err
	}
	next, err := phase.AfterArgumentation(strat, hasArbiter(players))
	if err != nil {
		return nil, err
	}
	nextStatus, ok := phase.ActionStatusForPhase(next)
	if !ok {
		return nil, apperr.Internal(errors.New("strategy routed argumentation to a non-action phase"))
	}

	eventType := model.EventArgumentationDone
	if skipped {
		eventType = model.EventArgumentsSkipped
	}

	err = s.store.RunInTx(ctx, func(tx Store) error {
		if err := tx.UpdateActionStatus(ctx, action.ID, model.ActionArguing, nextStatus); err != nil {
			return err
		}
		if skipped {
			if err := tx.SetArgumentationSkipped(ctx, action.ID); err != nil {
				return err
			}
		}
		if err := tx.UpdateGamePhase(ctx, game.ID, model.PhaseArguing, next, game.CurrentRoundID, &action.ID); err != nil {
			return err
		}
		return tx.AppendEvent(ctx, game.ID, actorID, eventType, map[string]any{
			"action_id":  action.ID,
			"next_phase": string(next),
			"skipped":    skipped,
		})
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("game_id", game.ID).
		Str("action_id", action.ID).
		Str("next_phase", string(next)).
		Bool("skipped", skipped).
		Msg("Argumentation complete")

	s.notifyGame(ctx, game, eventType, map[string]any{
		"action_id":  action.ID,
		"next_phase": string(next),
	})

	return s.store.GetAction(ctx, action.ID)
}

// SubmitVote records a player's vote during VOTING. When the last active
// player votes, the action resolves via the token-draw pool.
func (s *ActionService) SubmitVote(ctx context.Context, userID, actionID string, voteType model.VoteType) (*model.Action, error) {
	switch voteType {
	case model.VoteLikelySuccess, model.VoteLikelyFailure, model.VoteUncertain:
	default:
		return nil, apperr.Newf(apperr.KindBadRequest, apperr.CodeInvalidArgument,
			"unknown vote type %q", voteType)
	}

	action, err := s.store.GetAction(ctx, actionID)
	if err != nil {
		return nil, err
	}
	game, player, err := s.activeParticipant(ctx, action.GameID, userID)
	if err != nil {
		return nil, err
	}
	if err := phase.RequireActionStatus(action, model.ActionVoting); err != nil {
		return nil, err
	}

	vote := &model.Vote{
		ID:        uuid.NewString(),
		ActionID:  actionID,
		VoterID:   player.ID,
		Type:      voteType,
		CreatedAt: time.Now(),
	}
	if err := s.store.AddVote(ctx, vote); err != nil {
		return nil, err
	}
	if err := s.store.AppendEvent(ctx, game.ID, &userID, model.EventVoteSubmitted, map[string]any{
		"action_id": actionID,
		"vote":      string(voteType),
	}); err != nil {
		return nil, err
	}

	votes, err := s.store.ListVotes(ctx, actionID)
	if err != nil {
		return nil, err
	}
	players, err := s.store.ListPlayers(ctx, game.ID)
	if err != nil {
		return nil, err
	}
	if len(votes) < len(activePlayers(players)) {
		return s.store.GetAction(ctx, actionID)
	}

	return s.resolve(ctx, game, action, model.ActionVoting, &userID, strategy.Input{Votes: voteTypes(votes)})
}

// SkipVoting resolves a VOTING action early. Every active player without a
// vote gets an UNCERTAIN vote flagged was-skipped, pushing the token pool
// toward an even split; the draw then proceeds as usual. Host only.
func (s *ActionService) SkipVoting(ctx context.Context, userID, actionID string) (*model.Action, error) {
	action, err := s.store.GetAction(ctx, actionID)
	if err != nil {
		return nil, err
	}
	game, err := s.store.GetGame(ctx, action.GameID)
	if err != nil {
		return nil, err
	}
	if err := s.requireHost(ctx, game.ID, userID); err != nil {
		return nil, err
	}
	if err := phase.RequireActionStatus(action, model.ActionVoting); err != nil {
		return nil, err
	}

	players, err := s.store.ListPlayers(ctx, game.ID)
	if err != nil {
		return nil, err
	}
	votes, err := s.store.ListVotes(ctx, actionID)
	if err != nil {
		return nil, err
	}
	voted := make(map[string]bool, len(votes))
	for _, v := range votes {
		voted[v.VoterID] = true
	}

	now := time.Now()
	for _, p := range activePlayers(players) {
		if voted[p.ID] {
			continue
		}
		vote := &model.Vote{
			ID:         uuid.NewString(),
			ActionID:   actionID,
			VoterID:    p.ID,
			Type:       model.VoteUncertain,
			WasSkipped: true,
			CreatedAt:  now,
		}
		if err := s.store.AddVote(ctx, vote); err != nil {
			// A racing submission filled this slot; their vote stands.
			if apperr.CodeOf(err) == apperr.CodeAlreadyVoted {
				continue
			}
			return nil, err
		}
	}

	if err := s.store.SetVotingSkipped(ctx, actionID); err != nil {
		return nil, err
	}
	if err := s.store.AppendEvent(ctx, game.ID, &userID, model.EventVotingSkipped, map[string]any{
		"action_id": actionID,
	}); err != nil {
		return nil, err
	}

	votes, err = s.store.ListVotes(ctx, actionID)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, game, action, model.ActionVoting, &userID, strategy.Input{Votes: voteTypes(votes)})
}

// MarkArgumentStrong toggles an argument's strength during ARBITER_REVIEW.
// Arbiter only; clarifications never carry strength.
func (s *ActionService) MarkArgumentStrong(ctx context.Context, userID, argumentID string, strong bool) (*model.Argument, error) {
	argument, err := s.store.GetArgument(ctx, argumentID)
	if err != nil {
		return nil, err
	}
	action, err := s.store.GetAction(ctx, argument.ActionID)
	if err != nil {
		return nil, err
	}
	game, player, err := s.activeParticipant(ctx, action.GameID, userID)
	if err != nil {
		return nil, err
	}
	if player.Role != model.RoleArbiter {
		return nil, apperr.Forbidden(apperr.CodeNotArbiter, "only the arbiter may mark arguments strong")
	}
	if err := phase.RequireActionStatus(action, model.ActionArbiterReview); err != nil {
		return nil, err
	}
	if argument.Type == model.ArgumentClarify {
		return nil, apperr.BadRequest(apperr.CodeInvalidArgument, "clarifications cannot be marked strong")
	}

	err = s.store.RunInTx(ctx, func(tx Store) error {
		if err := tx.SetArgumentStrong(ctx, argumentID, strong); err != nil {
			return err
		}
		return tx.AppendEvent(ctx, game.ID, &userID, model.EventArgumentStrong, map[string]any{
			"action_id":   action.ID,
			"argument_id": argumentID,
			"strong":      strong,
		})
	})
	if err != nil {
		return nil, err
	}

	return s.store.GetArgument(ctx, argumentID)
}

// CompleteArbiterReview closes ARBITER_REVIEW and resolves the action with
// the arbiter strategy, weighting the roll by strong-argument counts.
func (s *ActionService) CompleteArbiterReview(ctx context.Context, userID, actionID string) (*model.Action, error) {
	action, err := s.store.GetAction(ctx, actionID)
	if err != nil {
		return nil, err
	}
	game, player, err := s.activeParticipant(ctx, action.GameID, userID)
	if err != nil {
		return nil, err
	}
	if player.Role != model.RoleArbiter {
		return nil, apperr.Forbidden(apperr.CodeNotArbiter, "only the arbiter may complete review")
	}
	if err := phase.RequireActionStatus(action, model.ActionArbiterReview); err != nil {
		return nil, err
	}

	args, err := s.store.ListArguments(ctx, actionID)
	if err != nil {
		return nil, err
	}
	strongPro, strongAnti := strongCounts(args)

	return s.resolve(ctx, game, action, model.ActionArbiterReview, &userID, strategy.Input{
		StrongPro:  strongPro,
		StrongAnti: strongAnti,
	})
}

// SweepExpired applies the configured timeout: stalled ARGUING actions get
// their argumentation skipped, stalled VOTING actions their voting skipped,
// both through the same paths a host skip uses. Actions sitting in
// ARBITER_REVIEW are left alone; judgment cannot be defaulted.
func (s *ActionService) SweepExpired(ctx context.Context, now time.Time) int {
	expired, err := s.store.ListExpiredActions(ctx, now)
	if err != nil {
		log.Error().Err(err).Msg("Timeout sweep query failed")
		return 0
	}

	swept := 0
	for _, action := range expired {
		game, err := s.store.GetGame(ctx, action.GameID)
		if err != nil {
			log.Warn().Err(err).Str("action_id", action.ID).Msg("Sweep skipped action")
			continue
		}

		switch action.Status {
		case model.ActionArguing:
			_, err = s.advanceFromArguing(ctx, game, action, nil, true)
		case model.ActionVoting:
			err = s.sweepVoting(ctx, game, action)
		default:
			continue
		}
		if err != nil {
			// Wrong-phase just means another caller got there first.
			if apperr.CodeOf(err) != apperr.CodeWrongPhase {
				log.Warn().Err(err).Str("action_id", action.ID).Msg("Sweep failed for action")
			}
			continue
		}
		swept++
	}
	return swept
}

// sweepVoting is the actor-less voting skip used by the timeout sweep.
func (s *ActionService) sweepVoting(ctx context.Context, game *model.Game, action *model.Action) error {
	players, err := s.store.ListPlayers(ctx, game.ID)
	if err != nil {
		return err
	}
	votes, err := s.store.ListVotes(ctx, action.ID)
	if err != nil {
		return err
	}
	voted := make(map[string]bool, len(votes))
	for _, v := range votes {
		voted[v.VoterID] = true
	}
	now := time.Now()
	for _, p := range activePlayers(players) {
		if voted[p.ID] {
			continue
		}
		vote := &model.Vote{
			ID:         uuid.NewString(),
			ActionID:   action.ID,
			VoterID:    p.ID,
			Type:       model.VoteUncertain,
			WasSkipped: true,
			CreatedAt:  now,
		}
		if err := s.store.AddVote(ctx, vote); err != nil && apperr.CodeOf(err) != apperr.CodeAlreadyVoted {
			return err
		}
	}
	if err := s.store.SetVotingSkipped(ctx, action.ID); err != nil {
		return err
	}
	votes, err = s.store.ListVotes(ctx, action.ID)
	if err != nil {
		return err
	}
	_, err = s.resolve(ctx, game, action, model.ActionVoting, nil, strategy.Input{Votes: voteTypes(votes)})
	return err
}

// resolve invokes the strategy and commits the result, the round counter and
// the next game phase as one unit. The conditional ResolveAction write is
// the at-most-once gate; the in-process lock only spares concurrent callers
// a doomed transaction.
func (s *ActionService) resolve(ctx context.Context, game *model.Game, action *model.Action, from model.ActionStatus, actorID *string, input strategy.Input) (*model.Action, error) {
	strat, err := s.registry.Get(game.Settings.ResolutionStrategy)
	if err != nil {
		return nil, err
	}

	// Resolution leaves the mirrored phase through RESOLVED; validate both
	// hops before writing anything.
	resolvedPhase := phase.ForActionStatus(from)
	if err := phase.Transition(resolvedPhase, model.PhaseResolved); err != nil {
		return nil, err
	}

	outcome, err := strat.Resolve(input)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	var updated *model.Action
	err = s.locks.WithLock(action.ID, func() error {
		return s.store.RunInTx(ctx, func(tx Store) error {
			now := time.Now()
			if err := tx.ResolveAction(ctx, action.ID, from, strat.ID(), outcome.Result(), now); err != nil {
				return err
			}

			round, err := tx.IncrementActionsCompleted(ctx, action.RoundID)
			if err != nil {
				return err
			}

			nextPhase := model.PhaseProposal
			var nextAction *string
			if round.ActionsCompleted >= round.TotalActionsRequired {
				nextPhase = model.PhaseRoundSummary
			}
			if err := phase.Transition(model.PhaseResolved, nextPhase); err != nil {
				return err
			}
			if err := tx.UpdateGamePhase(ctx, game.ID, phase.ForActionStatus(from), nextPhase, game.CurrentRoundID, nextAction); err != nil {
				return err
			}
			if err := tx.AddMomentum(ctx, game.ID, outcome.Value); err != nil {
				return err
			}
			if err := tx.AppendEvent(ctx, game.ID, actorID, model.EventActionResolved, map[string]any{
				"action_id":    action.ID,
				"result_type":  string(outcome.Type),
				"result_value": outcome.Value,
				"method":       strat.ID(),
			}); err != nil {
				return err
			}

			updated, err = tx.GetAction(ctx, action.ID)
			return err
		})
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("game_id", game.ID).
		Str("action_id", action.ID).
		Str("result", string(outcome.Type)).
		Int("value", outcome.Value).
		Str("resolved_by", actorRef(actorID)).
		Msg("Action resolved")

	s.notifyGame(ctx, game, model.EventActionResolved, map[string]any{
		"action_id":    action.ID,
		"result_type":  string(outcome.Type),
		"result_value": outcome.Value,
	})

	return updated, nil
}

// activeParticipant loads the game and verifies the caller is an active
// player in it.
func (s *ActionService) activeParticipant(ctx context.Context, gameID, userID string) (*model.Game, *model.Player, error) {
	game, err := s.store.GetGame(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}
	if game.Status != model.GameStatusActive {
		return nil, nil, apperr.BadRequest(apperr.CodeNotActive, "game is not active")
	}
	player, err := s.store.GetPlayerByUser(ctx, gameID, userID)
	if err != nil {
		return nil, nil, err
	}
	if !player.Active {
		return nil, nil, apperr.Forbidden(apperr.CodeNotParticipant, "player is no longer active in this game")
	}
	return game, player, nil
}

// requireHost verifies the caller holds the host role.
func (s *ActionService) requireHost(ctx context.Context, gameID, userID string) error {
	player, err := s.store.GetPlayerByUser(ctx, gameID, userID)
	if err != nil {
		return err
	}
	if player.Role != model.RoleHost {
		return apperr.Forbidden(apperr.CodeNotHost, "only the host may do this")
	}
	return nil
}

// allUnitsMarked reports whether every acting unit has a completion mark.
// Any member's mark covers the whole unit, since shared-character players
// act jointly.
func (s *ActionService) allUnitsMarked(ctx context.Context, gameID, actionID string) (bool, error) {
	players, err := s.store.ListPlayers(ctx, gameID)
	if err != nil {
		return false, err
	}
	marks, err := s.store.ListCompletionMarks(ctx, actionID)
	if err != nil {
		return false, err
	}

	byID := make(map[string]*model.Player, len(players))
	required := make(map[string]bool)
	for _, p := range activePlayers(players) {
		byID[p.ID] = p
		required[unitKey(p)] = false
	}
	for _, playerID := range marks {
		if p, ok := byID[playerID]; ok {
			required[unitKey(p)] = true
		}
	}
	for _, marked := range required {
		if !marked {
			return false, nil
		}
	}
	return true, nil
}

func (s *ActionService) notifyGame(ctx context.Context, game *model.Game, eventType model.EventType, payload map[string]any) {
	if s.notifier == nil {
		return
	}
	players, err := s.store.ListPlayers(ctx, game.ID)
	if err != nil {
		log.Warn().Err(err).Str("game_id", game.ID).Msg("Could not load notification recipients")
		return
	}
	s.notifier.Dispatch(notify.Event{
		Type:       eventType,
		GameID:     game.ID,
		Recipients: recipientIDs(players),
		Payload:    payload,
	})
}

// hasArbiter reports whether any active player holds the arbiter role.
func hasArbiter(players []*model.Player) bool {
	for _, p := range players {
		if p.Active && p.Role == model.RoleArbiter {
			return true
		}
	}
	return false
}

// sideCount counts existing non-clarification arguments on one side.
func sideCount(args []*model.Argument, pro bool) int {
	count := 0
	for _, a := range args {
		if pro && a.Type.IsPro() {
			count++
		}
		if !pro && a.Type.IsAnti() {
			count++
		}
	}
	return count
}

// strongCounts tallies strong arguments per side; clarifications never
// count.
func strongCounts(args []*model.Argument) (pro, anti int) {
	for _, a := range args {
		if !a.IsStrong {
			continue
		}
		if a.Type.IsPro() {
			pro++
		} else if a.Type.IsAnti() {
			anti++
		}
	}
	return pro, anti
}

// voteTypes projects votes to their types for strategy input.
func voteTypes(votes []*model.Vote) []model.VoteType {
	types := make([]model.VoteType, len(votes))
	for i, v := range votes {
		types[i] = v.Type
	}
	return types
}
