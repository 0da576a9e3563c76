package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"storyforge/internal/apperr"
	"storyforge/internal/model"
	"storyforge/internal/notify"
	"storyforge/internal/phase"
)

// RoundService closes rounds and opens their successors.
type RoundService struct {
	store    Store
	notifier *notify.Dispatcher
}

// NewRoundService creates a new RoundService instance.
func NewRoundService(store Store, notifier *notify.Dispatcher) *RoundService {
	return &RoundService{store: store, notifier: notifier}
}

// SubmitRoundSummary records the closing narrative for the current round and
// opens the next one sized by the current acting units. Any active
// participant may submit; the unique summary-per-round constraint keeps
// concurrent submissions to exactly one winner.
func (s *RoundService) SubmitRoundSummary(ctx context.Context, userID, gameID, content string) (*model.RoundSummary, error) {
	if content == "" {
		return nil, apperr.BadRequest(apperr.CodeInvalidArgument, "summary content cannot be empty")
	}

	game, err := s.store.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.Status != model.GameStatusActive {
		return nil, apperr.BadRequest(apperr.CodeNotActive, "game is not active")
	}
	if err := phase.RequireGamePhase(game, model.PhaseRoundSummary); err != nil {
		return nil, err
	}
	player, err := s.store.GetPlayerByUser(ctx, gameID, userID)
	if err != nil {
		return nil, err
	}
	if !player.Active {
		return nil, apperr.Forbidden(apperr.CodeNotParticipant, "player is no longer active in this game")
	}
	if game.CurrentRoundID == nil {
		return nil, apperr.NotFound(apperr.CodeRoundNotFound, "game has no open round")
	}

	round, err := s.store.GetRound(ctx, *game.CurrentRoundID)
	if err != nil {
		return nil, err
	}
	actions, err := s.store.ListActions(ctx, round.ID)
	if err != nil {
		return nil, err
	}
	players, err := s.store.ListPlayers(ctx, gameID)
	if err != nil {
		return nil, err
	}

	summary := &model.RoundSummary{
		ID:        uuid.NewString(),
		RoundID:   round.ID,
		AuthorID:  player.ID,
		Content:   content,
		Stats:     roundStats(actions),
		CreatedAt: time.Now(),
	}
	next := newRound(gameID, round.Number+1, model.ActingUnits(players))

	err = s.store.RunInTx(ctx, func(tx Store) error {
		if err := tx.CreateSummary(ctx, summary); err != nil {
			return err
		}
		if err := tx.CompleteRound(ctx, round.ID); err != nil {
			return err
		}
		if err := tx.CreateRound(ctx, next); err != nil {
			return err
		}
		if err := tx.UpdateGamePhase(ctx, gameID, model.PhaseRoundSummary, model.PhaseProposal, &next.ID, nil); err != nil {
			return err
		}
		if err := tx.AppendEvent(ctx, gameID, &userID, model.EventSummarySubmitted, map[string]any{
			"round_id":   round.ID,
			"summary_id": summary.ID,
		}); err != nil {
			return err
		}
		return tx.AppendEvent(ctx, gameID, nil, model.EventRoundStarted, map[string]any{
			"round_id": next.ID,
			"number":   next.Number,
			"actions":  next.TotalActionsRequired,
		})
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("game_id", gameID).
		Str("round_id", round.ID).
		Int("next_round", next.Number).
		Msg("Round summary submitted")

	if s.notifier != nil {
		s.notifier.Dispatch(notify.Event{
			Type:       model.EventSummarySubmitted,
			GameID:     gameID,
			Recipients: recipientIDs(players),
			Payload: map[string]any{
				"round_id":   round.ID,
				"next_round": next.Number,
			},
		})
	}

	return summary, nil
}

// roundStats aggregates resolved action outcomes for a summary. Extreme
// results, the ones a triumph or disaster produce, surface as key events.
func roundStats(actions []*model.Action) model.RoundStats {
	stats := model.RoundStats{
		ResultCounts: make(map[model.ResultType]int),
	}
	for _, a := range actions {
		if a.Result == nil {
			continue
		}
		stats.ResultCounts[a.Result.Type]++
		stats.NetMomentum += a.Result.Value
		if a.Result.Value == 3 || a.Result.Value == -3 {
			stats.KeyEvents = append(stats.KeyEvents,
				fmt.Sprintf("%s: %s", a.Result.Type, a.Description))
		}
	}
	return stats
}
