package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"storyforge/internal/apperr"
	"storyforge/internal/model"
	"storyforge/internal/notify"
	"storyforge/internal/strategy"
)

// GameService handles game lifecycle: creation, joining and starting.
type GameService struct {
	store    Store
	registry *strategy.Registry
	notifier *notify.Dispatcher
}

// NewGameService creates a new GameService instance.
func NewGameService(store Store, registry *strategy.Registry, notifier *notify.Dispatcher) *GameService {
	return &GameService{
		store:    store,
		registry: registry,
		notifier: notifier,
	}
}

// Strategies returns the registered resolution strategies for presentation
// to game hosts at configuration time.
func (s *GameService) Strategies() []strategy.Strategy {
	return s.registry.List()
}

// CreateGame creates a game in SETUP with the caller as host.
func (s *GameService) CreateGame(ctx context.Context, hostUserID, hostName, gameName string, settings model.GameSettings) (*model.Game, error) {
	if strings.TrimSpace(gameName) == "" {
		return nil, apperr.BadRequest(apperr.CodeInvalidArgument, "game name cannot be empty")
	}
	if _, err := s.registry.Get(settings.ResolutionStrategy); err != nil {
		return nil, err
	}

	now := time.Now()
	game := &model.Game{
		ID:           uuid.NewString(),
		Name:         gameName,
		Status:       model.GameStatusSetup,
		CurrentPhase: model.PhaseProposal,
		Settings:     settings,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	host := &model.Player{
		ID:          uuid.NewString(),
		GameID:      game.ID,
		UserID:      hostUserID,
		DisplayName: hostName,
		Role:        model.RoleHost,
		Active:      true,
		CreatedAt:   now,
	}

	err := s.store.RunInTx(ctx, func(tx Store) error {
		if err := tx.CreateGame(ctx, game); err != nil {
			return err
		}
		if err := tx.AddPlayer(ctx, host); err != nil {
			return err
		}
		return tx.AppendEvent(ctx, game.ID, &hostUserID, model.EventGameCreated, map[string]any{
			"name":     gameName,
			"strategy": settings.ResolutionStrategy,
		})
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("game_id", game.ID).
		Str("strategy", settings.ResolutionStrategy).
		Msg("Game created")

	return game, nil
}

// JoinGame adds a user to a game in SETUP. Role must be PLAYER or ARBITER;
// an optional character id shares an acting unit with other players holding
// the same id. Joining twice resolves to exactly one success: the store's
// uniqueness constraint rejects the duplicate.
func (s *GameService) JoinGame(ctx context.Context, userID, gameID, displayName string, role model.Role, characterID *string) (*model.Player, error) {
	if role != model.RolePlayer && role != model.RoleArbiter {
		return nil, apperr.Newf(apperr.KindBadRequest, apperr.CodeInvalidArgument,
			"role must be %s or %s", model.RolePlayer, model.RoleArbiter)
	}

	game, err := s.store.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.Status != model.GameStatusSetup {
		return nil, apperr.BadRequest(apperr.CodeNotActive, "game is no longer accepting players")
	}

	player := &model.Player{
		ID:          uuid.NewString(),
		GameID:      gameID,
		UserID:      userID,
		DisplayName: displayName,
		Role:        role,
		CharacterID: characterID,
		Active:      true,
		CreatedAt:   time.Now(),
	}

	err = s.store.RunInTx(ctx, func(tx Store) error {
		if err := tx.AddPlayer(ctx, player); err != nil {
			return err
		}
		return tx.AppendEvent(ctx, gameID, &userID, model.EventPlayerJoined, map[string]any{
			"player_id": player.ID,
			"role":      string(role),
		})
	})
	if err != nil {
		return nil, err
	}

	return player, nil
}

// StartGame moves a game from SETUP to ACTIVE and opens round 1. Host only.
func (s *GameService) StartGame(ctx context.Context, hostUserID, gameID string) (*model.Game, error) {
	game, err := s.store.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	host, err := s.store.GetPlayerByUser(ctx, gameID, hostUserID)
	if err != nil {
		return nil, err
	}
	if host.Role != model.RoleHost {
		return nil, apperr.Forbidden(apperr.CodeNotHost, "only the host may start the game")
	}
	if game.Status != model.GameStatusSetup {
		return nil, apperr.BadRequest(apperr.CodeNotActive, "game has already started")
	}

	players, err := s.store.ListPlayers(ctx, gameID)
	if err != nil {
		return nil, err
	}
	units := model.ActingUnits(players)
	if units == 0 {
		return nil, apperr.BadRequest(apperr.CodeInvalidArgument, "cannot start a game with no active players")
	}

	round := newRound(gameID, 1, units)

	err = s.store.RunInTx(ctx, func(tx Store) error {
		if err := tx.UpdateGameStatus(ctx, gameID, model.GameStatusSetup, model.GameStatusActive); err != nil {
			return err
		}
		if err := tx.CreateRound(ctx, round); err != nil {
			return err
		}
		if err := tx.UpdateGamePhase(ctx, gameID, game.CurrentPhase, model.PhaseProposal, &round.ID, nil); err != nil {
			return err
		}
		if err := tx.AppendEvent(ctx, gameID, &hostUserID, model.EventGameStarted, map[string]any{
			"players": len(players),
		}); err != nil {
			return err
		}
		return tx.AppendEvent(ctx, gameID, nil, model.EventRoundStarted, map[string]any{
			"round_number":     1,
			"actions_required": units,
		})
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("game_id", gameID).
		Int("acting_units", units).
		Msg("Game started")

	s.dispatch(notify.Event{
		Type:       model.EventGameStarted,
		GameID:     gameID,
		Recipients: recipientIDs(players),
		Payload:    map[string]any{"round_number": 1},
	})

	return s.store.GetGame(ctx, gameID)
}

func (s *GameService) dispatch(event notify.Event) {
	if s.notifier != nil {
		s.notifier.Dispatch(event)
	}
}

// newRound builds the next round sized by the current acting-unit count.
func newRound(gameID string, number, units int) *model.Round {
	now := time.Now()
	return &model.Round{
		ID:                   uuid.NewString(),
		GameID:               gameID,
		Number:               number,
		Status:               model.RoundInProgress,
		TotalActionsRequired: units,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

// actorRef formats an optional actor for log output.
func actorRef(actorID *string) string {
	if actorID == nil {
		return "system"
	}
	return fmt.Sprintf("user %s", *actorID)
}
