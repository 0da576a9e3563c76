// Package main is the entry point for the storyforge game server.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"storyforge/internal/config"
	"storyforge/internal/notify"
	"storyforge/internal/pkg/db"
	"storyforge/internal/pkg/random"
	"storyforge/internal/repository"
	"storyforge/internal/service"
	"storyforge/internal/strategy"
	"storyforge/internal/strategy/arbiter"
	"storyforge/internal/strategy/tokendraw"
)

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Info().Msg("Configuration loaded successfully")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	dbPool, err := db.NewPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbPool.Close()

	// Run database migrations
	log.Info().Msg("Running database migrations...")
	if err := repository.Migrate(ctx, dbPool.Pool); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}
	log.Info().Msg("All migrations completed successfully")

	store := repository.NewStore(dbPool.Pool)

	// Initialize strategy registry. Registration fails loudly on duplicate
	// ids so a misconfigured build never silently shadows a strategy.
	src := random.NewCryptoSource()
	registry := strategy.NewRegistry()
	if err := registry.Register(tokendraw.New(src)); err != nil {
		log.Fatal().Err(err).Msg("Failed to register token draw strategy")
	}
	if err := registry.Register(arbiter.New(src)); err != nil {
		log.Fatal().Err(err).Msg("Failed to register arbiter strategy")
	}

	strategies := registry.List()
	ids := make([]string, 0, len(strategies))
	for _, s := range strategies {
		ids = append(ids, s.ID())
	}
	log.Info().
		Int("strategy_count", registry.Count()).
		Strs("strategies", ids).
		Msg("Strategies registered")

	// Initialize notification dispatch
	dispatcher := notify.NewDispatcher(notify.LogSender{})

	// The action service owns the timeout sweep; game and round services
	// are constructed by whatever surface embeds this core.
	actionService := service.NewActionService(store, registry, dispatcher)

	// Start the timeout sweep
	sweepCtx, stopSweep := context.WithCancel(ctx)
	go runSweep(sweepCtx, actionService, cfg.Server.SweepInterval)

	log.Info().
		Str("default_strategy", cfg.Game.DefaultStrategy).
		Int("timeout_hours", cfg.Game.TimeoutHours).
		Dur("sweep_interval", cfg.Server.SweepInterval).
		Msg("Server is running")

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	// Graceful shutdown: stop the sweep, then drain in-flight notifications.
	stopSweep()
	dispatcher.Wait()
	log.Info().Msg("Server stopped gracefully")
}

// runSweep applies action timeouts on a fixed interval until ctx ends.
func runSweep(ctx context.Context, actions *service.ActionService, interval time.Duration) {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if swept := actions.SweepExpired(ctx, now); swept > 0 {
				log.Info().Int("swept", swept).Msg("Timed-out actions defaulted")
			}
		}
	}
}
