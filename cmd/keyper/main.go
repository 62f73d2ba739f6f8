package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/keyper-app/keyper/internal/access"
	"github.com/keyper-app/keyper/internal/auth"
	"github.com/keyper-app/keyper/internal/config"
	"github.com/keyper-app/keyper/internal/events"
	"github.com/keyper-app/keyper/internal/lease"
	"github.com/keyper-app/keyper/internal/server"
	"github.com/keyper-app/keyper/internal/store/postgres"
	redisstore "github.com/keyper-app/keyper/internal/store/redis"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
}

func run() error {
	// Initialize structured logging from environment.
	logLevel := os.Getenv("KEYPER_LOG_LEVEL")
	level, parseErr := zerolog.ParseLevel(logLevel)
	if parseErr != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	logFormat := os.Getenv("KEYPER_LOG_FORMAT")
	if logFormat == "text" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	ctx := context.Background()

	// Load configuration from environment.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if cfg.Database.MaxConns < 0 || cfg.Database.MaxConns > math.MaxInt32 {
		return fmt.Errorf("database max_conns %d out of int32 range", cfg.Database.MaxConns)
	}

	// Connect to PostgreSQL.
	store, err := postgres.New(ctx, cfg.Database.DSN(), int32(cfg.Database.MaxConns)) //nolint:gosec // bounds checked above
	if err != nil {
		return err
	}
	defer store.Close()

	// Connect to Redis (lease cache + event pub/sub).
	cache, err := redisstore.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.CacheTTL)
	if err != nil {
		return err
	}
	defer cache.Close()

	// Create auth service.
	authSvc := auth.NewService(store.Users(), cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)

	// Role/action/resource access rules.
	registry := access.NewRegistry(access.DefaultStrategies())

	// Lease governance pipeline: access rules, field policy, state machine.
	sink := events.NewSink(cache)
	governor := lease.NewOrchestrator(store.Leases(), registry, cache, sink, store.UserProfiles())

	// Graceful shutdown on SIGINT / SIGTERM.
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Mirror the event firehose into the application log.
	go func() {
		msgs, cleanup, subErr := cache.Subscribe(ctx, events.FirehoseChannel)
		if subErr != nil {
			log.Warn().Err(subErr).Msg("event firehose unavailable")
			return
		}
		defer cleanup()
		for raw := range msgs {
			log.Debug().RawJSON("event", raw).Msg("domain event")
		}
	}()

	// Create HTTP server with all routes wired.
	srv := server.New(ctx, cfg, store, authSvc, registry, governor, cache)

	// Start server in background goroutine.
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		if startErr := srv.Start(); startErr != nil {
			log.Error().Err(startErr).Msg("server error")
		}
	}()

	// Block until shutdown signal.
	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		return shutdownErr
	}

	log.Info().Msg("stopped")
	return nil
}
