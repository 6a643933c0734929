// Package main is the entrypoint of the kudos engine API server.
//
// The engine turns the append-only kudos event stream into per-user stats,
// category breakdowns, tri-dimension leaderboards and progression state, and
// exposes them through a thin JSON API. Layout follows Clean Architecture:
// domain (pure engine logic), application (CQRS queries/commands),
// infrastructure (postgres/redis/messaging), interface (HTTP adapter).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kudos-hub/kudos-engine/config"
	"github.com/kudos-hub/kudos-engine/internal/application/command"
	"github.com/kudos-hub/kudos-engine/internal/application/eventhandler"
	"github.com/kudos-hub/kudos-engine/internal/application/query"
	"github.com/kudos-hub/kudos-engine/internal/domain/kudos"
	"github.com/kudos-hub/kudos-engine/internal/domain/leaderboard"
	"github.com/kudos-hub/kudos-engine/internal/domain/shared"
	"github.com/kudos-hub/kudos-engine/internal/domain/user"
	"github.com/kudos-hub/kudos-engine/internal/infrastructure/messaging"
	"github.com/kudos-hub/kudos-engine/internal/infrastructure/persistence/memory"
	"github.com/kudos-hub/kudos-engine/internal/infrastructure/persistence/postgres"
	rediscache "github.com/kudos-hub/kudos-engine/internal/infrastructure/persistence/redis"
	httpserver "github.com/kudos-hub/kudos-engine/internal/interface/http"
	"github.com/kudos-hub/kudos-engine/pkg/logger"
	"github.com/kudos-hub/kudos-engine/pkg/timeutil"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(os.Stdout, logger.ParseLevel(cfg.App.LogLevel)).
		With(logger.String("app", cfg.App.Name))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Persistence ─────────────────────────────────────────────────────────

	var (
		store     kudos.EventStore
		registry  kudos.LikeRegistry
		directory user.Directory
	)

	if cfg.Database.URL != "" {
		conn, err := postgres.Connect(ctx, cfg.Database.URL)
		if err != nil {
			return err
		}
		defer conn.Close()

		if cfg.Database.MigrateOnStart {
			if err := postgres.Migrate(ctx, conn); err != nil {
				return err
			}
		}

		repo := postgres.NewKudosRepository(conn, cfg.Engine.LikeRetryAttempts)
		store = repo
		registry = repo
		directory = postgres.NewUserRepository(conn)
		log.Info("using postgres store")
	} else {
		mem := memory.NewStore()
		store = mem
		registry = mem
		directory = mem
		log.Warn("no DATABASE_URL set, using in-memory store")
	}

	var cache leaderboard.Cache
	if cfg.Redis.Enabled {
		client, err := rediscache.NewClient(ctx, cfg.Redis.URL)
		if err != nil {
			return err
		}
		defer client.Close()
		cache = rediscache.NewLeaderboardCache(client, cfg.Redis.LeaderboardTTL)
		log.Info("leaderboard cache enabled")
	}

	// ── Messaging ───────────────────────────────────────────────────────────

	bus := messaging.NewInMemoryEventBus(messaging.Config{Logger: log})
	defer bus.Close()

	if cache != nil {
		if err := bus.Subscribe(shared.EventKudosSubmitted, eventhandler.NewOnKudosSubmitted(cache, log)); err != nil {
			return err
		}
	}

	// ── Application ─────────────────────────────────────────────────────────

	handlers := httpserver.Handlers{
		GetStats: query.NewGetStatsHandler(store),
		GetLeaderboard: query.NewGetLeaderboardHandler(store, directory, cache, timeutil.SystemClock{}, log,
			query.GetLeaderboardConfig{
				DecayWindow: cfg.Engine.TrendingDecayWindow,
				MinScore:    cfg.Engine.MinScore,
			}),
		GetFeed:     query.NewGetFeedHandler(store, directory),
		SubmitKudos: command.NewSubmitKudosHandler(store, bus, log),
		ToggleLike:  command.NewToggleLikeHandler(registry, bus, log),
	}

	// ── HTTP ────────────────────────────────────────────────────────────────

	server := httpserver.NewServer(httpserver.Config{
		Host:         cfg.HTTP.Host,
		Port:         cfg.HTTP.Port,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}, handlers, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
