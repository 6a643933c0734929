// Package main is the entrypoint of the kudos engine worker.
// The worker periodically recomputes the tri-dimension leaderboards from the
// event store and warms the Redis cache, keeping API read latency bounded.
// The API stays correct without it - reads fall back to direct computation.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kudos-hub/kudos-engine/config"
	"github.com/kudos-hub/kudos-engine/internal/application/query"
	"github.com/kudos-hub/kudos-engine/internal/infrastructure/persistence/postgres"
	rediscache "github.com/kudos-hub/kudos-engine/internal/infrastructure/persistence/redis"
	"github.com/kudos-hub/kudos-engine/internal/infrastructure/scheduler"
	"github.com/kudos-hub/kudos-engine/internal/infrastructure/scheduler/jobs"
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
	if cfg.Database.URL == "" {
		return fmt.Errorf("worker: DATABASE_URL is required")
	}
	if !cfg.Redis.Enabled {
		return fmt.Errorf("worker: REDIS_ENABLED must be set, the worker only exists to warm the cache")
	}

	log := logger.New(os.Stdout, logger.ParseLevel(cfg.App.LogLevel)).
		With(logger.String("app", cfg.App.Name+"-worker"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, err := postgres.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := rediscache.NewClient(ctx, cfg.Redis.URL)
	if err != nil {
		return err
	}
	defer client.Close()

	cache := rediscache.NewLeaderboardCache(client, cfg.Redis.LeaderboardTTL)
	repo := postgres.NewKudosRepository(conn, cfg.Engine.LikeRetryAttempts)

	// The warm job computes through the same handler the API reads with, so
	// cached and directly computed boards can never diverge in shape.
	handler := query.NewGetLeaderboardHandler(repo, postgres.NewUserRepository(conn), nil,
		timeutil.SystemClock{}, log, query.GetLeaderboardConfig{
			DecayWindow: cfg.Engine.TrendingDecayWindow,
			MinScore:    cfg.Engine.MinScore,
		})

	sched := scheduler.New(log)
	sched.Add(jobs.NewWarmLeaderboardJob(handler, cache, log), cfg.Worker.WarmInterval)
	sched.Start(ctx)

	<-ctx.Done()
	log.Info("shutting down")
	sched.Stop()
	return nil
}
