// Package jobs contains implementations of scheduled jobs for the worker.
package jobs

import (
	"context"

	"github.com/kudos-hub/kudos-engine/internal/application/query"
	"github.com/kudos-hub/kudos-engine/internal/domain/leaderboard"
	"github.com/kudos-hub/kudos-engine/pkg/logger"
)

// WarmLeaderboardJob recomputes the three dimension leaderboards from the
// current event snapshot and writes them to the cache. Reads stay pull-based
// and correct without this job; it only bounds read-path latency.
type WarmLeaderboardJob struct {
	handler *query.GetLeaderboardHandler
	cache   leaderboard.Cache
	log     *logger.Logger
}

// NewWarmLeaderboardJob creates the warm job.
func NewWarmLeaderboardJob(handler *query.GetLeaderboardHandler, cache leaderboard.Cache, log *logger.Logger) *WarmLeaderboardJob {
	if log == nil {
		log = logger.Default()
	}
	return &WarmLeaderboardJob{
		handler: handler,
		cache:   cache,
		log:     log.With(logger.Component("warm_leaderboard")),
	}
}

// Name implements scheduler.Job.
func (j *WarmLeaderboardJob) Name() string {
	return "warm_leaderboard_cache"
}

// Run implements scheduler.Job.
func (j *WarmLeaderboardJob) Run(ctx context.Context) error {
	boards, err := j.handler.Compute(ctx)
	if err != nil {
		return err
	}

	if err := j.cache.Set(ctx, boards); err != nil {
		return err
	}

	j.log.Debug("leaderboard cache warmed",
		logger.Int("received_entries", len(boards.Received)),
		logger.Int("given_entries", len(boards.Given)),
		logger.Int("trending_entries", len(boards.Trending)),
	)
	return nil
}
