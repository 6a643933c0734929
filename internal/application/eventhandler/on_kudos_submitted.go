// Package eventhandler contains subscribers that react to domain events.
// Handlers are side-channel consumers: their failures are logged by the bus
// and never propagate back to the command that published the event.
package eventhandler

import (
	"context"

	"github.com/kudos-hub/kudos-engine/internal/domain/leaderboard"
	"github.com/kudos-hub/kudos-engine/internal/domain/shared"
	"github.com/kudos-hub/kudos-engine/pkg/logger"
)

// OnKudosSubmitted invalidates the cached leaderboards when a new kudos event
// lands: every dimension score is derived from the event set, so any cached
// board is stale the moment one is appended. Like toggles do not touch
// leaderboard scores and need no handler.
type OnKudosSubmitted struct {
	cache leaderboard.Cache
	log   *logger.Logger
}

// NewOnKudosSubmitted creates the cache invalidation handler.
func NewOnKudosSubmitted(cache leaderboard.Cache, log *logger.Logger) *OnKudosSubmitted {
	if log == nil {
		log = logger.Default()
	}
	return &OnKudosSubmitted{
		cache: cache,
		log:   log.With(logger.Component("on_kudos_submitted")),
	}
}

// Name implements shared.EventHandler.
func (h *OnKudosSubmitted) Name() string {
	return "leaderboard_cache_invalidator"
}

// Handle implements shared.EventHandler.
func (h *OnKudosSubmitted) Handle(ctx context.Context, event shared.Event) error {
	if event.EventType() != shared.EventKudosSubmitted {
		return nil
	}
	if h.cache == nil {
		return nil
	}

	if err := h.cache.Invalidate(ctx); err != nil {
		h.log.Warn("leaderboard cache invalidation failed; stale boards persist until TTL",
			logger.KudosID(event.AggregateID()), logger.Err(err))
		return err
	}

	h.log.Debug("leaderboard cache invalidated", logger.KudosID(event.AggregateID()))
	return nil
}
