package query

import (
	"context"
	"errors"
	"time"

	"github.com/kudos-hub/kudos-engine/internal/domain/kudos"
	"github.com/kudos-hub/kudos-engine/internal/domain/leaderboard"
	"github.com/kudos-hub/kudos-engine/internal/domain/shared"
	"github.com/kudos-hub/kudos-engine/internal/domain/stats"
	"github.com/kudos-hub/kudos-engine/internal/domain/user"
	"github.com/kudos-hub/kudos-engine/pkg/logger"
	"github.com/kudos-hub/kudos-engine/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET LEADERBOARD QUERY
// Returns the three dimension leaderboards. Cache-first: a warm cache answers
// directly, anything else recomputes from the event snapshot and refills the
// cache best-effort. The top three rows render as a podium downstream.
// ══════════════════════════════════════════════════════════════════════════════

// GetLeaderboardQuery contains the leaderboard read parameters.
type GetLeaderboardQuery struct {
	// Limit caps each dimension's entry count (0 = unbounded, callers
	// paginate downstream).
	Limit int

	// SkipCache forces direct computation.
	SkipCache bool
}

// Validate checks the query parameters.
func (q *GetLeaderboardQuery) Validate() error {
	if q.Limit < 0 {
		return shared.NewDomainError("query", "GetLeaderboard", shared.ErrInvalidInput, "limit cannot be negative")
	}
	return nil
}

// LeaderboardEntryDTO is one ranked row.
type LeaderboardEntryDTO struct {
	Rank       int     `json:"rank"`
	UserID     string  `json:"user_id"`
	Name       string  `json:"name"`
	Department string  `json:"department"`
	Score      float64 `json:"score"`
}

// GetLeaderboardResult bundles the three dimension views.
type GetLeaderboardResult struct {
	Received    []LeaderboardEntryDTO `json:"received"`
	Given       []LeaderboardEntryDTO `json:"given"`
	Trending    []LeaderboardEntryDTO `json:"trending"`
	FromCache   bool                  `json:"-"`
	GeneratedAt time.Time             `json:"generated_at"`
}

// GetLeaderboardHandler serves leaderboard reads.
type GetLeaderboardHandler struct {
	store     kudos.EventStore
	directory user.Directory
	cache     leaderboard.Cache // optional
	clock     timeutil.Clock
	log       *logger.Logger

	decayWindow time.Duration
	minScore    float64
}

// GetLeaderboardConfig tunes the handler.
type GetLeaderboardConfig struct {
	// DecayWindow is the trending decay window (default 30 days).
	DecayWindow time.Duration

	// MinScore filters users below the threshold (default 0, total board).
	MinScore float64
}

// NewGetLeaderboardHandler creates a leaderboard query handler.
// Cache may be nil; clock defaults to the system clock.
func NewGetLeaderboardHandler(
	store kudos.EventStore,
	directory user.Directory,
	cache leaderboard.Cache,
	clock timeutil.Clock,
	log *logger.Logger,
	cfg GetLeaderboardConfig,
) *GetLeaderboardHandler {
	if clock == nil {
		clock = timeutil.SystemClock{}
	}
	if log == nil {
		log = logger.Default()
	}
	if cfg.DecayWindow <= 0 {
		cfg.DecayWindow = stats.DefaultDecayWindow
	}
	return &GetLeaderboardHandler{
		store:       store,
		directory:   directory,
		cache:       cache,
		clock:       clock,
		log:         log.With(logger.Component("get_leaderboard")),
		decayWindow: cfg.DecayWindow,
		minScore:    cfg.MinScore,
	}
}

// Handle executes the leaderboard read.
func (h *GetLeaderboardHandler) Handle(ctx context.Context, q GetLeaderboardQuery) (*GetLeaderboardResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	if !q.SkipCache && h.cache != nil {
		if boards, err := h.cache.Get(ctx); err == nil {
			return h.toResult(boards, q.Limit, true), nil
		} else if !shared.IsNotFound(err) && !errors.Is(err, context.Canceled) {
			h.log.Warn("leaderboard cache read failed, computing directly", logger.Err(err))
		}
	}

	boards, err := h.Compute(ctx)
	if err != nil {
		return nil, err
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, boards); err != nil {
			h.log.Warn("leaderboard cache refill failed", logger.Err(err))
		}
	}

	return h.toResult(boards, q.Limit, false), nil
}

// Compute ranks all three dimensions from a fresh event snapshot.
// The worker's cache warm job shares this path.
func (h *GetLeaderboardHandler) Compute(ctx context.Context) (*leaderboard.Leaderboards, error) {
	events, err := h.store.ListEvents(ctx)
	if err != nil {
		return nil, shared.WrapError("query", "GetLeaderboard", shared.ErrServiceUnavailable, "failed to load events", err)
	}

	users, err := h.directory.ListUsers(ctx)
	if err != nil {
		return nil, shared.WrapError("query", "GetLeaderboard", shared.ErrServiceUnavailable, "failed to load user directory", err)
	}

	agg, err := stats.Compute(events, stats.Options{
		Now:         h.clock.Now(),
		DecayWindow: h.decayWindow,
	})
	if err != nil {
		return nil, err
	}
	if agg.SkippedEvents > 0 {
		h.log.Warn("skipped corrupt events during aggregation", logger.Int("skipped", agg.SkippedEvents))
	}

	boards := leaderboard.RankAll(agg, users, leaderboard.Options{MinScore: h.minScore})
	boards.GeneratedAt = h.clock.Now()
	return boards, nil
}

func (h *GetLeaderboardHandler) toResult(boards *leaderboard.Leaderboards, limit int, fromCache bool) *GetLeaderboardResult {
	return &GetLeaderboardResult{
		Received:    toEntryDTOs(boards.Received, limit),
		Given:       toEntryDTOs(boards.Given, limit),
		Trending:    toEntryDTOs(boards.Trending, limit),
		FromCache:   fromCache,
		GeneratedAt: boards.GeneratedAt,
	}
}

func toEntryDTOs(entries []leaderboard.Entry, limit int) []LeaderboardEntryDTO {
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	out := make([]LeaderboardEntryDTO, len(entries))
	for i, e := range entries {
		out[i] = LeaderboardEntryDTO{
			Rank:       int(e.Rank),
			UserID:     e.UserID.String(),
			Name:       e.Name,
			Department: e.Department,
			Score:      e.Score,
		}
	}
	return out
}
